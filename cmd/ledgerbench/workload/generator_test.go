package workload

import "testing"

func TestUniformGeneratorInRange(t *testing.T) {
	g := NewUniformGenerator(10, 1)
	for i := 0; i < 1000; i++ {
		id := g.Next()
		if id < 1 || id > 10 {
			t.Fatalf("id out of range: %d", id)
		}
	}
}

func TestZipfGeneratorInRange(t *testing.T) {
	g := NewZipfGenerator(100, 0.99, 1)
	for i := 0; i < 1000; i++ {
		id := g.Next()
		if id < 1 || id > 100 {
			t.Fatalf("id out of range: %d", id)
		}
	}
}

func TestHotColdGeneratorRanges(t *testing.T) {
	g := NewHotColdGenerator(100, 10, 1)
	for i := 0; i < 1000; i++ {
		hot := g.NextHot()
		if hot < 1 || hot > 10 {
			t.Fatalf("hot id out of range: %d", hot)
		}
		any := g.NextAny()
		if any < 1 || any > 100 {
			t.Fatalf("any id out of range: %d", any)
		}
	}
}

func TestHotColdGeneratorNextHotAndAnyDistinct(t *testing.T) {
	g := NewHotColdGenerator(100, 10, 1)
	for i := 0; i < 1000; i++ {
		hot, any := g.NextHotAndAny()
		if hot == any {
			t.Fatalf("expected distinct accounts, got hot=%d any=%d", hot, any)
		}
	}
}
