package workload

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Metrics accumulates counters across all workers in a run; every counter
// is atomic so workers can update it lock-free. StartTime and EndTime are
// plain values set by Runner.Run outside the workers.
type Metrics struct {
	OperationsCompleted atomic.Uint64
	OperationsFailed    atomic.Uint64
	TransfersCreated    atomic.Uint64
	TwoPhaseCreated     atomic.Uint64
	TwoPhasePending     atomic.Uint64
	TwoPhasePosted      atomic.Uint64
	TwoPhaseVoided      atomic.Uint64
	AccountsLookedUp    atomic.Uint64
	TotalLatencyNs      atomic.Uint64
	StartTime           time.Time
	EndTime             time.Time
}

// RecordLatency folds one operation's latency into the running total and
// bumps OperationsCompleted or OperationsFailed depending on ok.
func (m *Metrics) RecordLatency(d time.Duration, ok bool) {
	if ok {
		m.OperationsCompleted.Add(1)
	} else {
		m.OperationsFailed.Add(1)
	}
	m.TotalLatencyNs.Add(uint64(d.Nanoseconds()))
}

// Print writes a human-readable summary of the run to stdout.
func (m *Metrics) Print(name string) {
	duration := m.EndTime.Sub(m.StartTime).Seconds()
	completed := m.OperationsCompleted.Load()
	failed := m.OperationsFailed.Load()
	transfers := m.TransfersCreated.Load()
	twoPhaseTotal := m.TwoPhaseCreated.Load()
	lookups := m.AccountsLookedUp.Load()
	totalLatency := m.TotalLatencyNs.Load()

	throughput := 0.0
	if duration > 0 {
		throughput = float64(completed) / duration
	}
	avgLatencyMs := 0.0
	if completed > 0 {
		avgLatencyMs = float64(totalLatency) / float64(completed) / 1e6
	}

	fmt.Printf("\n=== %s Results ===\n", name)
	fmt.Printf("Duration: %.2f seconds\n", duration)
	fmt.Printf("Operations Completed: %d\n", completed)
	fmt.Printf("Operations Failed: %d\n", failed)
	fmt.Printf("Transfers Created: %d\n", transfers)
	if twoPhaseTotal > 0 {
		fmt.Printf("Two-Phase Transfers: %d (Pending: %d, Posted: %d, Voided: %d)\n",
			twoPhaseTotal, m.TwoPhasePending.Load(), m.TwoPhasePosted.Load(), m.TwoPhaseVoided.Load())
	}
	fmt.Printf("Accounts Looked Up: %d\n", lookups)
	fmt.Printf("Throughput: %.2f ops/sec\n", throughput)
	fmt.Printf("Average Latency: %.2f ms\n", avgLatencyMs)
	if total := completed + failed; total > 0 {
		successRate := float64(completed) / float64(total) * 100
		fmt.Printf("Success Rate: %.2f%%\n", successRate)
	}
}
