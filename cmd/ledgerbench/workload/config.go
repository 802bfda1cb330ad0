package workload

// Kind selects which mix of operations a benchmark run exercises.
type Kind string

const (
	KindTransfer Kind = "transfer"
	KindLookup   Kind = "lookup"
	KindTwoPhase Kind = "twophase"
	KindMixed    Kind = "mixed"
)

// Config parameters a benchmark run against one backend.
type Config struct {
	NumAccounts    int     // total accounts to pre-create
	NumHotAccounts int     // size of the hot subset; not read by Runner
	NumWorkers     int     // concurrent workers
	DurationSec    int     // run duration
	Kind           Kind    // workload mix
	TransferRatio  float64 // mixed: fraction of ops that are transfers (rest are lookups)
	TwoPhaseRatio  float64 // twophase: fraction of pending transfers posted (rest are voided)
	HotAccountSkew float64 // zipf skew for account selection in every kind; below 0.01 ids are uniform
	BatchSize      int     // not read by Runner; every op is submitted on its own
	LedgerID       uint32
	Verbose        bool
}
