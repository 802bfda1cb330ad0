package cmd

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ltzhang/lua-beetle/client"
	"github.com/ltzhang/lua-beetle/cmd/ledgerbench/workload"
	"github.com/ltzhang/lua-beetle/store/pebblestore"
	"github.com/ltzhang/lua-beetle/store/redisstore"
)

var (
	runBackend       string
	runRedisAddr     string
	runPebblePath    string
	runTBAddresses   string
	numAccounts      int
	numHotAccounts   int
	numWorkers       int
	durationSec      int
	workloadKind     string
	transferRatio    float64
	twoPhaseRatio    float64
	hotAccountSkew   float64
	batchSize        int
	ledgerID         uint32
	verbose          bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a workload against a backend and report throughput/latency",
	Run: func(_ *cobra.Command, _ []string) {
		ctx := context.Background()

		backend, closeFn, name, err := resolveBackend(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("resolve backend")
		}
		defer closeFn()

		cfg := workload.Config{
			NumAccounts:    numAccounts,
			NumHotAccounts: numHotAccounts,
			NumWorkers:     numWorkers,
			DurationSec:    durationSec,
			Kind:           workload.Kind(workloadKind),
			TransferRatio:  transferRatio,
			TwoPhaseRatio:  twoPhaseRatio,
			HotAccountSkew: hotAccountSkew,
			BatchSize:      batchSize,
			LedgerID:       ledgerID,
			Verbose:        verbose,
		}

		runner := &workload.Runner{Client: backend, Config: cfg, Name: name}
		metrics, err := runner.Run(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("run workload")
		}
		metrics.Print(name)
	},
}

// resolveBackend opens whichever backend was selected on the command
// line and returns it as a workload.Backend, a closer, and a display
// name for the metrics summary.
func resolveBackend(ctx context.Context) (workload.Backend, func() error, string, error) {
	switch runBackend {
	case "redis":
		s, err := redisstore.New(ctx, redisstore.Options{Addr: runRedisAddr})
		if err != nil {
			return nil, nil, "", err
		}
		return client.New(s, log.Logger), s.Close, "Redis", nil
	case "pebble":
		s, err := pebblestore.New(pebblestore.Options{Path: runPebblePath, BlockCacheSize: 64 << 20})
		if err != nil {
			return nil, nil, "", err
		}
		return client.New(s, log.Logger), s.Close, "Pebble", nil
	case "tigerbeetle":
		addrs := strings.Split(runTBAddresses, ",")
		b, err := newTigerBeetleBackend(addrs)
		if err != nil {
			return nil, nil, "", err
		}
		return b, b.Close, "TigerBeetle", nil
	default:
		return nil, nil, "", errUnknownBackend(runBackend)
	}
}

type errUnknownBackend string

func (e errUnknownBackend) Error() string { return "ledgerbench: unknown backend " + string(e) }

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runBackend, "backend", "redis", "storage backend: redis, pebble, or tigerbeetle")
	runCmd.Flags().StringVar(&runRedisAddr, "redis-addr", "localhost:6379", "redis backend address")
	runCmd.Flags().StringVar(&runPebblePath, "pebble-path", "./ledgerbench.db", "pebble backend data directory")
	runCmd.Flags().StringVar(&runTBAddresses, "tigerbeetle-addresses", "3000", "comma-separated tigerbeetle replica addresses")

	runCmd.Flags().IntVar(&numAccounts, "accounts", 10000, "total accounts to pre-create")
	runCmd.Flags().IntVar(&numHotAccounts, "hot-accounts", 100, "size of the hot account subset")
	runCmd.Flags().IntVar(&numWorkers, "workers", 8, "concurrent workers")
	runCmd.Flags().IntVar(&durationSec, "duration", 10, "run duration in seconds")
	runCmd.Flags().StringVar(&workloadKind, "workload", "transfer", "workload kind: transfer, lookup, twophase, or mixed")
	runCmd.Flags().Float64Var(&transferRatio, "transfer-ratio", 0.8, "mixed workload: fraction of ops that are transfers")
	runCmd.Flags().Float64Var(&twoPhaseRatio, "two-phase-post-ratio", 0.7, "two-phase workload: fraction of pending transfers posted (rest voided)")
	runCmd.Flags().Float64Var(&hotAccountSkew, "hot-skew", 0.0, "zipf skew for account selection, 0 = uniform")
	runCmd.Flags().IntVar(&batchSize, "batch-size", 1, "reserved for future chained-batch workloads")
	runCmd.Flags().Uint32Var(&ledgerID, "ledger", 1, "ledger id for all accounts/transfers")
	runCmd.Flags().BoolVar(&verbose, "verbose", false, "log per-operation errors")
}
