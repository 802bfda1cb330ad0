// Package cmd implements the ledgerbench CLI: a concurrent workload
// generator that drives accounts and transfers against a backend and
// reports throughput/latency, the same role the source's stress_test
// binaries played for a single backend each.
package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ledgerbench",
	Short: "Workload generator and benchmark for a lua-beetle ledger",
}

// Execute runs the CLI; called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("ledgerbench failed")
	}
}
