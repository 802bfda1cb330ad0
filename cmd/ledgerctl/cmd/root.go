// Package cmd implements the ledgerctl CLI: one-shot account and
// transfer operations against a running backend, for poking at a ledger
// by hand the way `redis-cli` pokes at Redis.
package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ltzhang/lua-beetle/client"
	"github.com/ltzhang/lua-beetle/store/pebblestore"
	"github.com/ltzhang/lua-beetle/store/redisstore"
)

var (
	backendFlag string
	redisAddr   string
	pebblePath  string
)

var rootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "Command-line client for a lua-beetle ledger",
}

// Execute runs the CLI; called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("ledgerctl failed")
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "redis", "storage backend: redis or pebble")
	rootCmd.PersistentFlags().StringVar(&redisAddr, "redis-addr", "localhost:6379", "redis backend address")
	rootCmd.PersistentFlags().StringVar(&pebblePath, "pebble-path", "./ledgerctl.db", "pebble backend data directory")
}

// newClient opens the configured backend and returns a client bound to
// it along with a closer to run before the command exits.
func newClient(ctx context.Context) (*client.Client, func() error, error) {
	switch backendFlag {
	case "redis":
		s, err := redisstore.New(ctx, redisstore.Options{Addr: redisAddr})
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis backend: %w", err)
		}
		return client.New(s, log.Logger), s.Close, nil
	case "pebble":
		s, err := pebblestore.New(pebblestore.Options{Path: pebblePath, BlockCacheSize: 8 << 20})
		if err != nil {
			return nil, nil, fmt.Errorf("open pebble backend: %w", err)
		}
		return client.New(s, log.Logger), s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", backendFlag)
	}
}
