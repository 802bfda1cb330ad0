package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ltzhang/lua-beetle/client"
	"github.com/ltzhang/lua-beetle/u128"
	"github.com/ltzhang/lua-beetle/wire"
)

var (
	trDebit   string
	trCredit  string
	trAmount  uint64
	trLedger  uint32
	trCode    uint16
	trFlags   uint16
	trPending string
)

var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Create or look up transfers",
}

var transferCreateCmd = &cobra.Command{
	Use:   "create <id>",
	Short: "Create a single transfer",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		id, err := client.ParseID(args[0])
		if err != nil {
			log.Fatal().Err(err).Msg("invalid transfer id")
		}
		debit, err := client.ParseID(trDebit)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid debit account id")
		}
		credit, err := client.ParseID(trCredit)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid credit account id")
		}

		t := wire.Transfer{
			ID:              id,
			DebitAccountID:  debit,
			CreditAccountID: credit,
			Amount:          u128.FromUint64(trAmount),
			Ledger:          trLedger,
			Code:            trCode,
			Flags:           wire.TransferFlags(trFlags),
		}
		if trPending != "" {
			pid, err := client.ParseID(trPending)
			if err != nil {
				log.Fatal().Err(err).Msg("invalid pending id")
			}
			t.PendingID = pid
		}

		c, closeFn, err := newClient(context.Background())
		if err != nil {
			log.Fatal().Err(err).Msg("connect")
		}
		defer closeFn()

		code, err := c.CreateTransfer(context.Background(), t)
		if err != nil {
			log.Fatal().Err(err).Msg("create_transfer")
		}
		fmt.Printf("result=%d (%s)\n", code, code)
	},
}

var transferLookupCmd = &cobra.Command{
	Use:   "lookup <id>",
	Short: "Look up one transfer",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		id, err := client.ParseID(args[0])
		if err != nil {
			log.Fatal().Err(err).Msg("invalid transfer id")
		}
		c, closeFn, err := newClient(context.Background())
		if err != nil {
			log.Fatal().Err(err).Msg("connect")
		}
		defer closeFn()

		t, err := c.LookupTransfer(context.Background(), id)
		if err != nil {
			log.Fatal().Err(err).Msg("lookup_transfer")
		}
		if t == nil {
			fmt.Println("not found")
			return
		}
		fmt.Printf("id=%s debit=%s credit=%s amount=%s flags=0x%x\n", t.ID, t.DebitAccountID, t.CreditAccountID, t.Amount, uint16(t.Flags))
	},
}

func init() {
	rootCmd.AddCommand(transferCmd)
	transferCmd.AddCommand(transferCreateCmd, transferLookupCmd)

	transferCreateCmd.Flags().StringVar(&trDebit, "debit", "", "debit account id")
	transferCreateCmd.Flags().StringVar(&trCredit, "credit", "", "credit account id")
	transferCreateCmd.Flags().Uint64Var(&trAmount, "amount", 0, "transfer amount")
	transferCreateCmd.Flags().Uint32Var(&trLedger, "ledger", 1, "ledger id")
	transferCreateCmd.Flags().Uint16Var(&trCode, "code", 1, "transfer code")
	transferCreateCmd.Flags().Uint16Var(&trFlags, "flags", 0, "transfer flags bitmask")
	transferCreateCmd.Flags().StringVar(&trPending, "pending-id", "", "pending transfer id (for post_pending/void_pending)")
	transferCreateCmd.MarkFlagRequired("debit")
	transferCreateCmd.MarkFlagRequired("credit")
}
