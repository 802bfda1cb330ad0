package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ltzhang/lua-beetle/client"
	"github.com/ltzhang/lua-beetle/wire"
)

var (
	acctLedger uint32
	acctCode   uint16
	acctFlags  uint16
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Create or look up accounts",
}

var accountCreateCmd = &cobra.Command{
	Use:   "create <id>",
	Short: "Create a single account",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		id, err := client.ParseID(args[0])
		if err != nil {
			log.Fatal().Err(err).Msg("invalid account id")
		}
		c, closeFn, err := newClient(context.Background())
		if err != nil {
			log.Fatal().Err(err).Msg("connect")
		}
		defer closeFn()

		code, err := c.CreateAccount(context.Background(), wire.Account{
			ID:     id,
			Ledger: acctLedger,
			Code:   acctCode,
			Flags:  wire.AccountFlags(acctFlags),
		})
		if err != nil {
			log.Fatal().Err(err).Msg("create_account")
		}
		fmt.Printf("result=%d (%s)\n", code, code)
	},
}

var accountLookupCmd = &cobra.Command{
	Use:   "lookup <id>",
	Short: "Look up one account",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		id, err := client.ParseID(args[0])
		if err != nil {
			log.Fatal().Err(err).Msg("invalid account id")
		}
		c, closeFn, err := newClient(context.Background())
		if err != nil {
			log.Fatal().Err(err).Msg("connect")
		}
		defer closeFn()

		a, err := c.LookupAccount(context.Background(), id)
		if err != nil {
			log.Fatal().Err(err).Msg("lookup_account")
		}
		if a == nil {
			fmt.Println("not found")
			return
		}
		fmt.Printf("id=%s ledger=%d code=%d flags=0x%x debits_pending=%s debits_posted=%s credits_pending=%s credits_posted=%s\n",
			a.ID, a.Ledger, a.Code, uint16(a.Flags), a.DebitsPending, a.DebitsPosted, a.CreditsPending, a.CreditsPosted)
	},
}

func init() {
	rootCmd.AddCommand(accountCmd)
	accountCmd.AddCommand(accountCreateCmd, accountLookupCmd)

	accountCreateCmd.Flags().Uint32Var(&acctLedger, "ledger", 1, "ledger id")
	accountCreateCmd.Flags().Uint16Var(&acctCode, "code", 1, "account code")
	accountCreateCmd.Flags().Uint16Var(&acctFlags, "flags", 0, "account flags bitmask")
}
