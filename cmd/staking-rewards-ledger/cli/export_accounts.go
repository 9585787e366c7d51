package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/config"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/db"
	dbmodel "github.com/tokenfarm-io/staking-rewards-ledger/internal/db/model"
	"github.com/tokenfarm-io/staking-rewards-ledger/pkg"
)

// ExportAccountsCmd writes the persisted accounts as JSON
// Usage: ./staking-rewards-ledger export-accounts --config config.yml [file] [--account <addr>]
func ExportAccountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-accounts [file]",
		Short: "Writes the persisted ledger accounts as JSON, to stdout when no file is given",
		Args:  cobra.MaximumNArgs(1),
		Run:   exportAccounts,
	}

	cmd.Flags().String("account", "", "Export a single account")

	return cmd
}

func exportAccounts(cmd *cobra.Command, args []string) {
	if err := exportAccountsE(cmd, args); err != nil {
		log.Err(err).Msg("Failed to export accounts")
		os.Exit(1)
	}
}

func exportAccountsE(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.New(GetConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	account, err := cmd.Flags().GetString("account")
	if err != nil {
		return err
	}

	dbClient, err := db.New(ctx, cfg.Db)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbClient.Close(ctx)

	var accounts []*dbmodel.LedgerAccountDocument
	if account != "" {
		addr, err := pkg.ParseAddress(account)
		if err != nil {
			return err
		}
		doc, err := dbClient.GetLedgerAccount(ctx, addr.Hex())
		if err != nil {
			return err
		}
		accounts = append(accounts, doc)
	} else {
		accounts, err = dbClient.FindLedgerAccounts(ctx)
		if err != nil {
			return fmt.Errorf("failed to load accounts: %w", err)
		}
	}

	var out io.Writer = cmd.OutOrStdout()
	if len(args) == 1 {
		f, err := os.Create(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(accounts); err != nil {
		return err
	}

	log.Info().Int("accounts", len(accounts)).Msg("Exported ledger accounts")
	return nil
}
