package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/contacts-dedupe/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "contacts-dedupe <contacts.csv>",
	Short: "Group contacts that share a mailing address",
	Long: `Reads a contact export (Contact ID, First Name, Last Name, Primary Street,
Primary City, Primary State/Province, Primary Zip/Postal Code, Primary Country,
Is Meditator?, NCOA Address Change, NCOA Comment), groups contacts whose street,
city, state and zip match exactly, and prints one report row per group
(compact) or per contact (expanded) with the group's ids and names rolled up.

Examples:
  # Expanded report to stdout
  contacts-dedupe contacts.csv

  # One row per household, written to a spreadsheet
  contacts-dedupe contacts.csv --mode compact --format xlsx --output households.xlsx`,
	Args: cobra.ExactArgs(1),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	RunE:         runDedupe,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
