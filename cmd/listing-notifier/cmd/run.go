package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/listing-notifier/internal/engine"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one pass for every registration and exit",
	Long: "Runs the same passes the scheduler runs, waits for all of them, and prints " +
		"one line per registration. Exits non-zero if any pass failed.",
	RunE: runOnce,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runOnce(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.Migrate(ctx); err != nil {
		return fmt.Errorf("migrating %s store: %w", a.cfg.Store.Driver, err)
	}

	results, err := a.engine.RunAll(ctx, engine.TriggerCLI)
	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\tfailed\t%s\n", r.Registration, r.Error)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d new\n", r.Registration, r.Unseen)
	}
	if err != nil {
		return fmt.Errorf("passes failed: %w", err)
	}
	return nil
}
