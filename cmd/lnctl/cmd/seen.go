package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func seenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seen",
		Short: "Show the seen-set",
		Example: `  lnctl seen
  lnctl seen --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			resp, err := newClient().Seen(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(resp)
			}
			fmt.Printf("%d listings seen.\n", resp.Count)
			for _, id := range resp.IDs {
				fmt.Println(id)
			}
			return nil
		},
	}
}

func resetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Forget every seen listing",
		Long: "Empties the seen-set. The next pass reports every listing in the feeds as\n" +
			"new and notifies recipients again.",
		Example: `  lnctl reset --yes`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to reset without --yes")
			}
			if err := newClient().Reset(context.Background()); err != nil {
				return err
			}
			fmt.Println("Seen-set reset.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}
