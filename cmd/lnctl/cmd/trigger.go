package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func triggerCmd() *cobra.Command {
	var wait bool

	cmd := &cobra.Command{
		Use:   "trigger",
		Short: "Start a pass for every registration",
		Long: "Asks the server to fetch every registration's queries, record new listings\n" +
			"and notify recipients. Returns immediately unless --wait is given.",
		Example: `  lnctl trigger
  lnctl trigger --wait
  lnctl trigger --wait --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), viper.GetDuration("timeout"))
			defer cancel()

			resp, err := newClient().Trigger(ctx, wait)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(resp)
			}
			if !wait {
				fmt.Printf("Dispatched %d passes.\n", resp.Dispatched)
				return nil
			}
			return printPassResultsTable(resp.Results)
		},
	}

	cmd.Flags().BoolVar(&wait, "wait", false, "wait for every pass to finish and print the results")
	return cmd
}
