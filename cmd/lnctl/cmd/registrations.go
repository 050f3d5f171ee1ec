package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func registrationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "registrations",
		Aliases: []string{"regs"},
		Short:   "List configured registrations",
		Example: `  lnctl registrations
  lnctl regs --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			regs, err := newClient().ListRegistrations(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(regs)
			}
			if len(regs) == 0 {
				fmt.Println("No registrations configured.")
				return nil
			}
			return printRegistrationsTable(regs)
		},
	}
}
