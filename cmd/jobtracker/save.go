package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSaveCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "save <job-id>",
		Short: "Save a job, or unsave it if already saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer a.Close()

			saved, err := a.tracker.ToggleSaved(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			verb := "unsaved"
			if saved {
				verb = "saved"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, args[0])
			return nil
		},
	}
}
