package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newStatusCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Track application status",
	}
	cmd.AddCommand(newStatusSetCmd(root), newStatusLogCmd(root))
	return cmd
}

func newStatusSetCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "set <job-id> <status>",
		Short:   "Set a job's status",
		Example: `  jobtracker status set job-007 Applied
  jobtracker status set job-007 "Not Applied"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer a.Close()

			st, err := a.tracker.SetStatus(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", args[0], st)
			return nil
		},
	}
}

func newStatusLogCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "log",
		Short: "Show recent status changes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer a.Close()

			entries, err := a.tracker.StatusLog(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tJOB\tTITLE\tCOMPANY\tSTATUS")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					e.Date.Local().Format("2006-01-02 15:04"), e.JobID, e.JobTitle, e.Company, e.Status)
			}
			return tw.Flush()
		},
	}
}
