package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"jobtracker-engine/internal/tracker"
)

type digestOptions struct {
	date    string
	force   bool
	text    bool
	emailTo string
	email   bool
}

func newDigestCmd(root *rootOptions) *cobra.Command {
	o := &digestOptions{}
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Generate or show the daily top-matches digest",
		Long:  "digest builds today's digest from your preferences, or returns the one already generated today. Use --force to rebuild it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			date := o.date
			if date == "" {
				date = a.tracker.Today()
			}

			d, _, err := a.tracker.GenerateDigest(ctx, date, o.force)
			if errors.Is(err, tracker.ErrNoPreferences) {
				return fmt.Errorf("%w: run `jobtracker prefs set` first", err)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case o.email:
				link, err := a.tracker.EmailDraft(ctx, date, o.emailTo)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, link)
			case o.text:
				text, err := a.tracker.DigestText(ctx, date)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, text)
			default:
				return printJSON(out, d)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.date, "date", "", "Digest day YYYY-MM-DD (default today)")
	f.BoolVar(&o.force, "force", false, "Rebuild even if a digest exists for the day")
	f.BoolVar(&o.text, "text", false, "Print the plain-text digest")
	f.BoolVar(&o.email, "email", false, "Print a mailto: draft link")
	f.StringVar(&o.emailTo, "to", "", "Recipient for --email")
	return cmd
}
