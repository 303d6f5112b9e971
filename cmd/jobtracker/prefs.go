package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jobtracker-engine/internal/domain"
)

func newPrefsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change your matching preferences",
	}
	cmd.AddCommand(newPrefsShowCmd(root), newPrefsSetCmd(root))
	return cmd
}

func newPrefsShowCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.tracker.Preferences(cmd.Context())
			if err != nil {
				return err
			}
			if p == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "no preferences saved; jobs are listed without match scores")
				return nil
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}
}

type prefsSetOptions struct {
	keywords   string
	skills     string
	locations  []string
	modes      []string
	experience string
	minScore   int
}

// newPrefsSetCmd only changes the fields whose flags were passed; the rest
// keep their saved values.
func newPrefsSetCmd(root *rootOptions) *cobra.Command {
	o := &prefsSetOptions{}
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			cur, err := a.tracker.Preferences(ctx)
			if err != nil {
				return err
			}
			p := domain.Preferences{MinMatchScore: domain.DefaultMinMatchScore}
			if cur != nil {
				p = *cur
			}

			f := cmd.Flags()
			if f.Changed("keywords") {
				p.RoleKeywords = o.keywords
			}
			if f.Changed("skills") {
				p.Skills = o.skills
			}
			if f.Changed("locations") {
				p.PreferredLocations = trimAll(o.locations)
			}
			if f.Changed("modes") {
				p.PreferredMode = trimAll(o.modes)
			}
			if f.Changed("experience") {
				p.ExperienceLevel = o.experience
			}
			if f.Changed("min-score") {
				p.MinMatchScore = o.minScore
			}

			if err := a.tracker.SavePreferences(ctx, p); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.keywords, "keywords", "", "Comma-separated role keywords")
	f.StringVar(&o.skills, "skills", "", "Comma-separated skills")
	f.StringSliceVar(&o.locations, "locations", nil, "Preferred locations")
	f.StringSliceVar(&o.modes, "modes", nil, "Preferred work modes")
	f.StringVar(&o.experience, "experience", "", "Experience level (empty to clear)")
	f.IntVar(&o.minScore, "min-score", domain.DefaultMinMatchScore, "Minimum match score 0-100")
	return cmd
}

func trimAll(xs []string) []string {
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		if x = strings.TrimSpace(x); x != "" {
			out = append(out, x)
		}
	}
	return out
}
