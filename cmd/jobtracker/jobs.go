package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"jobtracker-engine/internal/domain"
	"jobtracker-engine/internal/rank"
	"jobtracker-engine/internal/tracker"
)

type jobsOptions struct {
	keyword, location, mode, experience, source, status, sort string
	explain                                                   string

	onlyMatches bool
	saved       bool
	asJSON      bool
}

func newJobsCmd(root *rootOptions) *cobra.Command {
	o := &jobsOptions{}
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List jobs ranked against your preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer a.Close()

			if o.explain != "" {
				d, err := a.tracker.Job(cmd.Context(), o.explain)
				if err != nil {
					return err
				}
				if o.asJSON {
					return printJSON(cmd.OutOrStdout(), d)
				}
				return printDetail(cmd.OutOrStdout(), d)
			}

			var listings []tracker.Listing
			if o.saved {
				listings, err = a.tracker.Saved(cmd.Context())
			} else {
				var v rank.View
				if v, err = o.view(); err != nil {
					return err
				}
				listings, err = a.tracker.Dashboard(cmd.Context(), v)
			}
			if err != nil {
				return err
			}
			if o.asJSON {
				return printJSON(cmd.OutOrStdout(), listings)
			}
			return printListings(cmd.OutOrStdout(), listings)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.keyword, "keyword", "k", "", "Match title or company (case-insensitive)")
	f.StringVar(&o.location, "location", "", "Exact location")
	f.StringVar(&o.mode, "mode", "", "Remote, Hybrid or Onsite")
	f.StringVar(&o.experience, "experience", "", "Fresher, 0-1, 1-3 or 3-5")
	f.StringVar(&o.source, "source", "", "LinkedIn, Naukri or Indeed")
	f.StringVar(&o.status, "status", "", "Not Applied, Applied, Rejected or Selected")
	f.StringVarP(&o.sort, "sort", "s", "latest", "latest, score or salary")
	f.BoolVar(&o.onlyMatches, "only-matches", false, "Hide jobs below your minimum match score")
	f.BoolVar(&o.saved, "saved", false, "List saved jobs instead (filters ignored)")
	f.StringVar(&o.explain, "explain", "", "Show one job with the criteria behind its score")
	f.BoolVar(&o.asJSON, "json", false, "Print JSON")
	return cmd
}

func (o *jobsOptions) view() (rank.View, error) {
	v := rank.View{
		Keyword:     o.keyword,
		Location:    o.location,
		Mode:        o.mode,
		Experience:  o.experience,
		Source:      o.source,
		OnlyMatches: o.onlyMatches,
	}
	if o.status != "" {
		st, err := domain.ParseStatus(o.status)
		if err != nil {
			return v, err
		}
		v.Status = st
	}
	sort, err := rank.ParseSort(o.sort)
	if err != nil {
		return v, err
	}
	v.Sort = sort
	return v, nil
}

func printListings(w io.Writer, ls []tracker.Listing) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSCORE\tTITLE\tCOMPANY\tLOCATION\tMODE\tPOSTED\tSTATUS\tSAVED")
	for _, l := range ls {
		score := "-"
		if l.MatchScore != nil {
			score = strconv.Itoa(*l.MatchScore)
		}
		saved := ""
		if l.Saved {
			saved = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%dd\t%s\t%s\n",
			l.Job.ID, score, l.Job.Title, l.Job.Company, l.Job.Location, l.Job.Mode,
			l.Job.PostedDaysAgo, l.Status, saved)
	}
	if len(ls) == 0 {
		fmt.Fprintln(tw, "(no jobs match)")
	}
	return tw.Flush()
}

func printDetail(w io.Writer, d tracker.Detail) error {
	j := d.Job
	fmt.Fprintf(w, "%s  %s at %s\n", j.ID, j.Title, j.Company)
	fmt.Fprintf(w, "%s | %s | %s | %s | posted %dd ago\n", j.Location, j.Mode, j.Experience, j.Source, j.PostedDaysAgo)
	fmt.Fprintf(w, "Status: %s  Saved: %t\n", d.Status, d.Saved)
	if d.MatchScore == nil {
		fmt.Fprintln(w, "Match Score: - (no preferences saved)")
		return nil
	}
	fmt.Fprintf(w, "Match Score: %d%% (%s)\n", *d.MatchScore, d.Category)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range d.Reasons {
		fmt.Fprintf(tw, "  +%d\t%s\n", r.Points, r.Criterion)
	}
	return tw.Flush()
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
