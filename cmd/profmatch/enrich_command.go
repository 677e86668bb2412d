package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"profmatch/internal/enrichment"
	"profmatch/internal/preflight"
)

func newEnrichCommand(ctx *commandContext) *cobra.Command {
	var fixOnly bool
	var rmpOnly bool
	var dryRun bool
	var verify bool

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Merge duplicate professors and fetch ratings",
		Long: `Run an enrichment batch.

By default duplicate professors are merged first (when enabled in config)
and every professor is then resolved against the rating provider.
--fix-duplicates only merges; --rmp-only skips merging.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session) error {
				opts := enrichment.Options{
					FixDuplicates:   s.cfg.Enrichment.FixDuplicates,
					VerifyIntegrity: verify || ctx.debug() || s.cfg.Enrichment.VerifyIntegrity,
				}
				switch {
				case fixOnly:
					opts.FixDuplicates = true
					opts.SkipResolution = true
				case rmpOnly:
					opts.FixDuplicates = false
				}

				if dryRun {
					return printDryRun(cmd, ctx, s, opts)
				}

				if failed := preflight.Failed(preflight.RunLocal(cmd.Context(), s.cfg, s.store)); len(failed) > 0 {
					return fmt.Errorf("preflight: %s: %s", failed[0].Name, failed[0].Detail)
				}

				lock := flock.New(s.cfg.LockPath())
				ok, err := lock.TryLock()
				if err != nil {
					return fmt.Errorf("acquire lock: %w", err)
				}
				if !ok {
					return errors.New("another profmatch enrichment run is using this database")
				}
				defer func() { _ = lock.Unlock() }()

				summary, runErr := s.orch.Run(cmd.Context(), opts)
				if ctx.jsonOutput() {
					if err := writeJSON(cmd, newSummaryView(summary)); err != nil {
						return err
					}
				} else {
					printSummary(cmd, summary)
				}
				return runErr
			})
		},
	}

	cmd.Flags().BoolVar(&fixOnly, "fix-duplicates", false, "Only merge duplicate professors")
	cmd.Flags().BoolVar(&rmpOnly, "rmp-only", false, "Only resolve ratings; skip duplicate merging")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would run without changing anything")
	cmd.Flags().BoolVar(&verify, "verify", false, "Run the integrity audit after the batch")
	cmd.MarkFlagsMutuallyExclusive("fix-duplicates", "rmp-only")
	return cmd
}

func printDryRun(cmd *cobra.Command, ctx *commandContext, s *session, opts enrichment.Options) error {
	phases := opts.Phases()
	var groups [][]string
	if opts.FixDuplicates {
		planned, err := s.orch.Merger().Plan(cmd.Context())
		if err != nil {
			return err
		}
		for _, g := range planned {
			var losers []string
			for _, m := range g.Members[1:] {
				losers = append(losers, fmt.Sprintf("%s (#%d)", m.Professor.Name, m.Professor.ID))
			}
			groups = append(groups, []string{
				g.Key,
				fmt.Sprintf("%s (#%d)", g.Members[0].Professor.Name, g.Members[0].Professor.ID),
				strconv.Itoa(g.Members[0].Distributions),
				strings.Join(losers, ", "),
				yesNo(g.Plan.Transfer != nil),
			})
		}
	}

	if ctx.jsonOutput() {
		type groupView struct {
			Key           string `json:"key"`
			Survivor      string `json:"survivor"`
			Distributions string `json:"distributions"`
			Merged        string `json:"merged"`
			Transfer      string `json:"ratings_moved"`
		}
		view := struct {
			Phases []enrichment.Phase `json:"phases"`
			Merges []groupView        `json:"merges"`
		}{Phases: phases}
		for _, g := range groups {
			view.Merges = append(view.Merges, groupView{g[0], g[1], g[2], g[3], g[4]})
		}
		return writeJSON(cmd, view)
	}

	out := cmd.OutOrStdout()
	names := make([]string, 0, len(phases))
	for _, p := range phases {
		names = append(names, string(p))
	}
	fmt.Fprintf(out, "Dry run; phases: %s\n", strings.Join(names, " -> "))
	if opts.FixDuplicates {
		if len(groups) == 0 {
			fmt.Fprintln(out, "No duplicate professors found")
		} else {
			fmt.Fprintln(out, renderTable(out,
				[]string{"Canonical name", "Survivor", "Distributions", "Merged", "Ratings moved"},
				groups,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft}))
		}
	}
	return nil
}

func printSummary(cmd *cobra.Command, summary enrichment.Summary) {
	out := cmd.OutOrStdout()
	rows := [][]string{
		{"Run", summary.RunID},
		{"Duplicate groups merged", strconv.Itoa(summary.Merged)},
		{"Professors", strconv.Itoa(summary.Total)},
	}
	for _, outcome := range summary.OutcomeKeys() {
		rows = append(rows, []string{"  " + string(outcome), strconv.Itoa(summary.Outcomes[outcome])})
	}
	rows = append(rows, []string{"Duration", summary.Duration.Round(time.Millisecond).String()})
	fmt.Fprintln(out, renderTable(out, []string{"Enrichment", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
	if summary.Integrity != nil {
		printIntegrity(cmd, *summary.Integrity)
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
