package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"profmatch/internal/enrichment"
	"profmatch/internal/store"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show rating coverage",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session) error {
				report, err := s.orch.Stats(cmd.Context(), top)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, struct {
						Coverage coverageView    `json:"coverage"`
						TopRated []professorView `json:"top_rated"`
					}{newCoverageView(report.Coverage), professorViews(report.TopRated)})
				}
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderTable(out, []string{"Coverage", "Value"}, coverageRows(report.Coverage),
					[]columnAlignment{alignLeft, alignRight}))
				if len(report.TopRated) > 0 {
					fmt.Fprintln(out, professorTable(out, report.TopRated))
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&top, "top", 3, "Number of top rated professors to list")
	return cmd
}

func newAuditCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Report professors whose rating data violates integrity rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session) error {
				report, err := s.orch.Audit(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					return writeJSON(cmd, newIntegrityView(report))
				}
				printIntegrity(cmd, report)
				return nil
			})
		},
	}
}

func printIntegrity(cmd *cobra.Command, report enrichment.IntegrityReport) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderTable(out, []string{"Coverage", "Value"}, coverageRows(report.Coverage),
		[]columnAlignment{alignLeft, alignRight}))
	if report.Clean() {
		fmt.Fprintln(out, "Integrity check passed")
		return
	}
	sections := []struct {
		title string
		rows  []store.Professor
	}{
		{"Linked without score", report.LinkedWithoutScore},
		{"Score outside 0-5", report.ScoresOutOfRange},
		{"Would-take-again below -1", report.InvalidWouldTakeAgain},
	}
	for _, section := range sections {
		if len(section.rows) == 0 {
			continue
		}
		fmt.Fprintf(out, "%s (%d)\n", section.title, len(section.rows))
		fmt.Fprintln(out, professorTable(out, section.rows))
	}
}

func coverageRows(c store.Coverage) [][]string {
	return [][]string{
		{"Professors", strconv.Itoa(c.Total)},
		{"With profile link", strconv.Itoa(c.WithLink)},
		{"With valid score", strconv.Itoa(c.WithScore)},
		{"Zero scores", strconv.Itoa(c.ZeroScores)},
		{"Coverage", fmt.Sprintf("%.1f%%", c.Percent())},
	}
}

func professorTable(w io.Writer, ps []store.Professor) string {
	rows := make([][]string, 0, len(ps))
	for _, p := range ps {
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			formatOptional(p.Score),
			formatOptional(p.Difficulty),
			formatOptional(p.WouldTakeAgain),
			p.Link,
		})
	}
	return renderTable(w, []string{"ID", "Name", "Score", "Difficulty", "Would take again", "Link"}, rows,
		[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignRight, alignLeft})
}
