package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"profmatch/internal/enrichment"
	"profmatch/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify directories, database and rating provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session) error {
				var results []preflight.Result
				if offline {
					results = preflight.RunLocal(cmd.Context(), s.cfg, s.store)
				} else {
					client, err := enrichment.NewProviderClient(s.cfg)
					if err != nil {
						return err
					}
					results = preflight.RunAll(cmd.Context(), s.cfg, s.store, client)
				}

				if ctx.jsonOutput() {
					views := make([]checkView, 0, len(results))
					for _, r := range results {
						views = append(views, checkView{Name: r.Name, Passed: r.Passed, Detail: r.Detail})
					}
					if err := writeJSON(cmd, views); err != nil {
						return err
					}
				} else {
					rows := make([][]string, 0, len(results))
					for _, r := range results {
						status := "ok"
						if !r.Passed {
							status = "FAIL"
						}
						rows = append(rows, []string{r.Name, status, r.Detail})
					}
					out := cmd.OutOrStdout()
					fmt.Fprintln(out, renderTable(out, []string{"Check", "Status", "Detail"}, rows,
						[]columnAlignment{alignLeft, alignLeft, alignLeft}))
				}

				if failed := preflight.Failed(results); len(failed) > 0 {
					return errors.New("one or more checks failed")
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "Skip the rating provider check")
	return cmd
}

type checkView struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}
