package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"profmatch/internal/resultcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clear the search result cache",
	}
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheListCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache entry counts per tier",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session) error {
				stats := s.cache.Stats()
				if ctx.jsonOutput() {
					return writeJSON(cmd, struct {
						Path     string `json:"path"`
						Status   string `json:"status"`
						Manual   int    `json:"manual"`
						Positive int    `json:"positive"`
						Negative int    `json:"negative"`
					}{s.cache.Path(), s.cache.LoadStatus().String(), stats.Manual, stats.Positive, stats.Negative})
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Cache: %s (%s)\n", s.cache.Path(), s.cache.LoadStatus())
				rows := [][]string{
					{string(resultcache.TierManual), strconv.Itoa(stats.Manual)},
					{string(resultcache.TierPositive), strconv.Itoa(stats.Positive)},
					{string(resultcache.TierNegative), strconv.Itoa(stats.Negative)},
					{"total", strconv.Itoa(stats.Total())},
				}
				fmt.Fprintln(out, renderTable(out, []string{"Tier", "Entries"}, rows, []columnAlignment{alignLeft, alignRight}))
				return nil
			})
		},
	}
}

func newCacheListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list <tier>",
		Short: "List cache entries in a tier (manual, positive, negative)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tier, err := resultcache.ParseTier(args[0])
			if err != nil {
				return err
			}
			return ctx.withSession(cmd, func(s *session) error {
				entries := s.cache.Entries(tier)
				if ctx.jsonOutput() {
					return writeJSON(cmd, cacheEntryViews(entries))
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintf(out, "No %s entries\n", tier)
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{
						e.Key,
						e.CachedAt.Local().Format(time.DateTime),
						strconv.Itoa(len(e.Candidates)),
						e.Source,
					})
				}
				fmt.Fprintln(out, renderTable(out, []string{"Name", "Cached", "Candidates", "Source"}, rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft}))
				return nil
			})
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear [tier...]",
		Short: "Remove cache entries from the given tiers, or all tiers",
		RunE: func(cmd *cobra.Command, args []string) error {
			tiers := make([]resultcache.Tier, 0, len(args))
			for _, arg := range args {
				tier, err := resultcache.ParseTier(arg)
				if err != nil {
					return err
				}
				tiers = append(tiers, tier)
			}
			return ctx.withSession(cmd, func(s *session) error {
				removed, err := s.cache.Clear(tiers...)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cache entries\n", removed)
				return nil
			})
		},
	}
}
