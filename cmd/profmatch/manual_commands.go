package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"profmatch/internal/enrichment"
)

func newManualCommand(ctx *commandContext) *cobra.Command {
	manualCmd := &cobra.Command{
		Use:   "manual",
		Short: "Manage manual professor-to-profile mappings",
	}
	manualCmd.AddCommand(newManualAddCommand(ctx))
	manualCmd.AddCommand(newManualImportCommand(ctx))
	manualCmd.AddCommand(newManualExportCommand(ctx))
	return manualCmd
}

func newManualAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <professor-name> <rmp-id>",
		Short: "Map one professor to a provider profile id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session) error {
				if err := s.orch.AddManualLink(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Mapped %s to profile %s\n", args[0], args[1])
				return nil
			})
		},
	}
}

func newManualImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Import manual mappings from a CSV file",
		Long: fmt.Sprintf(`Import manual mappings from a CSV file with the columns
professor_name,rmp_id and an optional notes column. Defaults to %s.`, enrichment.DefaultImportFile),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := enrichment.DefaultImportFile
			if len(args) == 1 {
				path = args[0]
			}
			return ctx.withSession(cmd, func(s *session) error {
				result, err := s.orch.ImportManual(cmd.Context(), path)
				if err != nil {
					return err
				}
				if ctx.jsonOutput() {
					type failureView struct {
						Line  int    `json:"line"`
						Name  string `json:"professor_name"`
						Error string `json:"error"`
					}
					view := struct {
						Added    int           `json:"added"`
						Skipped  int           `json:"skipped"`
						Failures []failureView `json:"failures"`
					}{Added: result.Added, Skipped: result.Skipped}
					for _, f := range result.Failures {
						view.Failures = append(view.Failures, failureView{f.Line, f.Name, f.Err.Error()})
					}
					return writeJSON(cmd, view)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Imported %d mapping(s) from %s\n", result.Added, path)
				for _, f := range result.Failures {
					fmt.Fprintf(out, "  line %d (%s): %v\n", f.Line, f.Name, f.Err)
				}
				return nil
			})
		},
	}
}

func newManualExportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Export professors without a profile link for manual research",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session) error {
				n, err := s.orch.ExportUnmatched(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d professor(s) to %s\n", n, args[0])
				return nil
			})
		},
	}
}

func newRenameCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <old-name> <new-name>",
		Short: "Rename a professor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(s *session) error {
				prof, err := s.orch.RenameProfessor(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed professor #%d to %s\n", prof.ID, prof.Name)
				return nil
			})
		},
	}
}
