package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/horario-planner/internal/dto"
)

func newImportCmd(app *cliApp) *cobra.Command {
	var (
		dir      string
		semester string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the catalog with the scraper files in a directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = app.cfg.Import.DataDir
			}
			importer, err := app.importer(dir)
			if err != nil {
				return err
			}
			run, err := importer.ImportNow(cmd.Context(), dto.ImportRequest{Semester: semester}, "cli")
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Import %s %s\n", run.ID, run.Status)
			fmt.Fprintf(out, "  Semester:   %s\n", run.Semester)
			fmt.Fprintf(out, "  Files:      %d\n", run.Files)
			fmt.Fprintf(out, "  Faculties:  %d\n", run.Faculties)
			fmt.Fprintf(out, "  Schools:    %d\n", run.Schools)
			fmt.Fprintf(out, "  Courses:    %d\n", run.Courses)
			fmt.Fprintf(out, "  Blocks:     %d (skipped %d)\n", run.Blocks, run.SkippedBlocks)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "directory holding scraper JSON files (defaults to IMPORT_DATA_DIR)")
	cmd.Flags().StringVar(&semester, "semester", "", "semester label for files that do not carry one")

	return cmd
}
