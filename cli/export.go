package cli

import (
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a whole file to CSV or Excel",
	Long: `Stream every row of a file into a CSV or Excel workbook.

The output defaults to the suggested file name in the current directory.
Use --output - to write to standard output.

Examples:
  pqview export 3
  pqview export 3 --format excel --output report.xlsx
  pqview export 3 --output - | head`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var exportOpts = struct {
	format string
	output string
}{}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOpts.format, "format", "f", "csv", "export format: csv or excel")
	exportCmd.Flags().StringVarP(&exportOpts.output, "output", "o", "", "output path, - for stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	job, err := svc.PrepareExport(ctx, args[0], exportOpts.format)
	if err != nil {
		return err
	}
	defer job.Close()

	// a spreadsheet that cannot be read in full never creates the output file
	if err := job.Build(ctx); err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	path := exportOpts.output
	if path == "" {
		path = job.FileName
	}
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	res, err := job.Run(ctx, w)
	if err != nil {
		if path != "-" {
			os.Remove(path)
		}
		return err
	}

	if path != "-" {
		pterm.Fprintln(cmd.ErrOrStderr(), pterm.Success.Sprintf("Exported %d rows to %s", res.Rows, path))
	}
	return nil
}
