package cli

import (
	"time"

	"github.com/spf13/cobra"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List the Parquet files under the configured prefix",
	Long: `List every object ending in .parquet under the configured bucket prefix.

The ID column is what the meta, page and export commands take. IDs follow
listing order and change when files are added or removed.

Examples:
  pqview files
  pqview files --format json`,
	Args: cobra.NoArgs,
	RunE: runFiles,
}

var filesOpts = struct {
	format string
}{}

func init() {
	rootCmd.AddCommand(filesCmd)
	filesCmd.Flags().StringVar(&filesOpts.format, "format", outputTable, "output format: table, json, csv")
}

func runFiles(cmd *cobra.Command, args []string) error {
	if err := checkOutput(filesOpts.format); err != nil {
		return err
	}
	svc, err := newService(cmd)
	if err != nil {
		return err
	}

	files, err := svc.ListFiles(cmd.Context())
	if err != nil {
		return err
	}

	rows := make([][]string, len(files))
	for i, f := range files {
		rows[i] = []string{f.ID, f.Name, humanSize(f.SizeBytes), f.LastModified.Format(time.RFC3339), f.RemotePath}
	}
	return render(cmd.OutOrStdout(), filesOpts.format, []string{"ID", "NAME", "SIZE", "MODIFIED", "PATH"}, rows, files)
}
