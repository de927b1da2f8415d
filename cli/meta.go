package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gear6io/pqview/server/types"
)

var metaCmd = &cobra.Command{
	Use:   "meta <id>",
	Short: "Show the schema and statistics of a file",
	Long: `Download a file and show its schema, row count and footer statistics.

Examples:
  pqview meta 3
  pqview meta 3 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runMeta,
}

var metaOpts = struct {
	format string
}{}

func init() {
	rootCmd.AddCommand(metaCmd)
	metaCmd.Flags().StringVar(&metaOpts.format, "format", outputTable, "output format: table, json, csv")
}

func runMeta(cmd *cobra.Command, args []string) error {
	if err := checkOutput(metaOpts.format); err != nil {
		return err
	}
	svc, err := newService(cmd)
	if err != nil {
		return err
	}

	md, err := svc.Metadata(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if metaOpts.format == outputTable {
		fmt.Fprintf(w, "File:        %s\n", md.Name)
		fmt.Fprintf(w, "Path:        %s\n", md.RemotePath)
		fmt.Fprintf(w, "Size:        %s\n", humanSize(md.SizeBytes))
		fmt.Fprintf(w, "Rows:        %d\n", md.RowCount)
		fmt.Fprintf(w, "Row groups:  %d (avg %s)\n", md.Statistics.RowGroupCount, humanSize(int64(md.Statistics.AverageRowGroupSize)))
		fmt.Fprintf(w, "Compression: %s\n", md.Compression)
		if md.CreatedBy != "" {
			fmt.Fprintf(w, "Created by:  %s\n", md.CreatedBy)
		}
		fmt.Fprintln(w)
	}

	rows := make([][]string, len(md.Columns))
	for i, c := range md.Columns {
		rows[i] = []string{c.Name, string(c.LogicalType), c.PhysicalType, strconv.FormatBool(c.Nullable), nullCount(c.Stats)}
	}
	return render(w, metaOpts.format, []string{"COLUMN", "TYPE", "PHYSICAL", "NULLABLE", "NULLS"}, rows, md)
}

func nullCount(s types.ColumnStats) string {
	if !s.NullCountKnown {
		return "-"
	}
	return strconv.FormatInt(s.NullCount, 10)
}
