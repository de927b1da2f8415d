package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pageCmd = &cobra.Command{
	Use:   "page <id>",
	Short: "Show one page of rows",
	Long: `Show rows [page*page-size, (page+1)*page-size) of a file. Pages start at 0.

Examples:
  pqview page 3
  pqview page 3 --page 4 --page-size 100
  pqview page 3 --format csv > page.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runPage,
}

var pageOpts = struct {
	page     int
	pageSize int
	format   string
	maxWidth int
}{}

func init() {
	rootCmd.AddCommand(pageCmd)
	pageCmd.Flags().IntVar(&pageOpts.page, "page", 0, "page number, starting at 0")
	pageCmd.Flags().IntVar(&pageOpts.pageSize, "page-size", 0, "rows per page (default from config)")
	pageCmd.Flags().StringVar(&pageOpts.format, "format", outputTable, "output format: table, json, csv")
	pageCmd.Flags().IntVar(&pageOpts.maxWidth, "max-width", 40, "truncate table cells to this many characters; 0 disables")
}

func runPage(cmd *cobra.Command, args []string) error {
	if err := checkOutput(pageOpts.format); err != nil {
		return err
	}
	svc, err := newService(cmd)
	if err != nil {
		return err
	}

	pageSize := pageOpts.pageSize
	if !cmd.Flags().Changed("page-size") {
		pageSize = svc.DefaultPageSize()
	}

	window, err := svc.Page(cmd.Context(), args[0], pageOpts.page, pageSize)
	if err != nil {
		return err
	}

	header := make([]string, len(window.Columns))
	for i, c := range window.Columns {
		header[i] = c.Name
	}

	rows := make([][]string, len(window.Rows))
	for i, r := range window.Rows {
		row := make([]string, r.Len())
		for j, v := range r.Values() {
			switch {
			case pageOpts.format != outputTable:
				row[j] = v.Text()
			case v.IsNull():
				row[j] = "NULL"
			default:
				row[j] = cell(v.Text(), pageOpts.maxWidth)
			}
		}
		rows[i] = row
	}

	w := cmd.OutOrStdout()
	if err := render(w, pageOpts.format, header, rows, window); err != nil {
		return err
	}
	if pageOpts.format == outputTable {
		first := int64(window.Page) * int64(window.PageSize)
		fmt.Fprintf(w, "rows %d-%d of %d\n", first+min(1, int64(len(rows))), first+int64(len(rows)), window.TotalRows)
	}
	return nil
}
