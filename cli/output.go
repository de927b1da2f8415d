package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	"github.com/gear6io/pqview/pkg/errors"
)

var ErrInvalidOutputFormat = errors.MustNewCode("cli.invalid_output_format")

const (
	outputTable = "table"
	outputJSON  = "json"
	outputCSV   = "csv"
)

func checkOutput(format string) error {
	switch format {
	case outputTable, outputJSON, outputCSV:
		return nil
	default:
		return errors.Newf(ErrInvalidOutputFormat, "output format must be table, json or csv, got %q", format)
	}
}

// render writes header and rows in format; v is what json output encodes
func render(w io.Writer, format string, header []string, rows [][]string, v interface{}) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(header); err != nil {
			return err
		}
		if err := cw.WriteAll(rows); err != nil {
			return err
		}
		return cw.Error()
	default:
		data := make(pterm.TableData, 0, len(rows)+1)
		data = append(data, header)
		data = append(data, rows...)
		return pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).WithWriter(w).Render()
	}
}

// humanSize formats n bytes with a binary unit
func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// cell shortens long values for table output
func cell(s string, limit int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if limit > 0 && len([]rune(s)) > limit {
		return string([]rune(s)[:limit-1]) + "…"
	}
	return s
}
