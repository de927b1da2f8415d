package export

import (
	"strings"

	"github.com/gear6io/pqview/pkg/errors"
)

// Format is an export target encoding
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat resolves a user supplied format name. Matching ignores case
// and surrounding space.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv", "delimited", "text":
		return FormatCSV, nil
	case "excel", "xlsx", "spreadsheet":
		return FormatXLSX, nil
	default:
		return "", errors.Newf(ErrUnsupportedFormat, "unsupported export format %q", s).AddContext("format", s)
	}
}

func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

func (f Format) Extension() string {
	switch f {
	case FormatXLSX:
		return ".xlsx"
	default:
		return ".csv"
	}
}

// FileName suggests a download name for an export of the file called base,
// replacing a trailing .parquet
func (f Format) FileName(base string) string {
	name := base
	if strings.HasSuffix(strings.ToLower(name), ".parquet") {
		name = name[:len(name)-len(".parquet")]
	}
	if name == "" {
		name = "export"
	}
	return name + f.Extension()
}
