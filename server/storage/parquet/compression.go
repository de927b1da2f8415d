package parquet

import (
	"github.com/apache/arrow-go/v18/parquet/compress"
)

// CodecName renders a codec the way the footer names it, e.g. SNAPPY
func CodecName(c compress.Compression) string {
	return c.String()
}
