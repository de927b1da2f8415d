package export

import (
	"encoding/csv"
	"io"

	"github.com/gear6io/pqview/server/table"
	"github.com/gear6io/pqview/server/types"
)

func (p *Pipeline) writeCSV(rs table.RecordStream, names []string, w io.Writer) (*Result, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(names); err != nil {
		return nil, writeFailure("cannot write csv header", err)
	}

	res := &Result{}
	var scalars []types.Scalar
	record := make([]string, len(names))
	for rs.Next() {
		scalars = table.Scalars(scalars, rs.Record())
		record = record[:0]
		for _, s := range scalars {
			record = append(record, s.Text())
		}
		if err := cw.Write(record); err != nil {
			return nil, writeFailure("cannot write csv row", err)
		}

		res.Rows++
		if res.Rows%int64(p.opts.FlushRows) == 0 {
			cw.Flush()
			if err := cw.Error(); err != nil {
				return nil, writeFailure("cannot flush csv rows", err)
			}
		}
	}

	// rows read before a scan failure still reach the writer
	cw.Flush()
	if err := scanErr(rs); err != nil {
		return nil, err
	}
	if err := cw.Error(); err != nil {
		return nil, writeFailure("cannot flush csv rows", err)
	}
	return res, nil
}
