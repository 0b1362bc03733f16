package export

import (
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"

	"github.com/rosterlab/scout-cli/internal/model"
)

// WriteCSV writes scored results to w in rank order with a header row.
func WriteCSV(w io.Writer, results []model.CompositeResult) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header()); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, r := range results {
		if err := cw.Write(record(r)); err != nil {
			return eris.Wrapf(err, "export: write csv row for %s", r.PlayerID)
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}
