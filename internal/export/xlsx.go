package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/rosterlab/scout-cli/internal/model"
)

// WriteXLSX writes scored results to an XLSX workbook at path, one sheet per
// position present in the input, rows in rank order within each sheet.
func WriteXLSX(path string, results []model.CompositeResult) error {
	f := xlsx.NewFile()

	byPosition := make(map[model.Position][]model.CompositeResult)
	for _, r := range results {
		byPosition[r.Position] = append(byPosition[r.Position], r)
	}

	for _, pos := range model.Positions {
		group, ok := byPosition[pos]
		if !ok {
			continue
		}
		sheet, err := f.AddSheet(string(pos))
		if err != nil {
			return eris.Wrapf(err, "export: add sheet %s", pos)
		}

		hdr := sheet.AddRow()
		for _, col := range header() {
			hdr.AddCell().SetString(col)
		}
		for _, r := range group {
			row := sheet.AddRow()
			for _, cell := range record(r) {
				row.AddCell().SetString(cell)
			}
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}
