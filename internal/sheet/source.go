// Package sheet reads and writes the practice workbooks: the input table
// with its highlight-based row selection, and the processed output workbook.
package sheet

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/praxisdata/clinic-enrich/internal/model"
)

// greenFills are the fill colors that mark a row as selected for processing.
var greenFills = []string{"FFA9D08E", "FFA8D08D"}

// Table is the parsed input workbook: all data rows in order, plus the
// zero-based indexes of the highlighted rows.
type Table struct {
	Records  []model.BusinessRecord
	Selected map[int]bool
}

// Read parses the first sheet of an XLSX workbook. Row 1 is the header; data
// rows get zero-based Row indexes. A row counts as selected when any of its
// first four cells carries one of the green highlight fills.
func Read(path string) (*Table, error) {
	file, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "sheet: open %s", path)
	}
	if len(file.Sheets) == 0 {
		return nil, eris.New("sheet: workbook has no sheets")
	}
	ws := file.Sheets[0]
	if len(ws.Rows) < 1 {
		return nil, eris.New("sheet: missing header row")
	}

	colIdx := make(map[string]int)
	for i, cell := range ws.Rows[0].Cells {
		name := strings.TrimSpace(cell.String())
		if name != "" {
			colIdx[name] = i
		}
	}
	if _, ok := colIdx[model.ColPractice]; !ok {
		return nil, eris.New("sheet: missing Practice column")
	}

	table := &Table{Selected: make(map[int]bool)}
	for r := 1; r < len(ws.Rows); r++ {
		row := ws.Rows[r]
		get := func(col string) string {
			i, ok := colIdx[col]
			if !ok || i >= len(row.Cells) {
				return ""
			}
			return strings.TrimSpace(row.Cells[i].String())
		}

		rec := model.BusinessRecord{
			Row:             r - 1,
			Practice:        get(model.ColPractice),
			Address:         get(model.ColAddress),
			Website:         get(model.ColWebsite),
			Phone:           get(model.ColPhone),
			StaffName:       get(model.ColName),
			Email:           get(model.ColEmail),
			DoctorsURL:      get(model.ColDoctors),
			StaffType:       get(model.ColType),
			InitialConsult:  get(model.ColInitialConsult),
			FollowupConsult: get(model.ColFollowupConsult),
			Date:            get(model.ColDate),
			Notes:           get(model.ColNotes),
		}
		table.Records = append(table.Records, rec)

		if rowHighlighted(row) {
			table.Selected[rec.Row] = true
		}
	}

	zap.L().Info("sheet: loaded workbook",
		zap.String("path", path),
		zap.Int("rows", len(table.Records)),
		zap.Int("selected", len(table.Selected)),
	)
	return table, nil
}

// rowHighlighted checks the first four cells for a green selection fill.
func rowHighlighted(row *xlsx.Row) bool {
	for i, cell := range row.Cells {
		if i >= 4 {
			break
		}
		style := cell.GetStyle()
		if style == nil {
			continue
		}
		for _, fill := range greenFills {
			if strings.EqualFold(style.Fill.FgColor, fill) {
				return true
			}
		}
	}
	return false
}
