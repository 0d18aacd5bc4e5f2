package sheet

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/praxisdata/clinic-enrich/internal/model"
)

// OutputPath derives the processed workbook path from the input path:
// "clinics.xlsx" becomes "clinics_processed.xlsx".
func OutputPath(inputPath string) string {
	return strings.TrimSuffix(inputPath, ".xlsx") + "_processed.xlsx"
}

// Write saves records to a new workbook at path, one row per record in slice
// order, with the guaranteed column set in canonical order.
func Write(path string, records []model.BusinessRecord) error {
	file := xlsx.NewFile()
	ws, err := file.AddSheet("Practices")
	if err != nil {
		return eris.Wrap(err, "sheet: add sheet")
	}

	header := ws.AddRow()
	for _, col := range model.RequiredColumns() {
		header.AddCell().SetString(col)
	}

	for _, rec := range records {
		row := ws.AddRow()
		for _, v := range []string{
			rec.Practice,
			rec.Address,
			rec.Website,
			rec.Phone,
			rec.StaffName,
			rec.Email,
			rec.DoctorsURL,
			rec.StaffType,
			rec.InitialConsult,
			rec.FollowupConsult,
			rec.Date,
			rec.Notes,
		} {
			row.AddCell().SetString(v)
		}
	}

	if err := file.Save(path); err != nil {
		return eris.Wrapf(err, "sheet: save %s", path)
	}

	zap.L().Info("sheet: wrote workbook",
		zap.String("path", path),
		zap.Int("rows", len(records)),
	)
	return nil
}
