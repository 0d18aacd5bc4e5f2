package sheet

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/praxisdata/clinic-enrich/internal/model"
)

// writeInputWorkbook builds a small input workbook with one highlighted row.
func writeInputWorkbook(t *testing.T, path string) {
	t.Helper()
	file := xlsx.NewFile()
	ws, err := file.AddSheet("Sheet1")
	require.NoError(t, err)

	header := ws.AddRow()
	for _, col := range []string{model.ColPractice, model.ColAddress, model.ColWebsite, model.ColPhone} {
		header.AddCell().SetString(col)
	}

	green := xlsx.NewStyle()
	green.Fill = *xlsx.NewFill("solid", "FFA9D08E", "FFA9D08E")
	green.ApplyFill = true

	row1 := ws.AddRow()
	for i, v := range []string{"Wisemind Psychology", "40 Minchinton St, Caloundra QLD 4551", "wisemind.com.au", "0754915522"} {
		cell := row1.AddCell()
		cell.SetString(v)
		if i == 0 {
			cell.SetStyle(green)
		}
	}

	row2 := ws.AddRow()
	for _, v := range []string{"Plain Clinic", "", "plain.com.au", ""} {
		row2.AddCell().SetString(v)
	}

	require.NoError(t, file.Save(path))
}

func TestRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clinics.xlsx")
	writeInputWorkbook(t, path)

	table, err := Read(path)
	require.NoError(t, err)

	require.Len(t, table.Records, 2)
	first := table.Records[0]
	assert.Equal(t, 0, first.Row)
	assert.Equal(t, "Wisemind Psychology", first.Practice)
	assert.Equal(t, "40 Minchinton St, Caloundra QLD 4551", first.Address)
	assert.Equal(t, "wisemind.com.au", first.Website)
	assert.Equal(t, "0754915522", first.Phone)

	assert.Equal(t, map[int]bool{0: true}, table.Selected)
	assert.Equal(t, "Plain Clinic", table.Records[1].Practice)
}

func TestReadMissingPracticeColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.xlsx")
	file := xlsx.NewFile()
	ws, err := file.AddSheet("Sheet1")
	require.NoError(t, err)
	ws.AddRow().AddCell().SetString("Unrelated")
	require.NoError(t, file.Save(path))

	_, err = Read(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing Practice column")
}

func TestWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.xlsx")

	records := []model.BusinessRecord{
		{
			Practice: "Wisemind Psychology", Address: "40 Minchinton St, Caloundra QLD 4551",
			Website: "https://wisemind.com.au", Phone: "(07) 5491 5522",
			StaffName: "Jane Smith", Email: "admin@wisemind.com.au",
			DoctorsURL: "https://wisemind.com.au/our-team", StaffType: "C",
			InitialConsult: "220", FollowupConsult: "180",
			Date: "2026-08-30", Notes: "",
		},
		{Practice: "Empty Clinic", Notes: "No psychologists found"},
	}
	require.NoError(t, Write(path, records))

	table, err := Read(path)
	require.NoError(t, err)
	require.Len(t, table.Records, 2)

	got := table.Records[0]
	got.Row = 0
	assert.Equal(t, records[0], got)
	assert.Equal(t, "No psychologists found", table.Records[1].Notes)
	assert.Empty(t, table.Selected)
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "clinics_processed.xlsx", OutputPath("clinics.xlsx"))
	assert.Equal(t, "dir/data_processed.xlsx", OutputPath("dir/data.xlsx"))
}
