package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/praxisdata/clinic-enrich/internal/config"
	"github.com/praxisdata/clinic-enrich/internal/crawl"
	"github.com/praxisdata/clinic-enrich/internal/fetcher"
	"github.com/praxisdata/clinic-enrich/internal/model"
	"github.com/praxisdata/clinic-enrich/internal/resilience"
	"github.com/praxisdata/clinic-enrich/internal/sheet"
	"github.com/praxisdata/clinic-enrich/internal/store"
)

// stubExtractor returns canned candidates keyed by practice name.
type stubExtractor struct {
	candidates map[string]model.CandidateRecord
	calls      int
}

func (s *stubExtractor) Extract(_ context.Context, practice, _ string) (model.CandidateRecord, error) {
	s.calls++
	if cand, ok := s.candidates[practice]; ok {
		return cand, nil
	}
	return model.CandidateRecord{Practice: practice, Err: "no useful content"}, nil
}

func clinicServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<html><body>
			<h1>Wisemind Psychology</h1>
			<p>Contact admin@wisemind.com.au.</p>
			<a href="/our-team">Our Team</a>
		</body></html>`)
	})
	mux.HandleFunc("/our-team", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><h2>Our Psychologists</h2><ul><li>Jane Smith</li></ul></body></html>`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// writeInput builds a workbook with the first data row highlighted.
func writeInput(t *testing.T, path, website string) {
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

	row := ws.AddRow()
	for i, v := range []string{"Wisemind Psychology", "Unit 2/40 Minchinton St, Caloundra QLD 4551", website, "0754915522"} {
		cell := row.AddCell()
		cell.SetString(v)
		if i == 0 {
			cell.SetStyle(green)
		}
	}

	unselected := ws.AddRow()
	for _, v := range []string{"Untouched Clinic", "", "", ""} {
		unselected.AddCell().SetString(v)
	}

	require.NoError(t, file.Save(path))
}

func testPipeline(t *testing.T, dir string, extractor *stubExtractor) *Pipeline {
	t.Helper()
	cfg := &config.Config{
		Crawl: config.CrawlConfig{Workers: 2, BatchSize: 10},
		Output: config.OutputConfig{
			ArtifactDir: filepath.Join(dir, "scraped_data"),
			SummaryPath: filepath.Join(dir, "run_summary.yaml"),
		},
	}

	fc := fetcher.New(fetcher.WithRetry(resilience.RetryConfig{MaxAttempts: 1}))
	crawler := crawl.New(fc, crawl.WithPageDelay(func() time.Duration { return 0 }))

	st, err := store.NewSQLite(filepath.Join(dir, "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	return New(cfg, crawler, extractor, st)
}

func TestRunEndToEnd(t *testing.T) {
	srv := clinicServer(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "clinics.xlsx")
	writeInput(t, input, srv.URL)

	extractor := &stubExtractor{candidates: map[string]model.CandidateRecord{
		"Wisemind Psychology": {
			Practice:      "Wisemind Psychology",
			Email:         "admin@wisemind.com.au",
			DoctorPageURL: srv.URL + "/our-team",
			Staff: []model.StaffMember{
				{Name: "Jane Smith", Type: "C"},
				{Name: "Alan Wu", Type: "G"},
			},
			Pricing: model.PricingInfo{InitialConsult: "$220", FollowupConsult: "$180"},
		},
	}}
	p := testPipeline(t, dir, extractor)

	summary, err := p.Run(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Records)
	assert.Equal(t, 1, summary.Selected)
	assert.Equal(t, 1, summary.Crawled)
	assert.Equal(t, 0, summary.CrawlFailed)
	assert.Equal(t, 1, summary.Extracted)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 1, summary.Expanded)
	assert.Equal(t, 1, extractor.calls)

	// Processed workbook: original rows plus one expansion row.
	table, err := sheet.Read(summary.OutputPath)
	require.NoError(t, err)
	require.Len(t, table.Records, 3)

	first := table.Records[0]
	assert.Equal(t, "40 Minchinton St, Caloundra QLD 4551", first.Address)
	assert.Equal(t, "(07) 5491 5522", first.Phone)
	assert.Equal(t, "Jane Smith", first.StaffName)
	assert.Equal(t, "C", first.StaffType)
	assert.Equal(t, "220", first.InitialConsult)

	expansion := table.Records[2]
	assert.Equal(t, "Wisemind Psychology", expansion.Practice)
	assert.Equal(t, "Alan Wu", expansion.StaffName)
	assert.Equal(t, "G", expansion.StaffType)
	assert.Equal(t, first.InitialConsult, expansion.InitialConsult)

	assert.Empty(t, table.Records[1].Notes) // unselected row untouched

	// Crawl artifact written with the row index suffix.
	artifact := filepath.Join(dir, "scraped_data", "Wisemind_Psychology_0.txt")
	content, err := os.ReadFile(artifact)
	require.NoError(t, err)
	assert.Contains(t, string(content), "--- MAIN PAGE CONTENT ---")

	// Summary YAML round-trips.
	data, err := os.ReadFile(filepath.Join(dir, "run_summary.yaml"))
	require.NoError(t, err)
	var fromDisk model.RunSummary
	require.NoError(t, yaml.Unmarshal(data, &fromDisk))
	assert.Equal(t, *summary, fromDisk)
}

func TestRunCrawlFailureBecomesNote(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	dir := t.TempDir()
	input := filepath.Join(dir, "clinics.xlsx")
	writeInput(t, input, srv.URL)

	extractor := &stubExtractor{}
	p := testPipeline(t, dir, extractor)

	summary, err := p.Run(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.CrawlFailed)
	assert.Equal(t, 0, summary.Crawled)
	assert.Equal(t, 0, extractor.calls) // nothing to extract

	table, err := sheet.Read(summary.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, table.Records[0].Notes, "Extraction error: failed to fetch")
}

func TestRunMissingInput(t *testing.T) {
	dir := t.TempDir()
	p := testPipeline(t, dir, &stubExtractor{})

	_, err := p.Run(context.Background(), filepath.Join(dir, "nope.xlsx"))
	require.Error(t, err)

	runs, listErr := p.store.ListRuns(context.Background(), 1)
	require.NoError(t, listErr)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunStatusFailed, runs[0].Status)
}
