package model

import "time"

// RunStatus is the lifecycle state of an enrichment run.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// RunSummary is the tallied outcome of a completed run.
type RunSummary struct {
	Records       int    `json:"records" yaml:"records"`
	Selected      int    `json:"selected" yaml:"selected"`
	Crawled       int    `json:"crawled" yaml:"crawled"`
	CrawlFailed   int    `json:"crawl_failed" yaml:"crawl_failed"`
	Extracted     int    `json:"extracted" yaml:"extracted"`
	Updated       int    `json:"updated" yaml:"updated"`
	Expanded      int    `json:"expanded" yaml:"expanded"`
	Discrepancies int    `json:"discrepancies" yaml:"discrepancies"`
	OutputPath    string `json:"output_path" yaml:"output_path"`
}

// EnrichmentRun is one end-to-end pass over an input workbook.
type EnrichmentRun struct {
	ID        string      `json:"id"`
	InputPath string      `json:"input_path"`
	Status    RunStatus   `json:"status"`
	Summary   *RunSummary `json:"summary,omitempty"`
	Error     string      `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
