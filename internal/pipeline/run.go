// Package pipeline orchestrates one enrichment pass: read the workbook,
// crawl the selected practices, extract candidates, reconcile, and write the
// processed workbook plus the run summary.
package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/praxisdata/clinic-enrich/internal/config"
	"github.com/praxisdata/clinic-enrich/internal/crawl"
	"github.com/praxisdata/clinic-enrich/internal/model"
	"github.com/praxisdata/clinic-enrich/internal/oracle"
	"github.com/praxisdata/clinic-enrich/internal/reconcile"
	"github.com/praxisdata/clinic-enrich/internal/sheet"
	"github.com/praxisdata/clinic-enrich/internal/store"
)

// Pipeline wires the crawl, extraction, and reconciliation phases together.
type Pipeline struct {
	cfg       *config.Config
	crawler   *crawl.Crawler
	extractor oracle.Extractor
	store     *store.SQLiteStore
}

// New creates a Pipeline with all dependencies.
func New(cfg *config.Config, crawler *crawl.Crawler, extractor oracle.Extractor, st *store.SQLiteStore) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		crawler:   crawler,
		extractor: extractor,
		store:     st,
	}
}

// Run executes the full enrichment pass over one input workbook and returns
// the run summary. The processed workbook lands next to the input; crawl
// artifacts and the YAML summary go where config points.
func (p *Pipeline) Run(ctx context.Context, inputPath string) (*model.RunSummary, error) {
	log := zap.L().With(zap.String("input", inputPath))
	log.Info("pipeline: starting enrichment run")

	run, err := p.store.CreateRun(ctx, inputPath)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}

	summary, err := p.run(ctx, run.ID, inputPath)
	if err != nil {
		if failErr := p.store.FailRun(ctx, run.ID, err.Error()); failErr != nil {
			log.Warn("pipeline: failed to record run failure", zap.Error(failErr))
		}
		return nil, err
	}

	if err := p.store.CompleteRun(ctx, run.ID, *summary); err != nil {
		log.Warn("pipeline: failed to record run completion", zap.Error(err))
	}

	if p.cfg.Output.SummaryPath != "" {
		if err := writeSummary(p.cfg.Output.SummaryPath, summary); err != nil {
			log.Warn("pipeline: failed to write summary file", zap.Error(err))
		}
	}

	log.Info("pipeline: run complete",
		zap.String("run_id", run.ID),
		zap.Int("updated", summary.Updated),
		zap.Int("expanded", summary.Expanded),
		zap.String("output", summary.OutputPath),
	)
	return summary, nil
}

func (p *Pipeline) run(ctx context.Context, runID, inputPath string) (*model.RunSummary, error) {
	table, err := sheet.Read(inputPath)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: read workbook")
	}

	var selected []model.BusinessRecord
	for _, rec := range table.Records {
		if table.Selected[rec.Row] {
			selected = append(selected, rec)
		}
	}

	results := crawl.CrawlAll(ctx, p.crawler, selected, crawl.PoolConfig{
		Workers:   p.cfg.Crawl.Workers,
		BatchSize: p.cfg.Crawl.BatchSize,
	})

	summary := &model.RunSummary{
		Records:  len(table.Records),
		Selected: len(selected),
	}

	candidates := make(map[string]model.CandidateRecord, len(selected))
	for _, rec := range selected {
		res, ok := results[rec.Row]
		if !ok {
			continue
		}
		if res.Err != "" {
			summary.CrawlFailed++
			candidates[rec.Practice] = model.CandidateRecord{Practice: rec.Practice, Err: res.Err}
			continue
		}
		summary.Crawled++

		if p.cfg.Output.ArtifactDir != "" {
			if _, err := crawl.WriteArtifact(p.cfg.Output.ArtifactDir, *res.Doc, res.Row); err != nil {
				zap.L().Warn("pipeline: artifact write failed",
					zap.String("practice", rec.Practice),
					zap.Error(err),
				)
			}
		}

		cand, err := p.extractor.Extract(ctx, rec.Practice, crawl.RenderDocument(*res.Doc))
		if err != nil {
			if ctx.Err() != nil {
				return nil, eris.Wrap(err, "pipeline: extraction aborted")
			}
			cand = model.CandidateRecord{Practice: rec.Practice, Err: err.Error()}
		} else {
			summary.Extracted++
		}
		candidates[rec.Practice] = cand
	}

	if err := p.store.SaveCrawlResults(ctx, runID, results); err != nil {
		zap.L().Warn("pipeline: failed to save crawl results", zap.Error(err))
	}

	today := time.Now().Format("2006-01-02")
	recon := reconcile.Reconcile(table.Records, candidates, table.Selected, today)
	summary.Updated = recon.Updated
	summary.Expanded = recon.Expanded
	summary.Discrepancies = len(recon.Discrepancies)

	outputPath := sheet.OutputPath(inputPath)
	if err := sheet.Write(outputPath, recon.Records); err != nil {
		return nil, eris.Wrap(err, "pipeline: write workbook")
	}
	summary.OutputPath = outputPath

	if err := p.store.SaveDiscrepancies(ctx, runID, recon.Discrepancies); err != nil {
		zap.L().Warn("pipeline: failed to save discrepancies", zap.Error(err))
	}

	return summary, nil
}

func writeSummary(path string, summary *model.RunSummary) error {
	data, err := yaml.Marshal(summary)
	if err != nil {
		return eris.Wrap(err, "pipeline: marshal summary")
	}
	return eris.Wrap(os.WriteFile(path, data, 0o644), "pipeline: write summary")
}
