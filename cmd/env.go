package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/praxisdata/clinic-enrich/internal/crawl"
	"github.com/praxisdata/clinic-enrich/internal/fetcher"
	"github.com/praxisdata/clinic-enrich/internal/oracle"
	"github.com/praxisdata/clinic-enrich/internal/pipeline"
	"github.com/praxisdata/clinic-enrich/internal/store"
	"github.com/praxisdata/clinic-enrich/pkg/anthropic"
)

// env bundles the wired dependencies shared by the subcommands.
type env struct {
	store    *store.SQLiteStore
	crawler  *crawl.Crawler
	pipeline *pipeline.Pipeline
}

func (e *env) Close() {
	if e.store != nil {
		_ = e.store.Close()
	}
}

// initCrawlEnv wires the store and crawler only. Commands that never call
// the extraction API use this so they run without an Anthropic key.
func initCrawlEnv(ctx context.Context) (*env, error) {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}

	fc := fetcher.New(fetcher.WithTimeout(time.Duration(cfg.Crawl.TimeoutSecs) * time.Second))

	return &env{
		store:   st,
		crawler: crawl.New(fc),
	}, nil
}

// initEnv wires the full dependency set: store, crawler, extractor, and
// pipeline. Requires an Anthropic API key.
func initEnv(ctx context.Context) (*env, error) {
	e, err := initCrawlEnv(ctx)
	if err != nil {
		return nil, err
	}

	if cfg.Anthropic.Key == "" {
		e.Close()
		return nil, eris.New("anthropic API key is required (CLINIC_ANTHROPIC_KEY)")
	}
	extractor := oracle.NewClaude(anthropic.NewClient(cfg.Anthropic.Key),
		oracle.WithModel(cfg.Oracle.Model),
		oracle.WithMaxDocumentChars(cfg.Oracle.MaxDocumentChars),
		oracle.WithRequestInterval(time.Duration(cfg.Oracle.RequestIntervalSecs)*time.Second),
	)
	e.pipeline = pipeline.New(cfg, e.crawler, extractor, e.store)

	return e, nil
}
