package main

import (
	"fmt"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/praxisdata/clinic-enrich/internal/crawl"
	"github.com/praxisdata/clinic-enrich/internal/model"
	"github.com/praxisdata/clinic-enrich/internal/sheet"
)

var crawlCmd = &cobra.Command{
	Use:   "crawl <input.xlsx>",
	Short: "Crawl the selected practices and write artifacts without extraction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initCrawlEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		table, err := sheet.Read(args[0])
		if err != nil {
			return err
		}

		var selected []model.BusinessRecord
		for _, rec := range table.Records {
			if table.Selected[rec.Row] {
				selected = append(selected, rec)
			}
		}

		results := crawl.CrawlAll(ctx, env.crawler, selected, crawl.PoolConfig{
			Workers:   cfg.Crawl.Workers,
			BatchSize: cfg.Crawl.BatchSize,
		})

		rows := make([]int, 0, len(results))
		for row := range results {
			rows = append(rows, row)
		}
		sort.Ints(rows)

		var failed int
		for _, row := range rows {
			res := results[row]
			if res.Err != "" {
				failed++
				fmt.Printf("FAIL %s: %s\n", res.Practice, res.Err)
				continue
			}
			if _, err := crawl.WriteArtifact(cfg.Output.ArtifactDir, *res.Doc, res.Row); err != nil {
				zap.L().Warn("crawl: artifact write failed",
					zap.String("practice", res.Practice),
					zap.Error(err),
				)
				continue
			}
			fmt.Printf("OK   %s: %d pages, %d emails\n",
				res.Practice, len(res.Doc.PagesVisited), len(res.Doc.Emails))
		}

		fmt.Printf("Crawled %d practices, %d failed; artifacts in %s\n",
			len(results)-failed, failed, cfg.Output.ArtifactDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(crawlCmd)
}
