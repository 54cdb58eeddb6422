package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rodaine/table"
	"go.uber.org/zap"

	"linkscout/internal/pkg/export"
	"linkscout/internal/pkg/fetcher"
	"linkscout/internal/pkg/pipeline"
	"linkscout/internal/pkg/ranker"
	"linkscout/internal/pkg/types"
	"linkscout/internal/pkg/urlutil"
)

func main() {
	seedURL := flag.String("url", "", "seed URL of the site to map")
	maxPages := flag.Int("max-pages", 200, "maximum distinct pages to visit")
	timeout := flag.Duration("timeout", 30*time.Second, "per-page fetch timeout")
	deadline := flag.Duration("deadline", 0, "overall run deadline (0 = none)")
	outDir := flag.String("out", "out", "output directory for artifacts")
	rps := flag.Float64("rps", 5, "max requests per second against the target host")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	if *seedURL == "" {
		flag.Usage()
		os.Exit(1)
	}

	logger, err := buildLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	seed, err := urlutil.Normalize(*seedURL, nil)
	if err != nil {
		logger.Fatal("invalid seed url", zap.String("url", *seedURL), zap.Error(err))
	}
	origin := urlutil.MustParse(seed)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *deadline)
		defer cancel()
	}

	provider := fetcher.NewProvider(origin, fetcher.Options{
		Timeout:           *timeout,
		RequestsPerSecond: *rps,
		Burst:             2,
		Logger:            logger,
	})
	if err := provider.Open(); err != nil {
		logger.Fatal("open provider", zap.Error(err))
	}
	defer provider.Close()

	cfg := pipeline.DefaultConfig()
	cfg.MaxPages = *maxPages
	cfg.FetchTimeout = *timeout

	start := time.Now()
	result, err := pipeline.New(provider, origin, cfg, logger).Run(ctx, seed)
	if err != nil {
		logger.Fatal("discovery failed", zap.Error(err))
	}

	if err := export.WriteAll(*outDir, result.Opportunities); err != nil {
		logger.Fatal("write artifacts", zap.Error(err))
	}

	printSummary(result)
	logger.Info("done",
		zap.String("out_dir", *outDir),
		zap.Duration("elapsed", time.Since(start)))
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	return cfg.Build()
}

func printSummary(result *pipeline.Result) {
	counts := make(map[types.PageType]int)
	for _, opp := range result.Opportunities {
		counts[opp.PageType]++
	}

	tbl := table.New("Page Type", "Pages", "Priority Score")
	for _, pageType := range []types.PageType{
		types.PageTypeHomepage,
		types.PageTypeService,
		types.PageTypeProduct,
		types.PageTypeAbout,
		types.PageTypeContact,
		types.PageTypeBlog,
		types.PageTypeOther,
	} {
		if counts[pageType] == 0 {
			continue
		}
		tbl.AddRow(string(pageType), counts[pageType], priorityOf(result.Opportunities, pageType))
	}
	tbl.Print()

	fmt.Printf("\n%d pages discovered (%d high-value), crawl status: %s\n",
		len(result.Opportunities),
		len(ranker.HighValue(result.Opportunities)),
		result.CrawlStatus)
}

func priorityOf(opportunities []types.LinkOpportunity, pageType types.PageType) int {
	for _, opp := range opportunities {
		if opp.PageType == pageType {
			return opp.PriorityScore
		}
	}
	return 0
}
