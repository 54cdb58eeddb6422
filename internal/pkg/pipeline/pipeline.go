package pipeline

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"linkscout/internal/pkg/aggregator"
	"linkscout/internal/pkg/classifier"
	"linkscout/internal/pkg/frontier"
	"linkscout/internal/pkg/opportunity"
	"linkscout/internal/pkg/prober"
	"linkscout/internal/pkg/ranker"
	"linkscout/internal/pkg/sitemap"
	"linkscout/internal/pkg/types"
	"linkscout/internal/pkg/urlutil"
)

// ErrSeedUnreachable is the only hard failure the pipeline surfaces:
// the seed site produced zero reachable pages, so there is nothing to
// classify or rank. Every lesser failure (dead links, missing sitemap,
// probe misses) shrinks the result set instead.
var ErrSeedUnreachable = errors.New("seed site could not be reached")

// Provider is the page-snapshot capability the pipeline consumes. The
// instance is caller-owned; the pipeline never constructs or closes it.
type Provider interface {
	Fetch(ctx context.Context, pageURL string) (*types.PageSnapshot, error)
	FetchText(ctx context.Context, textURL string) (string, error)
}

// Config carries the crawl bounds and worker limits.
type Config struct {
	// MaxPages caps distinct URLs visited by the BFS crawl.
	MaxPages int
	// FetchTimeout bounds a single page fetch.
	FetchTimeout time.Duration
	// ProbeConcurrency bounds parallel pattern-probe fetches.
	ProbeConcurrency int
	// ValidateConcurrency bounds parallel validation fetches.
	ValidateConcurrency int
	// PaginationDepthLimit bounds pagination chains past a listing
	// page. Zero disables the bound.
	PaginationDepthLimit int
	// GenerateConcurrency bounds parallel opportunity generation.
	GenerateConcurrency int
}

// DefaultConfig returns the reference defaults.
func DefaultConfig() Config {
	return Config{
		MaxPages:             200,
		FetchTimeout:         30 * time.Second,
		ProbeConcurrency:     8,
		ValidateConcurrency:  8,
		PaginationDepthLimit: 3,
		GenerateConcurrency:  8,
	}
}

// Result is the full outcome of one discovery run.
type Result struct {
	RunID         string
	SeedURL       string
	CrawlStatus   frontier.Status
	Pages         []*types.DiscoveredPage
	Opportunities []types.LinkOpportunity
	Warnings      int
	Elapsed       time.Duration
}

// Pipeline wires the discovery strategies, aggregation, classification
// and ranking into one run.
type Pipeline struct {
	provider Provider
	origin   *url.URL
	cfg      Config
	logger   *zap.Logger
}

// New builds a Pipeline around a caller-owned Provider.
func New(provider Provider, origin *url.URL, cfg Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{provider: provider, origin: origin, cfg: cfg, logger: logger}
}

// Run executes the whole discovery pipeline for one seed URL. The
// three discovery strategies run concurrently against the origin;
// cancellation at any point yields whatever was already discovered.
func (p *Pipeline) Run(ctx context.Context, seedURL string) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := p.logger.With(zap.String("run_id", runID))

	seed, err := urlutil.Normalize(seedURL, nil)
	if err != nil {
		return nil, err
	}

	logger.Info("discovery started",
		zap.String("seed", seed),
		zap.Int("max_pages", p.cfg.MaxPages))

	var (
		crawlResult *frontier.Result
		probes      []prober.Probe
		sitemapURLs []string
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		crawler := frontier.New(p.provider, p.origin, p.cfg.MaxPages, p.cfg.PaginationDepthLimit, logger)
		var crawlErr error
		crawlResult, crawlErr = crawler.Run(groupCtx, seed)
		return crawlErr
	})
	group.Go(func() error {
		probes = prober.New(p.provider, p.cfg.ProbeConcurrency, logger).Run(groupCtx, p.origin)
		return nil
	})
	group.Go(func() error {
		sitemapURLs = sitemap.New(p.provider, logger).Read(groupCtx, p.origin)
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	agg := aggregator.New(p.provider, p.origin, p.cfg.ValidateConcurrency, logger)
	pages := agg.Aggregate(ctx, crawlResult.Pages, probes, sitemapURLs)
	if len(pages) == 0 {
		return nil, ErrSeedUnreachable
	}

	opportunities := p.generate(ctx, pages)
	ranked := ranker.Rank(opportunities)

	result := &Result{
		RunID:         runID,
		SeedURL:       seed,
		CrawlStatus:   crawlResult.Status,
		Pages:         pages,
		Opportunities: ranked,
		Warnings:      crawlResult.Warnings,
		Elapsed:       time.Since(start),
	}

	logger.Info("discovery finished",
		zap.String("status", string(result.CrawlStatus)),
		zap.Int("pages", len(pages)),
		zap.Int("warnings", result.Warnings),
		zap.Duration("elapsed", result.Elapsed))
	return result, nil
}

// generate classifies each page and produces its opportunity record.
// Generation is pure per page, so pages fan out across workers; the
// indexed slice keeps aggregation order intact for the ranker's
// stability guarantee.
func (p *Pipeline) generate(ctx context.Context, pages []*types.DiscoveredPage) []types.LinkOpportunity {
	opportunities := make([]types.LinkOpportunity, len(pages))

	group, _ := errgroup.WithContext(ctx)
	limit := p.cfg.GenerateConcurrency
	if limit <= 0 {
		limit = 1
	}
	group.SetLimit(limit)

	for i, page := range pages {
		i, page := i, page
		group.Go(func() error {
			pageType := classifier.Classify(page)
			opportunities[i] = opportunity.Generate(page, pageType)
			return nil
		})
	}
	_ = group.Wait()
	return opportunities
}
