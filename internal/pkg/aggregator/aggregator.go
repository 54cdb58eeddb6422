package aggregator

import (
	"context"
	"net/url"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"linkscout/internal/pkg/frontier"
	"linkscout/internal/pkg/prober"
	"linkscout/internal/pkg/types"
	"linkscout/internal/pkg/urlutil"
)

// Fetcher is the snapshot capability used for validation fetches.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (*types.PageSnapshot, error)
}

// Aggregator merges the three discovery strategies into one
// deduplicated DiscoveredPage set. It is the only writer of that set.
type Aggregator struct {
	fetcher     Fetcher
	origin      *url.URL
	concurrency int64
	logger      *zap.Logger
}

// New builds an Aggregator. concurrency bounds in-flight validation
// fetches for pages no strategy has a snapshot for.
func New(f Fetcher, origin *url.URL, concurrency int, logger *zap.Logger) *Aggregator {
	if concurrency <= 0 {
		concurrency = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{fetcher: f, origin: origin, concurrency: int64(concurrency), logger: logger}
}

// Aggregate unions crawl, probe and sitemap results by canonical URL.
// One record survives per URL carrying the union of its sources, with
// stable insertion order: crawl order first, then probe, then sitemap.
// URLs without a snapshot get one validation fetch; if it fails the
// URL is dropped silently rather than surfacing a broken entry.
func (a *Aggregator) Aggregate(ctx context.Context, crawled []frontier.Page, probes []prober.Probe, sitemapURLs []string) []*types.DiscoveredPage {
	index := make(map[string]*types.DiscoveredPage)
	var ordered []*types.DiscoveredPage

	admit := func(canonical string, source types.DiscoverySource, snapshot *types.PageSnapshot) {
		if !urlutil.SameOrigin(canonical, a.origin) || shouldSkip(canonical) {
			return
		}
		page, ok := index[canonical]
		if !ok {
			page = &types.DiscoveredPage{CanonicalURL: canonical}
			index[canonical] = page
			ordered = append(ordered, page)
		}
		page.AddSource(source)
		if page.Snapshot == nil {
			page.Snapshot = snapshot
		}
	}

	for _, page := range crawled {
		admit(page.URL, types.SourceCrawl, page.Snapshot)
	}
	for _, probe := range probes {
		admit(probe.URL, types.SourcePattern, probe.Snapshot)
	}
	for _, sitemapURL := range sitemapURLs {
		admit(sitemapURL, types.SourceSitemap, nil)
	}

	a.validate(ctx, ordered)

	// Drop entries whose validation fetch failed, preserving order.
	final := make([]*types.DiscoveredPage, 0, len(ordered))
	dropped := 0
	for _, page := range ordered {
		if page.Snapshot == nil {
			dropped++
			continue
		}
		final = append(final, page)
	}

	a.logger.Info("discovery aggregated",
		zap.Int("crawled", len(crawled)),
		zap.Int("probed", len(probes)),
		zap.Int("sitemap", len(sitemapURLs)),
		zap.Int("kept", len(final)),
		zap.Int("dropped", dropped))
	return final
}

// validate fetches snapshots for pages discovered without one, in
// parallel under the concurrency bound. Failures leave the snapshot
// nil for the caller to drop.
func (a *Aggregator) validate(ctx context.Context, pages []*types.DiscoveredPage) {
	sem := semaphore.NewWeighted(a.concurrency)
	var wg sync.WaitGroup

	for _, page := range pages {
		if page.Snapshot != nil {
			continue
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(page *types.DiscoveredPage) {
			defer wg.Done()
			defer sem.Release(1)
			snapshot, err := a.fetcher.Fetch(ctx, page.CanonicalURL)
			if err != nil {
				a.logger.Debug("validation fetch failed, dropping",
					zap.String("url", page.CanonicalURL),
					zap.Error(err))
				return
			}
			page.Snapshot = snapshot
		}(page)
	}
	wg.Wait()
}
