package prober

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"linkscout/internal/pkg/types"
	"linkscout/internal/pkg/urlutil"
)

// catalog is the fixed set of paths common business sites serve.
// Probing is O(len(catalog)), never O(site size).
var catalog = []string{
	"/about",
	"/about-us",
	"/company",
	"/team",
	"/our-team",
	"/leadership",
	"/mission",
	"/history",
	"/values",
	"/services",
	"/service",
	"/what-we-do",
	"/solutions",
	"/products",
	"/portfolio",
	"/work",
	"/case-studies",
	"/projects",
	"/industries",
	"/process",
	"/pricing",
	"/plans",
	"/contact",
	"/contact-us",
	"/get-in-touch",
	"/quote",
	"/get-a-quote",
	"/schedule",
	"/booking",
	"/blog",
	"/news",
	"/articles",
	"/insights",
	"/resources",
	"/events",
	"/faq",
	"/faqs",
	"/support",
	"/help",
	"/careers",
	"/jobs",
	"/testimonials",
	"/reviews",
	"/partners",
	"/clients",
}

// Fetcher is the snapshot capability the prober consumes.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (*types.PageSnapshot, error)
}

// Probe is one confirmed catalog hit.
type Probe struct {
	URL      string
	Snapshot *types.PageSnapshot
}

// Prober tests the fixed path catalog against an origin with bounded
// concurrency. Each probe is independent; one path failing never
// aborts the others.
type Prober struct {
	fetcher     Fetcher
	concurrency int64
	logger      *zap.Logger
}

// New builds a Prober. concurrency bounds in-flight probe fetches.
func New(f Fetcher, concurrency int, logger *zap.Logger) *Prober {
	if concurrency <= 0 {
		concurrency = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Prober{fetcher: f, concurrency: int64(concurrency), logger: logger}
}

// CatalogSize returns the number of probed paths.
func CatalogSize() int { return len(catalog) }

// Run probes every catalog path under origin. A path is kept only if
// its fetch succeeds and the snapshot carries at least one non-empty
// content block. Results come back in catalog order regardless of
// completion order.
func (p *Prober) Run(ctx context.Context, origin *url.URL) []Probe {
	sem := semaphore.NewWeighted(p.concurrency)
	results := make([]*Probe, len(catalog))

	var wg sync.WaitGroup
	for i, path := range catalog {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Cancelled; return whatever already completed.
			break
		}
		wg.Add(1)
		go func(slot int, path string) {
			defer wg.Done()
			defer sem.Release(1)

			probeURL, err := urlutil.Normalize(origin.Scheme+"://"+origin.Host+path, nil)
			if err != nil {
				return
			}
			snapshot, err := p.fetcher.Fetch(ctx, probeURL)
			if err != nil {
				p.logger.Debug("probe miss",
					zap.String("path", path),
					zap.Error(err))
				return
			}
			if !snapshot.HasContent() {
				p.logger.Debug("probe hit without content", zap.String("path", path))
				return
			}
			results[slot] = &Probe{URL: probeURL, Snapshot: snapshot}
		}(i, path)
	}
	wg.Wait()

	probes := make([]Probe, 0, len(catalog))
	for _, r := range results {
		if r != nil {
			probes = append(probes, *r)
		}
	}
	p.logger.Info("pattern probe finished",
		zap.Int("catalog", len(catalog)),
		zap.Int("hits", len(probes)))
	return probes
}

// normalizePath is a guard used by tests to keep the catalog canonical.
func normalizePath(path string) string {
	return "/" + strings.Trim(strings.ToLower(path), "/")
}
