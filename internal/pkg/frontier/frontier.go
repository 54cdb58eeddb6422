package frontier

import (
	"context"
	"errors"
	"net/url"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"

	"linkscout/internal/pkg/queue"
	"linkscout/internal/pkg/types"
	"linkscout/internal/pkg/urlutil"
)

// Fetcher is the page-snapshot capability the crawler consumes.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (*types.PageSnapshot, error)
}

// Status describes how a crawl terminated. Completed and CappedOut are
// both success states; the caller always receives whatever URLs were
// visited.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusCappedOut Status = "capped_out"
	StatusCancelled Status = "cancelled"
)

// Page pairs a visited canonical URL with its snapshot, in visit order.
type Page struct {
	URL      string
	Snapshot *types.PageSnapshot
}

// Result is the outcome of one bounded BFS traversal.
type Result struct {
	Pages    []Page
	Status   Status
	Warnings int
}

// Crawler performs a bounded breadth-first traversal of one origin.
// It exclusively owns the crawl state: no other component touches the
// visited set or the queue.
type Crawler struct {
	fetcher         Fetcher
	origin          *url.URL
	maxPages        int
	paginationLimit int
	logger          *zap.Logger
}

// New builds a Crawler. paginationLimit bounds how many pagination
// hops may be followed past a listing page; zero disables the bound.
func New(f Fetcher, origin *url.URL, maxPages, paginationLimit int, logger *zap.Logger) *Crawler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Crawler{
		fetcher:         f,
		origin:          origin,
		maxPages:        maxPages,
		paginationLimit: paginationLimit,
		logger:          logger,
	}
}

// Run crawls breadth-first from the seed URL until the frontier
// empties or maxPages distinct URLs have been visited. A single page
// failure is never fatal; it is logged and counted as a warning.
func (c *Crawler) Run(ctx context.Context, seedURL string) (*Result, error) {
	seed, err := urlutil.Normalize(seedURL, nil)
	if err != nil {
		return nil, err
	}
	if !urlutil.SameOrigin(seed, c.origin) {
		return nil, errors.New("seed url is outside the crawl origin")
	}

	visited := mapset.NewSet[string]()
	queued := mapset.NewSet[string]()
	frontier := queue.New()

	frontier.Push(queue.Item{URL: seed})
	queued.Add(seed)

	result := &Result{Status: StatusCompleted}

	for {
		select {
		case <-ctx.Done():
			result.Status = StatusCancelled
			c.logger.Warn("crawl cancelled, returning partial results",
				zap.Int("visited", visited.Cardinality()))
			return result, nil
		default:
		}

		item, ok := frontier.Pop()
		if !ok {
			return result, nil
		}
		// Two queue entries for one URL must not both count toward
		// the cap.
		if visited.Contains(item.URL) {
			continue
		}
		// The cap is tested against the next unvisited URL, after the
		// empty check: a site with exactly maxPages reachable pages
		// finishes as Completed, not CappedOut.
		if visited.Cardinality() >= c.maxPages {
			result.Status = StatusCappedOut
			c.logger.Info("page cap reached",
				zap.Int("max_pages", c.maxPages),
				zap.Int("still_queued", frontier.Len()+1))
			return result, nil
		}
		visited.Add(item.URL)

		snapshot, err := c.fetcher.Fetch(ctx, item.URL)
		if err != nil {
			result.Warnings++
			c.logger.Warn("page fetch failed, skipping",
				zap.String("url", item.URL),
				zap.Error(err))
			continue
		}

		result.Pages = append(result.Pages, Page{URL: item.URL, Snapshot: snapshot})

		c.enqueueLinks(item, snapshot, frontier, visited, queued)
	}
}

// enqueueLinks appends newly discovered same-origin URLs to the
// frontier in discovery order. Listing pages additionally contribute
// pagination targets, which carry a chain depth and are never
// re-tested against the listing heuristic (prevents pagination
// recursion blowup).
func (c *Crawler) enqueueLinks(current queue.Item, snapshot *types.PageSnapshot, frontier *queue.Queue, visited, queued mapset.Set[string]) {
	push := func(item queue.Item) {
		// The provider already filters links to the origin, but the
		// frontier owns the invariant: off-origin URLs never enter it.
		if !urlutil.SameOrigin(item.URL, c.origin) {
			return
		}
		if visited.Contains(item.URL) || !queued.Add(item.URL) {
			return
		}
		frontier.Push(item)
	}

	// Pagination targets are never re-tested against the listing
	// heuristic, but their own pagination links continue the chain.
	listing := !current.FromPagination && isListingPage(current.URL, snapshot)
	followPagination := listing || current.FromPagination

	for _, link := range snapshot.OutboundLinks {
		if followPagination && isPaginationLink(link) {
			c.pushPagination(current, link, push)
			continue
		}
		push(queue.Item{URL: link})
	}

	if !followPagination {
		return
	}
	for _, link := range snapshot.PaginationLinks {
		c.pushPagination(current, link, push)
	}
	if !listing {
		return
	}

	// Listing pages broaden discovery: links matching the individual
	// post patterns join the frontier even when the regular pass
	// filtered them as pagination.
	postLinks := 0
	for _, link := range snapshot.OutboundLinks {
		if isPostLink(link) && !isPaginationLink(link) {
			postLinks++
			push(queue.Item{URL: link})
		}
	}
	c.logger.Debug("listing page expanded",
		zap.String("url", current.URL),
		zap.Int("post_links", postLinks),
		zap.Int("pagination_links", len(snapshot.PaginationLinks)))
}

// pushPagination enqueues a pagination target unless its chain depth
// exceeds the configured bound. A pagination target that itself looks
// like an individual post is enqueued as a regular page instead.
func (c *Crawler) pushPagination(current queue.Item, link string, push func(queue.Item)) {
	if isPostLink(link) && !isPaginationLink(link) {
		push(queue.Item{URL: link})
		return
	}
	depth := current.PaginationDepth + 1
	if c.paginationLimit > 0 && depth > c.paginationLimit {
		c.logger.Debug("pagination depth cap reached",
			zap.String("url", link),
			zap.Int("depth", depth))
		return
	}
	push(queue.Item{URL: link, FromPagination: true, PaginationDepth: depth})
}
