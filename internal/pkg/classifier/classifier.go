package classifier

import (
	"strings"

	"linkscout/internal/pkg/types"
	"linkscout/internal/pkg/urlutil"
)

// Rule order is the tie-breaker: the cascade is evaluated top to
// bottom and the first match wins. Reordering changes classification
// results, so the table below must stay exactly as written.

var (
	homePaths = []string{"/", "/index", "/index.html", "/home"}

	blogPathHints  = []string{"/blog", "/article", "/news", "/post", "/insights", "/commentary"}
	blogTitleHints = []string{"blog", "article", "commentary"}

	serviceKeywords = []string{"service", "portfolio", "strategy", "management", "solution", "offering"}
)

// Classify assigns exactly one PageType to a discovered page. It is
// pure and total: the same input always yields the same output, and
// every page lands on a type ("other" at worst).
func Classify(page *types.DiscoveredPage) types.PageType {
	path := urlutil.Path(page.CanonicalURL)

	var title string
	var headings []string
	if page.Snapshot != nil {
		title = strings.ToLower(page.Snapshot.Title)
		headings = page.Snapshot.Headings
	}

	// 1. Root-shaped paths are the homepage.
	for _, home := range homePaths {
		if path == home {
			return types.PageTypeHomepage
		}
	}

	// 2. About pages.
	if strings.Contains(path, "/about") || strings.Contains(path, "/team") ||
		strings.Contains(title, "about") {
		return types.PageTypeAbout
	}

	// 3. Contact pages.
	if strings.Contains(path, "/contact") || strings.Contains(title, "contact") {
		return types.PageTypeContact
	}

	// 4. Blog and editorial content.
	for _, hint := range blogPathHints {
		if strings.Contains(path, hint) {
			return types.PageTypeBlog
		}
	}
	for _, hint := range blogTitleHints {
		if strings.Contains(title, hint) {
			return types.PageTypeBlog
		}
	}

	// 5. Product pages need the segment delimiter; "/production" is
	// not a product path.
	if strings.Contains(path, "/product/") || strings.Contains(path, "/solution/") {
		return types.PageTypeProduct
	}

	// 6. Service keyword anywhere in title, path or top headings.
	for _, keyword := range serviceKeywords {
		if strings.Contains(title, keyword) || strings.Contains(path, keyword) {
			return types.PageTypeService
		}
	}
	for _, heading := range headings {
		lowered := strings.ToLower(heading)
		for _, keyword := range serviceKeywords {
			if strings.Contains(lowered, keyword) {
				return types.PageTypeService
			}
		}
	}

	// 7. Everything else.
	return types.PageTypeOther
}
