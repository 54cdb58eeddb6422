package frontier

import (
	"net/url"
	"regexp"
	"strings"

	"linkscout/internal/pkg/types"
	"linkscout/internal/pkg/urlutil"
)

var (
	listingSegments = []string{"blog", "article", "articles", "news"}
	postSegments    = []string{"/blog/", "/article/", "/post/", "/news/"}

	yearSegmentRe = regexp.MustCompile(`/(19|20)\d{2}(/|$)`)
	pagePathRe    = regexp.MustCompile(`/page/\d+(/|$)`)
)

// isListingPage reports whether a page looks like a content listing
// (blog index, news archive) whose individual entries are worth
// broadened discovery.
func isListingPage(canonical string, snapshot *types.PageSnapshot) bool {
	path := urlutil.Path(canonical)
	for _, segment := range strings.Split(strings.Trim(path, "/"), "/") {
		for _, listing := range listingSegments {
			if segment == listing {
				return true
			}
		}
	}

	if snapshot == nil {
		return false
	}
	if strings.Contains(strings.ToLower(snapshot.Title), "blog") {
		return true
	}
	for _, heading := range snapshot.Headings {
		if strings.Contains(strings.ToLower(heading), "blog") {
			return true
		}
	}
	return false
}

// isPostLink applies the broadened pattern set for individual post
// URLs: a content path segment, a 4-digit year segment, or a long
// hyphenated slug.
func isPostLink(canonical string) bool {
	path := urlutil.Path(canonical)
	for _, segment := range postSegments {
		if strings.Contains(path, segment) {
			return true
		}
	}
	if yearSegmentRe.MatchString(path) {
		return true
	}
	slug := urlutil.LastSegment(canonical)
	return len(slug) >= 10 && strings.Contains(slug, "-")
}

// isPaginationLink detects page=N queries and /page/N path segments.
func isPaginationLink(canonical string) bool {
	parsed, err := url.Parse(canonical)
	if err != nil {
		return false
	}
	if parsed.Query().Get("page") != "" {
		return true
	}
	return pagePathRe.MatchString(strings.ToLower(parsed.Path))
}
