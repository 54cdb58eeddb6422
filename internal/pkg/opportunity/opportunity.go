package opportunity

import (
	"strings"

	"github.com/kennygrant/sanitize"

	"linkscout/internal/pkg/types"
	"linkscout/internal/pkg/urlutil"
)

const (
	maxAnchors      = 4
	minAnchorLength = 3
)

// template is the fixed linking guidance attached per page type.
type template struct {
	usageNotes string
	relevance  string
	priority   string
}

var templates = map[types.PageType]template{
	types.PageTypeHomepage: {
		usageNotes: "Link when introducing the company in general terms.",
		relevance:  "Fits introductory mentions of the business as a whole.",
		priority:   "High",
	},
	types.PageTypeService: {
		usageNotes: "Link when the article discusses this specific service.",
		relevance:  "Fits passages describing the service offering in detail.",
		priority:   "High",
	},
	types.PageTypeAbout: {
		usageNotes: "Link when establishing credibility or company background.",
		relevance:  "Fits trust-building sections about experience and team.",
		priority:   "Medium",
	},
	types.PageTypeContact: {
		usageNotes: "Link in calls to action and engagement sections.",
		relevance:  "Fits closing sections inviting the reader to get in touch.",
		priority:   "High",
	},
	types.PageTypeBlog: {
		usageNotes: "Link when covering a related topic for further reading.",
		relevance:  "Fits paragraphs expanding on the same subject area.",
		priority:   "Medium",
	},
	types.PageTypeProduct: {
		usageNotes: "Link when a product or solution is mentioned by name.",
		relevance:  "Fits direct mentions of the product or its use cases.",
		priority:   "High",
	},
	types.PageTypeOther: {
		usageNotes: "Link only where contextually relevant.",
		relevance:  "General page; link when the surrounding text clearly relates.",
		priority:   "Low",
	},
}

// priorityScores is the fixed ranking table downstream consumers rely
// on. Higher scores sort first.
var priorityScores = map[types.PageType]int{
	types.PageTypeHomepage: 10,
	types.PageTypeService:  9,
	types.PageTypeProduct:  8,
	types.PageTypeAbout:    7,
	types.PageTypeContact:  6,
	types.PageTypeBlog:     5,
	types.PageTypeOther:    1,
}

// PriorityScore returns the ranking weight for a page type.
func PriorityScore(pageType types.PageType) int {
	if score, ok := priorityScores[pageType]; ok {
		return score
	}
	return priorityScores[types.PageTypeOther]
}

// Generate produces the LinkOpportunity record for one classified
// page. Pure data transformation: no fetching, no shared state, safe
// to run in parallel over all pages.
func Generate(page *types.DiscoveredPage, pageType types.PageType) types.LinkOpportunity {
	tpl, ok := templates[pageType]
	if !ok {
		tpl = templates[types.PageTypeOther]
	}

	var title string
	if page.Snapshot != nil {
		title = strings.TrimSpace(sanitize.HTML(page.Snapshot.Title))
	}

	return types.LinkOpportunity{
		URL:                 page.CanonicalURL,
		Title:               title,
		PageType:            pageType,
		UsageNotes:          tpl.usageNotes + " Priority: " + tpl.priority + ".",
		SuggestedAnchorText: anchorTexts(page.CanonicalURL, title),
		ContextualRelevance: tpl.relevance,
		PriorityScore:       PriorityScore(pageType),
	}
}

// anchorTexts derives 1-4 candidate anchors from the page title and
// URL slug, deduplicated case-insensitively and filtered to useful
// lengths. There is always at least one candidate: the host name
// backstops pages with no title and a bare slug.
func anchorTexts(canonical, title string) []string {
	var anchors []string
	seen := make(map[string]struct{})

	add := func(candidate string) {
		candidate = strings.TrimSpace(candidate)
		if len(candidate) < minAnchorLength || len(anchors) >= maxAnchors {
			return
		}
		key := strings.ToLower(candidate)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		anchors = append(anchors, candidate)
	}

	add(title)
	// Titles like "Our Services | Acme Co" carry a usable short form.
	for _, sep := range []string{" | ", " - ", " – ", " — "} {
		if before, _, found := strings.Cut(title, sep); found {
			add(before)
			break
		}
	}

	slug := urlutil.LastSegment(canonical)
	if slug != "" {
		add(humanizeSlug(slug))
	}

	if len(anchors) == 0 {
		parsed := urlutil.MustParse(canonical)
		add(strings.TrimPrefix(parsed.Host, "www."))
	}
	return anchors
}

// humanizeSlug turns "managed-it-services" into "managed it services".
func humanizeSlug(slug string) string {
	slug = strings.TrimSuffix(slug, ".html")
	slug = strings.TrimSuffix(slug, ".htm")
	slug = strings.ReplaceAll(slug, "-", " ")
	slug = strings.ReplaceAll(slug, "_", " ")
	return strings.Join(strings.Fields(slug), " ")
}
