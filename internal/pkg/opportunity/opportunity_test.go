package opportunity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkscout/internal/pkg/types"
)

func page(canonical, title string) *types.DiscoveredPage {
	return &types.DiscoveredPage{
		CanonicalURL: canonical,
		Snapshot:     &types.PageSnapshot{URL: canonical, Title: title},
	}
}

func TestGenerateFillsTemplate(t *testing.T) {
	opp := Generate(page("https://x.com/services/consulting", "Consulting Services | Acme"), types.PageTypeService)

	assert.Equal(t, "https://x.com/services/consulting", opp.URL)
	assert.Equal(t, "Consulting Services | Acme", opp.Title)
	assert.Equal(t, types.PageTypeService, opp.PageType)
	assert.Contains(t, opp.UsageNotes, "service")
	assert.Contains(t, opp.UsageNotes, "Priority: High")
	assert.NotEmpty(t, opp.ContextualRelevance)
	assert.Equal(t, 9, opp.PriorityScore)
}

func TestGenerateEveryTypeHasTemplate(t *testing.T) {
	for _, pageType := range []types.PageType{
		types.PageTypeHomepage,
		types.PageTypeService,
		types.PageTypeProduct,
		types.PageTypeAbout,
		types.PageTypeContact,
		types.PageTypeBlog,
		types.PageTypeOther,
	} {
		opp := Generate(page("https://x.com/p", "Some Page"), pageType)
		assert.NotEmpty(t, opp.UsageNotes, string(pageType))
		assert.NotEmpty(t, opp.ContextualRelevance, string(pageType))
		assert.Positive(t, opp.PriorityScore, string(pageType))
	}
}

func TestPriorityScores(t *testing.T) {
	assert.Equal(t, 10, PriorityScore(types.PageTypeHomepage))
	assert.Equal(t, 9, PriorityScore(types.PageTypeService))
	assert.Equal(t, 8, PriorityScore(types.PageTypeProduct))
	assert.Equal(t, 7, PriorityScore(types.PageTypeAbout))
	assert.Equal(t, 6, PriorityScore(types.PageTypeContact))
	assert.Equal(t, 5, PriorityScore(types.PageTypeBlog))
	assert.Equal(t, 1, PriorityScore(types.PageTypeOther))
}

func TestAnchorTextBounds(t *testing.T) {
	opp := Generate(page("https://x.com/services/managed-it-services", "IT Support for Growing Firms | Acme Co"), types.PageTypeService)

	require.NotEmpty(t, opp.SuggestedAnchorText)
	assert.LessOrEqual(t, len(opp.SuggestedAnchorText), 4)
	for _, anchor := range opp.SuggestedAnchorText {
		assert.Greater(t, len(anchor), 2, "anchor %q too short", anchor)
	}

	// Title, short title form, and humanized slug.
	assert.Contains(t, opp.SuggestedAnchorText, "IT Support for Growing Firms | Acme Co")
	assert.Contains(t, opp.SuggestedAnchorText, "IT Support for Growing Firms")
	assert.Contains(t, opp.SuggestedAnchorText, "managed it services")
}

func TestAnchorTextDeduplicated(t *testing.T) {
	// Title and slug collapse to the same anchor.
	opp := Generate(page("https://x.com/pricing", "Pricing"), types.PageTypeOther)

	seen := make(map[string]int)
	for _, anchor := range opp.SuggestedAnchorText {
		seen[strings.ToLower(anchor)]++
	}
	for anchor, count := range seen {
		assert.Equal(t, 1, count, "anchor %q duplicated", anchor)
	}
}

func TestAnchorTextFallsBackToHost(t *testing.T) {
	// No title, no usable slug.
	p := &types.DiscoveredPage{CanonicalURL: "https://www.x.com/"}
	opp := Generate(p, types.PageTypeHomepage)

	require.Len(t, opp.SuggestedAnchorText, 1)
	assert.Equal(t, "x.com", opp.SuggestedAnchorText[0])
}

func TestHumanizeSlug(t *testing.T) {
	assert.Equal(t, "managed it services", humanizeSlug("managed-it-services"))
	assert.Equal(t, "my post", humanizeSlug("my_post.html"))
	assert.Equal(t, "faq", humanizeSlug("faq"))
}
