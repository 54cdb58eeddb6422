package frontier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"linkscout/internal/pkg/types"
)

func TestIsListingPage(t *testing.T) {
	assert.True(t, isListingPage("https://x.com/blog", nil))
	assert.True(t, isListingPage("https://x.com/news", nil))
	assert.True(t, isListingPage("https://x.com/company/articles", nil))
	assert.False(t, isListingPage("https://x.com/blogging-tips", nil))
	assert.False(t, isListingPage("https://x.com/services", nil))

	withTitle := &types.PageSnapshot{Title: "The Acme Blog"}
	assert.True(t, isListingPage("https://x.com/writing", withTitle))

	withHeading := &types.PageSnapshot{Headings: []string{"From our blog"}}
	assert.True(t, isListingPage("https://x.com/writing", withHeading))
}

func TestIsPostLink(t *testing.T) {
	assert.True(t, isPostLink("https://x.com/blog/some-post"))
	assert.True(t, isPostLink("https://x.com/news/launch"))
	assert.True(t, isPostLink("https://x.com/2024/05/launch"))
	assert.True(t, isPostLink("https://x.com/how-we-scaled-our-team"))
	assert.False(t, isPostLink("https://x.com/about"))
	assert.False(t, isPostLink("https://x.com/faq"))
}

func TestIsPaginationLink(t *testing.T) {
	assert.True(t, isPaginationLink("https://x.com/blog?page=2"))
	assert.True(t, isPaginationLink("https://x.com/blog/page/3"))
	assert.False(t, isPaginationLink("https://x.com/blog"))
	assert.False(t, isPaginationLink("https://x.com/pages"))
}
