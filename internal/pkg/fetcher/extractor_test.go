package fetcher

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSnapshot(t *testing.T) {
	origin, err := url.Parse("https://example.com/")
	require.NoError(t, err)

	content := `<html lang="en">
		<head>
			<title>Acme Consulting | Home</title>
			<meta name="description" content="Strategy consulting for growing companies">
			<link rel="next" href="/blog?page=2">
		</head>
		<body>
			<h1>Welcome to Acme</h1>
			<h2>What we do</h2>
			<p>We help companies grow.</p>
			<p>   </p>
			<ul><li>Strategy</li><li>Operations</li></ul>
			<a href="/services/">Services</a>
			<a href="/about#team">About</a>
			<a href="/services/">Services again</a>
			<a href="https://external.com/page">External</a>
			<a href="mailto:info@example.com">Mail us</a>
			<a href="tel:+15551234567">Call us</a>
			<script>var hidden = "not text";</script>
		</body>
	</html>`

	snapshot, err := extractSnapshot(content, "https://example.com/", origin)
	require.NoError(t, err)

	assert.Equal(t, "Acme Consulting | Home", snapshot.Title)
	assert.Equal(t, "Strategy consulting for growing companies", snapshot.MetaDescription)
	assert.Equal(t, []string{"Welcome to Acme", "What we do"}, snapshot.Headings)
	assert.Equal(t, []string{"We help companies grow."}, snapshot.Paragraphs)
	assert.Equal(t, []string{"Strategy", "Operations"}, snapshot.ListItems)

	// Links are normalized (trailing slash and fragments gone),
	// deduplicated, and filtered to the origin host. mailto/tel and
	// external hosts never survive.
	assert.Equal(t, []string{"https://example.com/services", "https://example.com/about"}, snapshot.OutboundLinks)
	assert.Equal(t, []string{"https://example.com/blog?page=2"}, snapshot.PaginationLinks)

	assert.Contains(t, snapshot.RawText, "We help companies grow.")
	assert.NotContains(t, snapshot.RawText, "not text")
}

func TestExtractSnapshotHonorsBaseTag(t *testing.T) {
	origin, err := url.Parse("https://example.com/")
	require.NoError(t, err)

	content := `<html><head><base href="https://example.com/docs/"></head>
		<body><a href="guide">Guide</a></body></html>`

	snapshot, err := extractSnapshot(content, "https://example.com/other", origin)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/docs/guide"}, snapshot.OutboundLinks)
}

func TestExtractSnapshotEmptyDocument(t *testing.T) {
	origin, err := url.Parse("https://example.com/")
	require.NoError(t, err)

	snapshot, err := extractSnapshot("", "https://example.com/", origin)
	require.NoError(t, err)
	assert.False(t, snapshot.HasContent())
	assert.Empty(t, snapshot.OutboundLinks)
}
