package fetcher

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"linkscout/internal/pkg/types"
	"linkscout/internal/pkg/urlutil"
)

// extractSnapshot parses HTML content into an immutable PageSnapshot.
// Outbound and pagination links are resolved against the page URL,
// normalized, and filtered to the seed origin's host.
func extractSnapshot(content, pageURL string, origin *url.URL) (*types.PageSnapshot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, err
	}
	// An explicit <base href> shifts relative link resolution.
	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if baseRef, err := url.Parse(href); err == nil {
			base = base.ResolveReference(baseRef)
		}
	}

	snapshot := &types.PageSnapshot{
		URL:             pageURL,
		Title:           strings.TrimSpace(doc.Find("title").First().Text()),
		MetaDescription: metaContent(doc, "description"),
	}

	doc.Find("h1, h2, h3").Each(func(_ int, sel *goquery.Selection) {
		if text := normalizeWhitespace(sel.Text()); text != "" {
			snapshot.Headings = append(snapshot.Headings, text)
		}
	})
	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		if text := normalizeWhitespace(sel.Text()); text != "" {
			snapshot.Paragraphs = append(snapshot.Paragraphs, text)
		}
	})
	doc.Find("li").Each(func(_ int, sel *goquery.Selection) {
		if text := normalizeWhitespace(sel.Text()); text != "" {
			snapshot.ListItems = append(snapshot.ListItems, text)
		}
	})

	snapshot.OutboundLinks = collectLinks(doc, "a[href]", base, origin)
	snapshot.PaginationLinks = collectLinks(doc, "a[rel=next], a[rel=prev], link[rel=next], link[rel=prev]", base, origin)

	if root := doc.Get(0); root != nil {
		snapshot.RawText = normalizeWhitespace(visibleText(root))
	}

	return snapshot, nil
}

// collectLinks resolves, normalizes and origin-filters href targets of
// the matched elements. Duplicates are dropped in place, preserving
// document order.
func collectLinks(doc *goquery.Document, selector string, base, origin *url.URL) []string {
	var links []string
	seen := make(map[string]struct{})

	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		canonical, err := urlutil.Normalize(href, base)
		if err != nil {
			// mailto:, tel:, javascript: and unparseable hrefs.
			return
		}
		if !urlutil.SameOrigin(canonical, origin) {
			return
		}
		if _, dup := seen[canonical]; dup {
			return
		}
		seen[canonical] = struct{}{}
		links = append(links, canonical)
	})

	return links
}

func metaContent(doc *goquery.Document, name string) string {
	content, _ := doc.Find("meta[name='" + name + "']").First().Attr("content")
	return strings.TrimSpace(content)
}

// visibleText walks the parsed tree collecting text outside of
// non-rendered elements.
func visibleText(node *html.Node) string {
	var buf bytes.Buffer
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode && !hasNonVisibleParent(n.Parent) {
			if text := strings.TrimSpace(n.Data); text != "" {
				buf.WriteString(text + " ")
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return buf.String()
}

// hasNonVisibleParent checks if a node or any of its ancestors are non-rendered.
func hasNonVisibleParent(node *html.Node) bool {
	for ; node != nil; node = node.Parent {
		if node.Type == html.ElementNode {
			switch node.DataAtom {
			case atom.Script, atom.Style, atom.Head, atom.Meta, atom.Link, atom.Noscript, atom.Template:
				return true
			}
		}
	}
	return false
}

func normalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
