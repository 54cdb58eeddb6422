package types

import "time"

// PageSnapshot is the structured result of fetching one URL.
// It is created once per URL per crawl run and never mutated afterward.
type PageSnapshot struct {
    URL             string    `json:"url"`
    Title           string    `json:"title"`
    MetaDescription string    `json:"meta_description"`
    Headings        []string  `json:"headings"`
    Paragraphs      []string  `json:"paragraphs"`
    ListItems       []string  `json:"list_items"`
    RawText         string    `json:"raw_text"`
    OutboundLinks   []string  `json:"outbound_links"`
    PaginationLinks []string  `json:"pagination_links"`
    FetchedAt       time.Time `json:"fetched_at"`
}

// HasContent reports whether the snapshot carries at least one
// non-empty content block.
func (s *PageSnapshot) HasContent() bool {
    if s == nil {
        return false
    }
    return len(s.Paragraphs) > 0 || len(s.ListItems) > 0 || len(s.Headings) > 0
}

// PageType classifies the role a page plays on a business site.
type PageType string

const (
    PageTypeHomepage PageType = "homepage"
    PageTypeAbout    PageType = "about"
    PageTypeService  PageType = "service"
    PageTypeProduct  PageType = "product"
    PageTypeBlog     PageType = "blog"
    PageTypeContact  PageType = "contact"
    PageTypeOther    PageType = "other"
)

// DiscoverySource identifies which strategy found a URL.
type DiscoverySource string

const (
    SourceCrawl   DiscoverySource = "crawl"
    SourcePattern DiscoverySource = "pattern"
    SourceSitemap DiscoverySource = "sitemap"
)

// DiscoveredPage is one deduplicated entry in the aggregated URL set.
// Sources records every strategy that found the URL, in the order the
// aggregator saw them.
type DiscoveredPage struct {
    CanonicalURL string
    Sources      []DiscoverySource
    Snapshot     *PageSnapshot
}

// HasSource reports whether the page was found by the given strategy.
func (p *DiscoveredPage) HasSource(source DiscoverySource) bool {
    for _, s := range p.Sources {
        if s == source {
            return true
        }
    }
    return false
}

// AddSource appends a discovery source once, preserving order.
func (p *DiscoveredPage) AddSource(source DiscoverySource) {
    if !p.HasSource(source) {
        p.Sources = append(p.Sources, source)
    }
}

// LinkOpportunity describes how a discovered page may be used as an
// internal link target. Field names are the persisted artifact
// contract consumed by the content-generation stage.
type LinkOpportunity struct {
    URL                 string   `json:"url" csv:"url"`
    Title               string   `json:"title" csv:"title"`
    PageType            PageType `json:"pageType" csv:"pageType"`
    UsageNotes          string   `json:"usageNotes" csv:"usageNotes"`
    SuggestedAnchorText []string `json:"suggestedAnchorText" csv:"-"`
    ContextualRelevance string   `json:"contextualRelevance" csv:"contextualRelevance"`
    PriorityScore       int      `json:"priorityScore" csv:"priorityScore"`
}
