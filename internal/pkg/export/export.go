// Package export writes the crawl artifacts consumed by the content
// generation and editing stages. Array order in every artifact is the
// ranking contract and is preserved exactly.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"

	"linkscout/internal/pkg/types"
)

// csvRecord flattens a LinkOpportunity for CSV output. The anchor list
// is joined because CSV has no nested fields.
type csvRecord struct {
	URL                 string `csv:"url"`
	Title               string `csv:"title"`
	PageType            string `csv:"pageType"`
	UsageNotes          string `csv:"usageNotes"`
	SuggestedAnchorText string `csv:"suggestedAnchorText"`
	ContextualRelevance string `csv:"contextualRelevance"`
	PriorityScore       int    `csv:"priorityScore"`
}

// WriteJSON persists the ranked opportunity list as a JSON array.
func WriteJSON(path string, opportunities []types.LinkOpportunity) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(opportunities); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// WriteCSV persists the ranked opportunity list as CSV.
func WriteCSV(path string, opportunities []types.LinkOpportunity) error {
	records := make([]*csvRecord, 0, len(opportunities))
	for _, opp := range opportunities {
		records = append(records, &csvRecord{
			URL:                 opp.URL,
			Title:               opp.Title,
			PageType:            string(opp.PageType),
			UsageNotes:          opp.UsageNotes,
			SuggestedAnchorText: strings.Join(opp.SuggestedAnchorText, "; "),
			ContextualRelevance: opp.ContextualRelevance,
			PriorityScore:       opp.PriorityScore,
		})
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&records, file); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// WriteURLList persists one canonical URL per line in ranked order.
// The next pipeline stage consumes this flat list directly.
func WriteURLList(path string, opportunities []types.LinkOpportunity) error {
	var sb strings.Builder
	for _, opp := range opportunities {
		sb.WriteString(opp.URL)
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteAll writes every artifact into outDir, creating it if needed.
func WriteAll(outDir string, opportunities []types.LinkOpportunity) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", outDir, err)
	}
	if err := WriteJSON(filepath.Join(outDir, "link_opportunities.json"), opportunities); err != nil {
		return err
	}
	if err := WriteCSV(filepath.Join(outDir, "link_opportunities.csv"), opportunities); err != nil {
		return err
	}
	return WriteURLList(filepath.Join(outDir, "site_urls.txt"), opportunities)
}
