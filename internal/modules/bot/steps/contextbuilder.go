package steps

import (
	"fmt"
	"strings"

	"github.com/opendoorspartners/odp-backend/internal/data/repos"
	"github.com/opendoorspartners/odp-backend/internal/modules/bot/config"
)

// Source is one de-duplicated document reference in the API response.
type Source struct {
	DocumentName string `json:"document_name"`
	Relevance    string `json:"relevance"`
	Preview      string `json:"preview"`
	PageNumber   *int   `json:"page_number,omitempty"`
}

// BuildChunkContext formats retrieved chunks for the LLM prompt as numbered
// Document entries with source tags. Empty string when nothing was found.
func BuildChunkContext(chunks []repos.ChunkHit) string {
	if len(chunks) == 0 {
		return ""
	}
	parts := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		source := fmt.Sprintf("[Source: %s", chunk.DocName)
		if chunk.PageNumber != nil {
			source += fmt.Sprintf(", Page %d", *chunk.PageNumber)
		}
		source += fmt.Sprintf(", Relevance: %s]", formatPercent(chunk.Similarity))
		parts = append(parts, fmt.Sprintf("Document %d:\n%s\n%s\n", i+1, source, chunk.ChunkText))
	}
	return strings.Join(parts, "\n---\n")
}

// ExtractSources returns one source entry per distinct document, preserving
// result order.
func ExtractSources(chunks []repos.ChunkHit) []Source {
	sources := make([]Source, 0, len(chunks))
	seen := map[string]struct{}{}
	for _, chunk := range chunks {
		if _, dup := seen[chunk.DocName]; dup {
			continue
		}
		seen[chunk.DocName] = struct{}{}

		preview := chunk.ChunkText
		if len(preview) > config.SourcePreviewMaxLength {
			preview = preview[:config.SourcePreviewMaxLength] + "..."
		}
		sources = append(sources, Source{
			DocumentName: chunk.DocName,
			Relevance:    formatPercent(chunk.Similarity),
			Preview:      preview,
			PageNumber:   chunk.PageNumber,
		})
	}
	return sources
}

// CalculateConfidence maps average chunk similarity to a tier.
func CalculateConfidence(chunks []repos.ChunkHit) string {
	if len(chunks) == 0 {
		return "low"
	}
	var total float64
	for _, chunk := range chunks {
		total += chunk.Similarity
	}
	avg := total / float64(len(chunks))
	switch {
	case avg >= config.ConfidenceHighThreshold:
		return "high"
	case avg >= config.ConfidenceMediumThreshold:
		return "medium"
	default:
		return "low"
	}
}

func formatPercent(similarity float64) string {
	return fmt.Sprintf("%.2f%%", similarity*100)
}
