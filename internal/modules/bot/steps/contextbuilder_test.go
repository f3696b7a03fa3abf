package steps

import (
	"strings"
	"testing"

	"github.com/opendoorspartners/odp-backend/internal/data/repos"
)

func TestBuildChunkContext(t *testing.T) {
	page := 3
	chunks := []repos.ChunkHit{
		{ChunkText: "The minimum ticket is $25K.", DocName: "SpaceX Deck.pdf", Similarity: 0.91, PageNumber: &page},
		{ChunkText: "Payment is due at close.", DocName: "Terms.pdf", Similarity: 0.7},
	}

	got := BuildChunkContext(chunks)
	if !strings.Contains(got, "Document 1:\n[Source: SpaceX Deck.pdf, Page 3, Relevance: 91.00%]\nThe minimum ticket is $25K.") {
		t.Errorf("first entry format wrong:\n%s", got)
	}
	if !strings.Contains(got, "Document 2:\n[Source: Terms.pdf, Relevance: 70.00%]") {
		t.Errorf("pageless entry must omit the Page tag:\n%s", got)
	}
	if !strings.Contains(got, "\n---\n") {
		t.Error("entries must be separated by ---")
	}

	if BuildChunkContext(nil) != "" {
		t.Error("no chunks must yield empty context")
	}
}

func TestExtractSources(t *testing.T) {
	long := strings.Repeat("a", 250)
	chunks := []repos.ChunkHit{
		{ChunkText: long, DocName: "Deck.pdf", Similarity: 0.9},
		{ChunkText: "second chunk from same doc", DocName: "Deck.pdf", Similarity: 0.8},
		{ChunkText: "short", DocName: "Terms.pdf", Similarity: 0.6},
	}

	sources := ExtractSources(chunks)
	if len(sources) != 2 {
		t.Fatalf("got %d sources, want 2 after dedupe", len(sources))
	}
	if sources[0].DocumentName != "Deck.pdf" || sources[1].DocumentName != "Terms.pdf" {
		t.Errorf("order not preserved: %+v", sources)
	}
	if len(sources[0].Preview) != 203 || !strings.HasSuffix(sources[0].Preview, "...") {
		t.Errorf("preview not truncated to 200 chars: len=%d", len(sources[0].Preview))
	}
	if sources[1].Preview != "short" {
		t.Errorf("short preview altered: %q", sources[1].Preview)
	}
	if sources[0].Relevance != "90.00%" {
		t.Errorf("relevance = %q", sources[0].Relevance)
	}
}

func TestCalculateConfidence(t *testing.T) {
	cases := []struct {
		name string
		sims []float64
		want string
	}{
		{"no chunks", nil, "low"},
		{"high average", []float64{0.9, 0.9}, "high"},
		{"boundary high", []float64{0.85}, "high"},
		{"medium", []float64{0.75, 0.7}, "medium"},
		{"low", []float64{0.6, 0.55}, "low"},
	}
	for _, tc := range cases {
		chunks := make([]repos.ChunkHit, 0, len(tc.sims))
		for _, sim := range tc.sims {
			chunks = append(chunks, repos.ChunkHit{Similarity: sim})
		}
		if got := CalculateConfidence(chunks); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}
