package segment

import (
	"errors"
	"strings"
	"testing"
)

// wordCount is the deterministic counter used throughout the tests: one
// token per whitespace-separated word.
func wordCount(s string) (int, error) {
	return len(strings.Fields(s)), nil
}

func opts(chunkSize, overlap int) Options {
	return Options{ChunkSize: chunkSize, Overlap: overlap, Count: wordCount}
}

func TestSegment_OptionValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"zero chunk size", Options{ChunkSize: 0, Overlap: 0, Count: wordCount}},
		{"negative chunk size", Options{ChunkSize: -5, Overlap: 0, Count: wordCount}},
		{"negative overlap", Options{ChunkSize: 10, Overlap: -1, Count: wordCount}},
		{"overlap equals chunk size", Options{ChunkSize: 10, Overlap: 10, Count: wordCount}},
		{"overlap above chunk size", Options{ChunkSize: 10, Overlap: 11, Count: wordCount}},
		{"missing count func", Options{ChunkSize: 10, Overlap: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Segment("some text", TypeText, tt.opts)
			if !errors.Is(err, ErrBadOptions) {
				t.Fatalf("expected ErrBadOptions, got %v", err)
			}
		})
	}
}

func TestSegment_EmptyInput(t *testing.T) {
	for _, ft := range []FileType{TypeMarkdown, TypeGo, TypeText} {
		chunks, err := Segment("", ft, opts(100, 10))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", ft, err)
		}
		if len(chunks) != 0 {
			t.Fatalf("%s: expected 0 chunks for empty input, got %d", ft, len(chunks))
		}
	}
}

func TestSegmentMarkdown_SingleChunkHeaderContext(t *testing.T) {
	chunks, err := Segment("# A\n\npara1\n\n## B\n\npara2", TypeMarkdown, opts(1000, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if got := chunks[0].Metadata[MetaHeaderContext]; got != "# A > ## B" {
		t.Errorf("header context = %q, want %q", got, "# A > ## B")
	}
	if !strings.Contains(chunks[0].Content, "para1") || !strings.Contains(chunks[0].Content, "para2") {
		t.Errorf("chunk content missing paragraphs: %q", chunks[0].Content)
	}
}

func TestSegmentMarkdown_HeaderStackPops(t *testing.T) {
	text := "# A\n\none\n\n## B\n\ntwo\n\n### C\n\nthree\n\n## D\n\nfour"
	chunks, err := Segment(text, TypeMarkdown, opts(1000, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	// "## D" pops "### C" and "## B" before being pushed.
	if got := chunks[0].Metadata[MetaHeaderContext]; got != "# A > ## D" {
		t.Errorf("header context = %q, want %q", got, "# A > ## D")
	}
}

func TestSegmentMarkdown_ClosesAtBudgetWithOverlap(t *testing.T) {
	// Each span is 4 words; budget 6 forces a close when the second span
	// arrives.
	text := "# One\n\nalpha beta gamma delta\n\n## Two\n\nepsilon zeta eta theta"
	chunks, err := Segment(text, TypeMarkdown, opts(6, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Content != "alpha beta gamma delta" {
		t.Errorf("first chunk content = %q", chunks[0].Content)
	}
	// The close happens while the second span is being appended, so the
	// closing context already includes its header.
	if got := chunks[0].Metadata[MetaHeaderContext]; got != "# One > ## Two" {
		t.Errorf("first chunk context = %q, want %q", got, "# One > ## Two")
	}
	// The next buffer is seeded with the closed chunk's trailing 2 words.
	if !strings.HasPrefix(chunks[1].Content, "gamma delta") {
		t.Errorf("second chunk missing overlap prefix: %q", chunks[1].Content)
	}
	if !strings.Contains(chunks[1].Content, "epsilon zeta eta theta") {
		t.Errorf("second chunk missing its span: %q", chunks[1].Content)
	}
}

func TestSegmentMarkdown_ZeroOverlap(t *testing.T) {
	text := "# One\n\nalpha beta gamma delta\n\n## Two\n\nepsilon zeta eta theta"
	chunks, err := Segment(text, TypeMarkdown, opts(6, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[1].Content != "epsilon zeta eta theta" {
		t.Errorf("second chunk should carry no overlap, got %q", chunks[1].Content)
	}
}

func TestSegmentMarkdown_ShortChunkSeedsWhole(t *testing.T) {
	// First span has fewer words than the overlap, so the whole closed
	// chunk becomes the seed.
	text := "# H\n\nalpha beta\n\n## I\n\ngamma delta epsilon zeta"
	chunks, err := Segment(text, TypeMarkdown, opts(5, 3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if !strings.HasPrefix(chunks[1].Content, chunks[0].Content) {
		t.Errorf("second chunk prefix %q should equal all of first chunk %q", chunks[1].Content, chunks[0].Content)
	}
}

func TestSegmentMarkdown_WhitespaceSpansDropped(t *testing.T) {
	chunks, err := Segment("# A\n\n   \n\t\n\n## B\n\ncontent here", TypeMarkdown, opts(100, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	// The blank span under "# A" must not produce a chunk, but "# A" still
	// participates in the header stack.
	if got := chunks[0].Metadata[MetaHeaderContext]; got != "# A > ## B" {
		t.Errorf("header context = %q, want %q", got, "# A > ## B")
	}
}

func TestSegment_OversizedUnitEmittedWhole(t *testing.T) {
	big := strings.Repeat("word ", 50)
	text := "tiny lead\n\n" + strings.TrimSpace(big) + "\n\ntiny tail"
	chunks, err := Segment(text, TypeText, opts(10, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var found bool
	for _, ch := range chunks {
		if n, _ := wordCount(ch.Content); n >= 50 {
			found = true
			if strings.Count(ch.Content, "word") != 50 {
				t.Errorf("oversized unit was truncated: %d words", strings.Count(ch.Content, "word"))
			}
		}
	}
	if !found {
		t.Fatalf("oversized paragraph was not emitted as its own chunk")
	}
}

func TestSegmentText_Paragraphs(t *testing.T) {
	text := "alpha beta gamma\n\ndelta epsilon zeta\n\neta theta iota"
	chunks, err := Segment(text, TypeText, opts(4, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	// Overlap of one word joins consecutive chunks.
	if !strings.HasPrefix(chunks[1].Content, "gamma") {
		t.Errorf("second chunk missing overlap word: %q", chunks[1].Content)
	}
	if !strings.HasPrefix(chunks[2].Content, "zeta") {
		t.Errorf("third chunk missing overlap word: %q", chunks[2].Content)
	}
	for _, ch := range chunks {
		if _, ok := ch.Metadata[MetaHeaderContext]; ok {
			t.Errorf("flat text chunk should not carry header context")
		}
	}
}

func TestSegment_MetadataCopiedPerChunk(t *testing.T) {
	meta := map[string]string{"source": "doc.md"}
	text := "# A\n\nalpha beta gamma delta\n\n## B\n\nepsilon zeta eta theta"
	chunks, err := Segment(text, TypeMarkdown, Options{ChunkSize: 5, Overlap: 0, Metadata: meta, Count: wordCount})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}
	for _, ch := range chunks {
		if ch.Metadata["source"] != "doc.md" {
			t.Errorf("chunk missing caller metadata: %v", ch.Metadata)
		}
	}
	chunks[0].Metadata["source"] = "mutated"
	if chunks[1].Metadata["source"] != "doc.md" {
		t.Errorf("chunk metadata maps are shared between chunks")
	}
	if meta["source"] != "doc.md" {
		t.Errorf("caller metadata was mutated")
	}
}

func TestSegment_Deterministic(t *testing.T) {
	text := "# A\n\nalpha beta gamma delta epsilon\n\n## B\n\nzeta eta theta iota kappa"
	first, err := Segment(text, TypeMarkdown, opts(6, 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Segment(text, TypeMarkdown, opts(6, 2))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("run %d: %d chunks, first run had %d", i, len(again), len(first))
		}
		for j := range again {
			if again[j].Content != first[j].Content {
				t.Fatalf("run %d chunk %d differs", i, j)
			}
		}
	}
}
