// Package service composes the segmentation engine, the embedder, the vector
// store and the completion model into the two application operations:
// ingesting a documentation tree and answering a question about it.
package service

import (
	"context"
	"fmt"
	"strings"

	"docqa/internal/domain"
)

const (
	systemPrompt = "You are a documentation assistant that provides accurate, helpful answers based solely on the provided documentation."

	answerNotIndexed = "The documentation index is not available yet or could not be queried. Please run the indexing process first."
	answerNoResults  = "I couldn't find any relevant information in the documentation. Please try rephrasing your question."

	previewRunes = 200
)

// Assistant answers natural-language questions from the indexed documentation.
type Assistant struct {
	embedder  domain.Embedder
	completer domain.Completer
	store     domain.VectorStore
}

// NewAssistant wires the collaborators of one question-answering turn.
func NewAssistant(embedder domain.Embedder, completer domain.Completer, store domain.VectorStore) *Assistant {
	return &Assistant{embedder: embedder, completer: completer, store: store}
}

// Answer runs one retrieval-augmented turn. An unpopulated store or a failing
// embedder yields a degraded answer with no sources rather than an error; a
// completion failure propagates to the caller. No retries are attempted.
func (a *Assistant) Answer(ctx context.Context, question string, k int) (domain.Answer, error) {
	if k <= 0 {
		k = 5
	}
	if a.store.Len() == 0 {
		return domain.Answer{Text: answerNotIndexed}, nil
	}
	vectors, err := a.embedder.Embed(ctx, []string{question})
	if err != nil || len(vectors) != 1 {
		return domain.Answer{Text: answerNotIndexed}, nil
	}
	results, err := a.store.Search(vectors[0], k)
	if err != nil {
		return domain.Answer{Text: answerNotIndexed}, nil
	}
	if len(results) == 0 {
		return domain.Answer{Text: answerNoResults}, nil
	}

	text, err := a.completer.Complete(ctx, systemPrompt, buildPrompt(question, results))
	if err != nil {
		return domain.Answer{}, err
	}
	sources := make([]domain.Source, len(results))
	for i, r := range results {
		sources[i] = domain.Source{
			Content:  preview(r.Content),
			Metadata: r.Metadata,
			Score:    r.Score,
		}
	}
	return domain.Answer{Text: text, Sources: sources}, nil
}

func buildPrompt(question string, results []domain.ScoredDocument) string {
	var context strings.Builder
	for i, r := range results {
		if i > 0 {
			context.WriteString("\n\n")
		}
		fmt.Fprintf(&context, "Source %d: %s", i+1, r.Content)
	}
	return fmt.Sprintf(`Answer the following question based on the provided documentation chunks.
If the answer is not contained in the documentation, say "I don't know" or "I couldn't find information about that in the documentation."
Do not make up or infer information that is not explicitly stated in the documentation.

Documentation chunks:
%s

Question: %s

Answer:`, context.String(), question)
}

// preview truncates chunk content to the first 200 runes, marking the cut
// with an ellipsis.
func preview(s string) string {
	runes := []rune(s)
	if len(runes) <= previewRunes {
		return s
	}
	return string(runes[:previewRunes]) + "..."
}
