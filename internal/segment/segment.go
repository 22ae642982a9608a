// Package segment splits raw document text into bounded, context-preserving
// chunks suitable for embedding. Three strategies (markdown, code, flat text)
// share one accumulate/close/overlap loop and differ only in what counts as a
// unit and which context string is attached.
package segment

import (
	"errors"
	"fmt"
	"strings"

	"docqa/internal/domain"
)

// ErrBadOptions reports invalid chunking configuration.
var ErrBadOptions = errors.New("invalid segmentation options")

// CountFunc measures the token size of a candidate buffer. The production
// wiring binds it to a tokenizer model; tests may supply word counts.
type CountFunc func(text string) (int, error)

// Options configures one Segment call.
type Options struct {
	// ChunkSize is the soft token budget per chunk. A single atomic unit
	// larger than the budget is emitted whole rather than split.
	ChunkSize int
	// Overlap is the number of trailing units (words or lines, per
	// strategy) of a closed chunk repeated at the start of the next one.
	Overlap int
	// Metadata is copied into every produced chunk before the structural
	// context is merged in.
	Metadata map[string]string
	Count    CountFunc
}

func (o Options) validate() error {
	if o.Count == nil {
		return fmt.Errorf("%w: count function is required", ErrBadOptions)
	}
	if o.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size %d, want > 0", ErrBadOptions, o.ChunkSize)
	}
	if o.Overlap < 0 {
		return fmt.Errorf("%w: overlap %d, want >= 0", ErrBadOptions, o.Overlap)
	}
	if o.Overlap >= o.ChunkSize {
		return fmt.Errorf("%w: overlap %d must be smaller than chunk size %d", ErrBadOptions, o.Overlap, o.ChunkSize)
	}
	return nil
}

// Segment splits text into an ordered sequence of chunks according to the
// strategy selected by fileType. The output is exactly reproducible for
// fixed inputs.
func Segment(text string, fileType FileType, opts Options) ([]domain.Chunk, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	switch {
	case fileType == TypeMarkdown:
		return segmentMarkdown(text, opts)
	case fileType.IsCode():
		return segmentCode(text, fileType, opts)
	default:
		return segmentText(text, opts)
	}
}

// accumulator runs the shared buffering loop: units are appended until the
// next append would exceed the budget, at which point the buffer is closed
// into a chunk and the next buffer is seeded with the closed buffer's tail.
type accumulator struct {
	opts   Options
	sep    string
	tail   func(s string, n int) string
	ctxKey string
	buf    string
	chunks []domain.Chunk
}

// add appends one atomic unit. context is the structural context current at
// the time of the call; it tags the buffer if this call closes it.
// Whitespace-only units are dropped.
func (a *accumulator) add(unit, context string) error {
	if strings.TrimSpace(unit) == "" {
		return nil
	}
	combined := unit
	if a.buf != "" {
		combined = a.buf + a.sep + unit
	}
	n, err := a.opts.Count(combined)
	if err != nil {
		return err
	}
	if n > a.opts.ChunkSize && a.buf != "" {
		closed := a.buf
		a.emit(closed, context)
		if seed := a.tail(closed, a.opts.Overlap); seed != "" {
			a.buf = seed + a.sep + unit
		} else {
			a.buf = unit
		}
		return nil
	}
	a.buf = combined
	return nil
}

// flush emits any residual buffer as the final chunk.
func (a *accumulator) flush(context string) {
	if strings.TrimSpace(a.buf) == "" {
		return
	}
	a.emit(a.buf, context)
	a.buf = ""
}

func (a *accumulator) emit(content, context string) {
	md := make(map[string]string, len(a.opts.Metadata)+1)
	for k, v := range a.opts.Metadata {
		md[k] = v
	}
	if a.ctxKey != "" {
		md[a.ctxKey] = context
	}
	a.chunks = append(a.chunks, domain.Chunk{Content: content, Metadata: md})
}

// tailWords returns the last n whitespace-separated words of s, or all of s
// when it has no more than n words.
func tailWords(s string, n int) string {
	if n <= 0 {
		return ""
	}
	words := strings.Fields(s)
	if len(words) <= n {
		return s
	}
	return strings.Join(words[len(words)-n:], " ")
}

// tailLines returns the last n lines of s, or all of s when it has no more
// than n lines.
func tailLines(s string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
