package segment

import (
	"regexp"
	"strings"

	"docqa/internal/domain"
)

// MetaHeaderContext is the metadata key carrying the header breadcrumb of a
// markdown chunk, e.g. "# Guide > ## Install".
const MetaHeaderContext = "header_context"

var headerRe = regexp.MustCompile(`(?m)^#{1,6}[ \t]+[^\n]*`)

type header struct {
	level int
	text  string
}

// segmentMarkdown partitions the document at ATX headers of levels 1-6 and
// accumulates the content spans between them. A running header stack tracks
// the section path: a header of level L pops all entries of level >= L before
// being pushed, so the stack depth is strictly increasing bottom to top.
func segmentMarkdown(text string, opts Options) ([]domain.Chunk, error) {
	acc := &accumulator{opts: opts, sep: "\n\n", tail: tailWords, ctxKey: MetaHeaderContext}
	var stack []header
	context := func() string {
		parts := make([]string, len(stack))
		for i, h := range stack {
			parts[i] = h.text
		}
		return strings.Join(parts, " > ")
	}

	pos := 0
	for _, loc := range headerRe.FindAllStringIndex(text, -1) {
		span := strings.TrimSpace(text[pos:loc[0]])
		if err := acc.add(span, context()); err != nil {
			return nil, err
		}
		h := strings.TrimSpace(text[loc[0]:loc[1]])
		level := headerLevel(h)
		for len(stack) > 0 && stack[len(stack)-1].level >= level {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, header{level: level, text: h})
		pos = loc[1]
	}
	if err := acc.add(strings.TrimSpace(text[pos:]), context()); err != nil {
		return nil, err
	}
	acc.flush(context())
	return acc.chunks, nil
}

func headerLevel(h string) int {
	return len(h) - len(strings.TrimLeft(h, "#"))
}
