package segment

import (
	"regexp"
	"strings"

	"docqa/internal/domain"
)

var paragraphRe = regexp.MustCompile(`\n[ \t]*\n+`)

// segmentText treats paragraphs (maximal runs of non-blank lines) as atomic
// units. Same accumulation shape as the markdown strategy, but no structural
// context is tracked.
func segmentText(text string, opts Options) ([]domain.Chunk, error) {
	acc := &accumulator{opts: opts, sep: "\n\n", tail: tailWords}
	for _, para := range paragraphRe.Split(text, -1) {
		if err := acc.add(strings.TrimSpace(para), ""); err != nil {
			return nil, err
		}
	}
	acc.flush("")
	return acc.chunks, nil
}
