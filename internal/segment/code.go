package segment

import (
	"regexp"
	"strings"

	"docqa/internal/domain"
)

// MetaCodeContext is the metadata key carrying the enclosing declaration of a
// code chunk, e.g. "Function: func (s *Store) Add(...) error {".
const MetaCodeContext = "code_context"

// codePatterns detects the declaration lines that update the current context
// label while scanning a source file.
type codePatterns struct {
	function *regexp.Regexp
	class    *regexp.Regexp
	imports  *regexp.Regexp
}

var langPatterns = map[FileType]codePatterns{
	TypeGo: {
		function: regexp.MustCompile(`^\s*func\s`),
		class:    regexp.MustCompile(`^\s*type\s+\w+\s+(struct|interface)\b`),
		imports:  regexp.MustCompile(`^\s*import\b`),
	},
	TypePython: {
		function: regexp.MustCompile(`^\s*(async\s+)?def\s+\w+`),
		class:    regexp.MustCompile(`^\s*class\s+\w+`),
		imports:  regexp.MustCompile(`^\s*(import|from)\s+\w`),
	},
	TypeJavaScript: {
		function: regexp.MustCompile(`^\s*(export\s+)?(async\s+)?function\s|^\s*(const|let)\s+\w+\s*=\s*(async\s+)?\(`),
		class:    regexp.MustCompile(`^\s*(export\s+)?class\s+\w+`),
		imports:  regexp.MustCompile(`^\s*import\b|^\s*const\s+\w+\s*=\s*require\(`),
	},
	TypeTypeScript: {
		function: regexp.MustCompile(`^\s*(export\s+)?(async\s+)?function\s|^\s*(const|let)\s+\w+\s*=\s*(async\s+)?\(`),
		class:    regexp.MustCompile(`^\s*(export\s+)?(abstract\s+)?class\s+\w+`),
		imports:  regexp.MustCompile(`^\s*import\b`),
	},
}

// defaultPatterns covers languages without a dedicated pattern set.
var defaultPatterns = codePatterns{
	function: regexp.MustCompile(`^\s*(func|def|function|fn)\s`),
	class:    regexp.MustCompile(`^\s*(class|struct)\s+\w+`),
	imports:  regexp.MustCompile(`^\s*(import|from|use|#include)\b`),
}

// segmentCode scans the file line by line. Declaration lines overwrite a
// single current-context label; there is no stack and prior content is never
// relabeled. Overlap is measured in trailing lines.
func segmentCode(text string, lang FileType, opts Options) ([]domain.Chunk, error) {
	patterns, ok := langPatterns[lang]
	if !ok {
		patterns = defaultPatterns
	}
	acc := &accumulator{opts: opts, sep: "\n", tail: tailLines, ctxKey: MetaCodeContext}
	context := ""
	for _, line := range strings.Split(text, "\n") {
		switch {
		case patterns.function.MatchString(line):
			context = "Function: " + strings.TrimSpace(line)
		case patterns.class.MatchString(line):
			context = "Class: " + strings.TrimSpace(line)
		case patterns.imports.MatchString(line):
			context = "Import: " + strings.TrimSpace(line)
		}
		if err := acc.add(line, context); err != nil {
			return nil, err
		}
	}
	acc.flush(context)
	return acc.chunks, nil
}
