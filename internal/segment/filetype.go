package segment

import (
	"path/filepath"
	"strings"
)

// FileType classifies a source file for strategy dispatch and metadata.
type FileType string

const (
	TypeMarkdown   FileType = "markdown"
	TypeGo         FileType = "go"
	TypePython     FileType = "python"
	TypeJavaScript FileType = "javascript"
	TypeTypeScript FileType = "typescript"
	TypeJava       FileType = "java"
	TypeC          FileType = "c"
	TypeCPP        FileType = "cpp"
	TypeRust       FileType = "rust"
	TypeCSV        FileType = "csv"
	TypeTSV        FileType = "tsv"
	TypePDF        FileType = "pdf"
	TypeText       FileType = "text"
)

var extTypes = map[string]FileType{
	".md":       TypeMarkdown,
	".markdown": TypeMarkdown,
	".go":       TypeGo,
	".py":       TypePython,
	".js":       TypeJavaScript,
	".jsx":      TypeJavaScript,
	".ts":       TypeTypeScript,
	".tsx":      TypeTypeScript,
	".java":     TypeJava,
	".c":        TypeC,
	".h":        TypeC,
	".cpp":      TypeCPP,
	".cc":       TypeCPP,
	".hpp":      TypeCPP,
	".rs":       TypeRust,
	".csv":      TypeCSV,
	".tsv":      TypeTSV,
	".pdf":      TypePDF,
	".txt":      TypeText,
}

// Classify maps a file path to its type tag. Unknown extensions map to
// TypeText.
func Classify(path string) FileType {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := extTypes[ext]; ok {
		return t
	}
	return TypeText
}

// IsCode reports whether the type dispatches to the code strategy.
func (t FileType) IsCode() bool {
	switch t {
	case TypeGo, TypePython, TypeJavaScript, TypeTypeScript, TypeJava, TypeC, TypeCPP, TypeRust:
		return true
	}
	return false
}
