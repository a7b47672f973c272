package classify

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/veridian-labs/corpusit/core"
)

type entry struct {
	kind  core.FileKind
	label string
}

// table is the single source of truth for extension classification.
// Every extension maps to exactly one kind; extensions absent from the table
// are Unsupported. Skip entries live in the same table so an extension can
// never be both ingestible and skipped.
var table = map[string]entry{
	// Documentation and text
	".pdf":  {core.KindPDF, "PDF Document"},
	".txt":  {core.KindPlainText, "Text File"},
	".md":   {core.KindMarkup, "Markdown"},
	".adoc": {core.KindMarkup, "AsciiDoc"},

	// Embedded code
	".ino": {core.KindSourceCode, "Arduino Code"},
	".pde": {core.KindSourceCode, "Processing Code"},

	// C/C++
	".cpp": {core.KindSourceCode, "C++ Code"},
	".c":   {core.KindSourceCode, "C Code"},
	".h":   {core.KindSourceCode, "Header File"},
	".hpp": {core.KindSourceCode, "C++ Header"},

	// Python, Java, shell
	".py":   {core.KindSourceCode, "Python Code"},
	".java": {core.KindSourceCode, "Java Code"},
	".sh":   {core.KindSourceCode, "Shell Script"},

	// Configuration and data
	".json":       {core.KindConfigData, "JSON Data"},
	".csv":        {core.KindConfigData, "CSV Data"},
	".yaml":       {core.KindConfigData, "YAML Config"},
	".yml":        {core.KindConfigData, "YAML Config"},
	".properties": {core.KindConfigData, "Properties Config"},

	// Binary formats, deliberately skipped
	".sb3":  {core.KindBinarySkip, "Scratch Project"},
	".jpg":  {core.KindBinarySkip, "Image"},
	".png":  {core.KindBinarySkip, "Image"},
	".svg":  {core.KindBinarySkip, "Vector Image"},
	".webm": {core.KindBinarySkip, "Video"},
	".gz":   {core.KindBinarySkip, "Archive"},
	".tar":  {core.KindBinarySkip, "Archive"},
	".jar":  {core.KindBinarySkip, "Java Archive"},
	".fzz":  {core.KindBinarySkip, "Fritzing"},
	".vlw":  {core.KindBinarySkip, "Font"},
	".ttf":  {core.KindBinarySkip, "Font"},

	// Git object internals
	".idx":  {core.KindBinarySkip, "Git Object"},
	".pack": {core.KindBinarySkip, "Git Object"},
	".rev":  {core.KindBinarySkip, "Git Object"},
}

// Classify maps a file path's extension to its FileKind.
// The extension is read case-insensitively. Never fails: unmapped extensions
// classify as Unsupported.
func Classify(path string) core.FileKind {
	e, ok := table[ext(path)]
	if !ok {
		return core.KindUnsupported
	}
	return e.kind
}

// Label returns the human-readable type label for a file path,
// e.g. "PDF Document" or "Arduino Code". Unmapped extensions yield
// "Unsupported".
func Label(path string) string {
	e, ok := table[ext(path)]
	if !ok {
		return "Unsupported"
	}
	return e.label
}

// Extensions returns the sorted list of extensions of the given kind.
func Extensions(kind core.FileKind) []string {
	var exts []string
	for e, v := range table {
		if v.kind == kind {
			exts = append(exts, e)
		}
	}
	sort.Strings(exts)
	return exts
}

// All returns the sorted list of every mapped extension, skip set included.
func All() []string {
	exts := make([]string, 0, len(table))
	for e := range table {
		exts = append(exts, e)
	}
	sort.Strings(exts)
	return exts
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
