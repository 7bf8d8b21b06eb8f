// Package analyzer defines the language-analysis capability shared by all
// language variants, the result types they produce, and the registry that
// dispatches file extensions to analyzers.
package analyzer

// Language identifies a supported analyzer variant.
type Language string

const (
	LangPython     Language = "python"
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangJava       Language = "java"
	LangCSharp     Language = "csharp"
	LangText       Language = "text"
)

// FileExtensions maps each language to its recognized file extensions.
var FileExtensions = map[Language][]string{
	LangPython:     {".py", ".pyi"},
	LangJavaScript: {".js", ".jsx", ".mjs", ".cjs"},
	LangTypeScript: {".ts", ".tsx"},
	LangJava:       {".java"},
	LangCSharp:     {".cs", ".cshtml", ".razor", ".csx", ".vb", ".fs", ".fsx", ".xaml", ".aspx", ".ascx", ".master"},
	LangText:       {".txt", ".md", ".rst", ".log"},
}

// Analyzer is the per-language analysis capability. Implementations are
// stateless: a fresh instance per file and a shared instance behave the same.
type Analyzer interface {
	// Language returns which language this analyzer handles.
	Language() Language

	// Extensions returns the file extensions this analyzer can handle.
	Extensions() []string

	// Clean removes comments and blank lines from content. It never fails:
	// on malformed input it falls back to best-effort regex stripping and
	// still returns a (possibly empty) string.
	Clean(content string) string

	// Analyze extracts structural metadata from content. Internal errors are
	// converted into a failure Result; Analyze never panics.
	Analyze(content string) Result
}
