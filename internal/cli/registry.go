package cli

import (
	"github.com/codectx/codectx/internal/analyzer"
	"github.com/codectx/codectx/internal/analyzer/csharp"
	"github.com/codectx/codectx/internal/analyzer/java"
	"github.com/codectx/codectx/internal/analyzer/javascript"
	"github.com/codectx/codectx/internal/analyzer/python"
	"github.com/codectx/codectx/internal/analyzer/text"
)

// buildRegistry registers every built-in analyzer under its extensions.
func buildRegistry(warn func(format string, args ...any)) *analyzer.Registry {
	r := analyzer.NewRegistry(warn)

	register := func(lang analyzer.Language, factory analyzer.Factory) {
		r.Register(lang, factory, analyzer.FileExtensions[lang]...)
	}

	register(analyzer.LangPython, func() analyzer.Analyzer { return python.NewAnalyzer() })
	register(analyzer.LangJavaScript, func() analyzer.Analyzer { return javascript.NewAnalyzer() })
	register(analyzer.LangTypeScript, func() analyzer.Analyzer { return javascript.NewTypeScript() })
	register(analyzer.LangJava, func() analyzer.Analyzer { return java.NewAnalyzer() })
	register(analyzer.LangCSharp, func() analyzer.Analyzer { return csharp.NewAnalyzer() })
	register(analyzer.LangText, func() analyzer.Analyzer { return text.NewAnalyzer() })

	return r
}
