package text

import (
	"strings"
	"testing"
)

func TestAnalyzeStats(t *testing.T) {
	src := "Hello world. This is fine!\n\nSecond paragraph here.\n"
	res := NewAnalyzer().Analyze(src)
	if !res.Success {
		t.Fatalf("analysis failed: %s", res.Error)
	}
	if res.Text == nil {
		t.Fatal("expected text stats")
	}

	if res.Text.WordCount != 8 {
		t.Errorf("word count = %d, want 8", res.Text.WordCount)
	}
	if res.Text.SentenceCount != 3 {
		t.Errorf("sentence count = %d, want 3", res.Text.SentenceCount)
	}
	if res.Text.ParagraphCount != 2 {
		t.Errorf("paragraph count = %d, want 2", res.Text.ParagraphCount)
	}
	if res.Text.AvgSentenceLength != 2.67 {
		t.Errorf("avg sentence length = %v, want 2.67", res.Text.AvgSentenceLength)
	}
	if res.Text.AvgWordLength <= 0 {
		t.Errorf("avg word length = %v, want > 0", res.Text.AvgWordLength)
	}
}

func TestCleanNormalizes(t *testing.T) {
	src := "line one \r\nline two\t\r\n\r\nwith\x00nul\r\n"
	cleaned := NewAnalyzer().Clean(src)
	if strings.Contains(cleaned, "\r") || strings.Contains(cleaned, "\x00") {
		t.Errorf("clean left CR or NUL: %q", cleaned)
	}
	want := "line one\nline two\nwithnul"
	if cleaned != want {
		t.Errorf("cleaned = %q, want %q", cleaned, want)
	}
}

func TestComplexityFloor(t *testing.T) {
	res := NewAnalyzer().Analyze("plain words only\n")
	if res.Metrics.Complexity != 1 {
		t.Errorf("complexity = %d, want floor of 1", res.Metrics.Complexity)
	}
}

func TestComplexityScalesWithDensity(t *testing.T) {
	dense := strings.Repeat("x=1; y:=2! (alpha_beta_gamma) 12345 #tag. ", 10)
	res := NewAnalyzer().Analyze(dense)
	if res.Metrics.Complexity < 2 {
		t.Errorf("complexity = %d, want >= 2 for symbol-dense text", res.Metrics.Complexity)
	}
}

func TestIndentDepth(t *testing.T) {
	src := "top\n  nested\n    deeper\n"
	res := NewAnalyzer().Analyze(src)
	if res.Metrics.MaxDepth != 2 {
		t.Errorf("max depth = %d, want 2", res.Metrics.MaxDepth)
	}
}

func TestNoCommentLines(t *testing.T) {
	src := "# not a comment in plain text\n// neither is this\n"
	res := NewAnalyzer().Analyze(src)
	if res.Metrics.CommentLines != 0 {
		t.Errorf("comment lines = %d, want 0", res.Metrics.CommentLines)
	}
	if res.Metrics.LinesOfCode != 2 {
		t.Errorf("total lines = %d, want 2", res.Metrics.LinesOfCode)
	}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	res := NewAnalyzer().Analyze("")
	if !res.Success {
		t.Fatalf("empty input should degrade gracefully: %s", res.Error)
	}
	if res.Text == nil || res.Text.WordCount != 0 {
		t.Errorf("stats = %+v, want zeroed", res.Text)
	}
}
