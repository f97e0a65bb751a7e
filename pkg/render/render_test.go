package render

import (
	"strings"
	"testing"
)

func TestExplanation_Markdown(t *testing.T) {
	got, err := Explanation("src/main.go", "go", "It starts the program.", FormatMarkdown)
	if err != nil {
		t.Fatalf("Explanation() error = %v", err)
	}

	for _, want := range []string{
		"# Code Explanation",
		"## File: src/main.go",
		"## Language: go",
		"## Explanation",
		"It starts the program.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q:\n%s", want, got)
		}
	}
}

func TestExplanation_Plain(t *testing.T) {
	got, err := Explanation("src/main.go", "go", "It starts the program.", FormatPlain)
	if err != nil {
		t.Fatalf("Explanation() error = %v", err)
	}

	if strings.Contains(got, "#") {
		t.Errorf("plain report should not contain markdown headers:\n%s", got)
	}
	if !strings.Contains(got, "File: src/main.go") {
		t.Errorf("report missing file line:\n%s", got)
	}
	if !strings.Contains(got, "It starts the program.") {
		t.Errorf("report missing explanation:\n%s", got)
	}
}

func TestExplanation_UnsupportedFormat(t *testing.T) {
	_, err := Explanation("f", "go", "x", "html")
	if err == nil {
		t.Fatal("Explanation() expected error for unsupported format, got nil")
	}
}

func TestResponse_NilRendererPassthrough(t *testing.T) {
	var r *Renderer
	if got := r.Response("**bold**"); got != "**bold**" {
		t.Errorf("Response() = %q, want passthrough", got)
	}
}

func TestResponse_RendersMarkdown(t *testing.T) {
	r := NewRenderer(80)
	got := r.Response("hello")
	if !strings.Contains(got, "hello") {
		t.Errorf("Response() = %q, should contain the text", got)
	}
}
