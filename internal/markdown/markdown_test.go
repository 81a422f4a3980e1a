package markdown

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	out := ToHTML("# Title\n\nSome *text*.")
	if !strings.Contains(out, "<h1") || !strings.Contains(out, "<em>text</em>") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestToHTMLStripsRawHTML(t *testing.T) {
	out := ToHTML("hello <script>alert(1)</script> world")
	if strings.Contains(out, "<script>") {
		t.Fatalf("raw html passed through: %q", out)
	}
}

func TestToHTMLEmpty(t *testing.T) {
	if out := ToHTML(""); strings.TrimSpace(out) != "" {
		t.Fatalf("empty input should render empty, got %q", out)
	}
}
