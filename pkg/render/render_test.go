package render

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

const testDOT = `digraph DJ {
  "a" [label="a\nlevel 0"];
  "b" [label="b\nlevel 1"];
  "a" -> "b" [style=solid];
  "b" -> "a" [style=dashed];
}
`

func TestSVG(t *testing.T) {
	svg, err := SVG(context.Background(), testDOT)
	if err != nil {
		t.Fatalf("SVG() = %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Errorf("SVG() output missing <svg tag")
	}
	if !strings.Contains(string(svg), "level 0") {
		t.Errorf("SVG() output missing vertex label")
	}
}

func TestPNG(t *testing.T) {
	png, err := PNG(context.Background(), testDOT)
	if err != nil {
		t.Fatalf("PNG() = %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("PNG() output missing PNG magic bytes")
	}
}

func TestSVG_MalformedDOT(t *testing.T) {
	if _, err := SVG(context.Background(), "digraph {"); err == nil {
		t.Errorf("SVG() on malformed DOT = nil error")
	}
}
