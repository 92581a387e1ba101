package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rfielding/lambda-beta/expr"
	"github.com/rfielding/lambda-beta/lambda"
	"github.com/rfielding/lambda-beta/syntax"
)

func TestGraphvizGeneration(t *testing.T) {
	e := syntax.MustParse[expr.Boxed](`(\x. x y) z`)
	dot := GenerateGraphviz(e)

	if !strings.Contains(dot, "digraph Term") {
		t.Error("Expected digraph declaration")
	}
	if !strings.Contains(dot, `n0 [label="@"]`) {
		t.Error("Expected application at the root")
	}
	if !strings.Contains(dot, `n0 -> n1 [label="fun"]`) || !strings.Contains(dot, `n0 -> n2 [label="arg"]`) {
		t.Error("Expected fun and arg edges from the root")
	}
	if !strings.Contains(dot, `n1 [label="λx"]`) {
		t.Error("Expected abstraction node")
	}
	if !strings.Contains(dot, `n2 [label="z", shape=plaintext]`) {
		t.Error("Expected free variable leaf")
	}
}

func TestGraphvizBinderEdges(t *testing.T) {
	e := syntax.MustParse[expr.Local](`\x. \x. x`)
	dot := GenerateGraphviz(e)
	if !strings.Contains(dot, "n2 -> n1 [style=dashed") {
		t.Errorf("Expected the variable to point at the inner binder, got:\n%s", dot)
	}
	if strings.Contains(dot, "n2 -> n0 [style=dashed") {
		t.Error("Expected the shadowed outer binder to be skipped")
	}

	free := GenerateGraphviz(syntax.MustParse[expr.Boxed](`(\y. y) y`))
	if strings.Count(free, "style=dashed") != 1 {
		t.Errorf("Expected only the bound y to get a binder edge, got:\n%s", free)
	}
}

func TestSaveGraphviz(t *testing.T) {
	path := filepath.Join(t.TempDir(), "term.dot")
	e := lambda.ChurchNumeral[expr.Boxed](2)
	if err := SaveGraphviz(e, path); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Expected file to exist, got %v", err)
	}
	if string(data) != GenerateGraphviz(e) {
		t.Error("Expected file contents to match the rendering")
	}
}
