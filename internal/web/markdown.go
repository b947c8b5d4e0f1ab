package web

import (
	"bytes"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	gmutil "github.com/yuin/goldmark/util"
)

// Diary content is Markdown; fenced code blocks are highlighted inline so
// the rendered HTML needs no stylesheet support.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		renderer.WithNodeRenderers(gmutil.Prioritized(&codeBlockRenderer{}, 100)),
	),
)

func renderMarkdown(content string) (string, error) {
	var b strings.Builder
	if err := mdRenderer.Convert([]byte(content), &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

type codeBlockRenderer struct{}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCode)
}

func (r *codeBlockRenderer) renderFencedCode(w gmutil.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	block := node.(*ast.FencedCodeBlock)

	var code bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		code.Write(segment.Value(source))
	}

	lexer := lexers.Get(string(block.Language(source)))
	if lexer == nil {
		lexer = lexers.Fallback
	}
	tokens, err := lexer.Tokenise(nil, code.String())
	if err != nil {
		return ast.WalkStop, err
	}
	formatter := chromahtml.New(chromahtml.WithClasses(false))
	if err := formatter.Format(w, styles.Get("github"), tokens); err != nil {
		return ast.WalkStop, err
	}
	return ast.WalkSkipChildren, nil
}
