// Package markdown converts post sections from Markdown to HTML. Fenced
// code blocks carrying a language tag are syntax highlighted with chroma;
// an unknown tag is an error, not a silent fallback.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// LexerNotFoundError reports a fenced code block whose language tag has no
// registered syntax lexer.
type LexerNotFoundError struct {
	Language string
}

func (e *LexerNotFoundError) Error() string {
	return fmt.Sprintf("no syntax lexer for language %q", e.Language)
}

// Renderer converts Markdown to HTML. Raw HTML in the source passes
// through unchanged.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer builds a Renderer that highlights code with the named chroma
// style. An unknown style name falls back to chroma's default.
func NewRenderer(styleName string) *Renderer {
	cb := &codeBlockRenderer{
		Config: html.NewConfig(),
		style:  styles.Get(styleName),
	}
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
			renderer.WithNodeRenderers(
				util.Prioritized(cb, 200),
			),
		),
	)
	return &Renderer{md: md}
}

// Render converts one Markdown section to an HTML fragment.
func (r *Renderer) Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// codeBlockRenderer replaces goldmark's code block output. Tagged fences
// go through chroma with class-based styling; untagged fences and indented
// blocks render as escaped <pre><code>.
type codeBlockRenderer struct {
	html.Config
	style *chroma.Style
}

func (r *codeBlockRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
	reg.Register(ast.KindCodeBlock, r.renderCodeBlock)
}

func (r *codeBlockRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)
	lang := string(n.Language(source))
	if lang == "" {
		r.writePlain(w, source, n)
		return ast.WalkContinue, nil
	}
	if err := r.writeHighlighted(w, source, n, lang); err != nil {
		return ast.WalkStop, err
	}
	return ast.WalkContinue, nil
}

func (r *codeBlockRenderer) renderCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if entering {
		r.writePlain(w, source, node)
	}
	return ast.WalkContinue, nil
}

func (r *codeBlockRenderer) writePlain(w util.BufWriter, source []byte, n ast.Node) {
	_, _ = w.WriteString("<pre><code>")
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		r.Writer.RawWrite(w, line.Value(source))
	}
	_, _ = w.WriteString("</code></pre>\n")
}

func (r *codeBlockRenderer) writeHighlighted(w util.BufWriter, source []byte, n ast.Node, lang string) error {
	lexer := lexers.Get(lang)
	if lexer == nil {
		return &LexerNotFoundError{Language: lang}
	}
	lexer = chroma.Coalesce(lexer)

	var code bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		code.Write(line.Value(source))
	}
	iterator, err := lexer.Tokenise(nil, code.String())
	if err != nil {
		return err
	}
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	_, _ = w.WriteString(`<div class="highlight">`)
	if err := formatter.Format(w, r.style, iterator); err != nil {
		return err
	}
	_, _ = w.WriteString("</div>\n")
	return nil
}
