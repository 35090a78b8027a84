package site

import (
	"strings"

	"golang.org/x/net/html"
)

const indentUnit = "    "

// Subtrees reproduced byte-for-byte: whitespace is significant inside
// them and must survive reformatting.
var verbatimTags = map[string]bool{
	"pre": true, "script": true, "style": true, "textarea": true,
}

// Phrasing-level elements. An element whose whole subtree is text and
// phrasing content stays on a single line, so the indenter never pushes
// whitespace into running prose.
var inlineTags = map[string]bool{
	"a": true, "abbr": true, "b": true, "bdi": true, "bdo": true,
	"br": true, "cite": true, "code": true, "data": true, "del": true,
	"dfn": true, "em": true, "i": true, "img": true, "ins": true,
	"kbd": true, "mark": true, "q": true, "s": true, "samp": true,
	"small": true, "span": true, "strong": true, "sub": true, "sup": true,
	"time": true, "u": true, "var": true, "wbr": true,
}

var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

var (
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	attrEscaper = strings.NewReplacer("&", "&amp;", `"`, "&quot;", "<", "&lt;", ">", "&gt;")
)

// prettify serializes a parsed document with 4-space indentation and one
// element per line. Formatting an already formatted document yields the
// same bytes.
func prettify(root *html.Node) (string, error) {
	var b strings.Builder
	if err := writeBlock(&b, root, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeBlock(b *strings.Builder, n *html.Node, depth int) error {
	switch n.Type {
	case html.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if err := writeBlock(b, c, depth); err != nil {
				return err
			}
		}
	case html.DoctypeNode:
		writeLine(b, depth, "<!DOCTYPE "+n.Data+">")
	case html.CommentNode:
		writeLine(b, depth, "<!--"+n.Data+"-->")
	case html.TextNode:
		text := strings.Trim(collapseSpace(n.Data), " ")
		if text != "" {
			writeLine(b, depth, textEscaper.Replace(text))
		}
	case html.ElementNode:
		return writeElement(b, n, depth)
	}
	return nil
}

func writeElement(b *strings.Builder, n *html.Node, depth int) error {
	if verbatimTags[n.Data] {
		b.WriteString(strings.Repeat(indentUnit, depth))
		if err := html.Render(b, n); err != nil {
			return err
		}
		b.WriteByte('\n')
		return nil
	}
	if voidTags[n.Data] {
		writeLine(b, depth, "<"+n.Data+attrString(n)+"/>")
		return nil
	}
	if oneLiner(n) {
		var inline strings.Builder
		writeInline(&inline, n)
		writeLine(b, depth, inline.String())
		return nil
	}
	writeLine(b, depth, "<"+n.Data+attrString(n)+">")
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := writeBlock(b, c, depth+1); err != nil {
			return err
		}
	}
	writeLine(b, depth, "</"+n.Data+">")
	return nil
}

// oneLiner reports whether the element's subtree is entirely phrasing
// content and text.
func oneLiner(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
		case html.ElementNode:
			if !inlineTags[c.Data] || !oneLiner(c) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func writeInline(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(textEscaper.Replace(collapseSpace(n.Data)))
	case html.ElementNode:
		if voidTags[n.Data] {
			b.WriteString("<" + n.Data + attrString(n) + "/>")
			return
		}
		b.WriteString("<" + n.Data + attrString(n) + ">")
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeInline(b, c)
		}
		b.WriteString("</" + n.Data + ">")
	}
}

func writeLine(b *strings.Builder, depth int, line string) {
	for i := 0; i < depth; i++ {
		b.WriteString(indentUnit)
	}
	b.WriteString(line)
	b.WriteByte('\n')
}

func attrString(n *html.Node) string {
	var b strings.Builder
	for _, a := range n.Attr {
		b.WriteByte(' ')
		b.WriteString(a.Key)
		b.WriteString(`="`)
		b.WriteString(attrEscaper.Replace(a.Val))
		b.WriteByte('"')
	}
	return b.String()
}

// collapseSpace reduces every run of HTML whitespace to a single space.
// Edge spaces survive: they separate words across element boundaries in
// inline content. Non-breaking spaces are content, not whitespace.
func collapseSpace(s string) string {
	var b strings.Builder
	pending := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\f', '\r':
			pending = true
			continue
		}
		if pending {
			b.WriteByte(' ')
			pending = false
		}
		b.WriteRune(r)
	}
	if pending {
		b.WriteByte(' ')
	}
	return b.String()
}
