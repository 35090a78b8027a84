// Package site rewrites the static site's index document: new post
// fragments go in as the first child of the content container, and the
// whole document is reformatted with stable indentation on every write.
package site

import (
	"bytes"
	"fmt"
	"os"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/renameio"
)

// IndexFormatError reports an index document without the expected content
// container.
type IndexFormatError struct {
	Path      string
	Container string
}

func (e *IndexFormatError) Error() string {
	return fmt.Sprintf("index %s has no %q container to insert posts into", e.Path, e.Container)
}

// Inserter prepends post fragments to one index document.
type Inserter struct {
	Path      string // index document path
	Container string // goquery selector of the content container, e.g. "main"
}

// Insert places the fragment as the first child of the container, newest
// post first, and rewrites the document. The write is atomic: the index
// is replaced whole or left untouched.
func (ins *Inserter) Insert(fragmentHTML string) error {
	raw, err := os.ReadFile(ins.Path)
	if err != nil {
		return err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("parse %s: %w", ins.Path, err)
	}
	container := doc.Find(ins.Container).First()
	if container.Length() == 0 {
		return &IndexFormatError{Path: ins.Path, Container: ins.Container}
	}
	container.PrependHtml(fragmentHTML)

	out, err := prettify(doc.Get(0))
	if err != nil {
		return fmt.Errorf("format %s: %w", ins.Path, err)
	}
	return renameio.WriteFile(ins.Path, []byte(out), 0o644)
}
