package post

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"polypost/internal/locale"
)

// Renderer turns one Markdown section into an HTML fragment.
type Renderer interface {
	Render(source string) (string, error)
}

// MissingHeadingError reports a secondary-language section with no h1 or
// h2 heading, which leaves the post identifier underivable.
type MissingHeadingError struct{}

func (e *MissingHeadingError) Error() string {
	return "no heading in the secondary-language section to derive the post identifier from"
}

// Fragment is an assembled post ready for insertion into the index.
type Fragment struct {
	ID   string
	HTML string
}

// Assembler renders a Post's sections and composes the final fragment.
type Assembler struct {
	Renderer      Renderer
	PrimaryLang   string
	SecondaryLang string
	SelfLink      bool
	SelfLinkText  string
}

// Assemble produces the post fragment:
//
//	<article>
//	  <a id="20240115-hello-world"></a>
//	  <div class="polyglot">
//	    <div class="fr">…</div>
//	    <div class="en noshow">…</div>
//	    …suffix, when non-empty…
//	  </div>
//	</article>
//
// Each rendered section is re-parsed into a fresh tree before any
// decoration touches it.
func (a *Assembler) Assemble(p *Post) (*Fragment, error) {
	primary, err := a.Renderer.Render(p.Primary)
	if err != nil {
		return nil, err
	}
	secondary, err := a.Renderer.Render(p.Secondary)
	if err != nil {
		return nil, err
	}
	suffix, err := a.Renderer.Render(p.Suffix)
	if err != nil {
		return nil, err
	}

	id, err := identifier(p.Date, secondary)
	if err != nil {
		return nil, err
	}

	primary, err = a.decorate(primary, a.PrimaryLang, p.Date, id)
	if err != nil {
		return nil, err
	}
	secondary, err = a.decorate(secondary, a.SecondaryLang, p.Date, id)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("<article>")
	fmt.Fprintf(&b, `<a id="%s"></a>`, id)
	b.WriteString(`<div class="polyglot">`)
	fmt.Fprintf(&b, `<div class="%s">%s</div>`, a.PrimaryLang, primary)
	fmt.Fprintf(&b, `<div class="%s noshow">%s</div>`, a.SecondaryLang, secondary)
	if strings.TrimSpace(suffix) != "" {
		b.WriteString(suffix)
	}
	b.WriteString("</div></article>")
	return &Fragment{ID: id, HTML: b.String()}, nil
}

// decorate adds the post-meta block to a rendered section: the self-link
// goes inside the heading, the heading is wrapped, the localized date
// caption follows it. A section without a heading is used as-is.
func (a *Assembler) decorate(rendered, lang string, date time.Time, id string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rendered))
	if err != nil {
		return "", err
	}
	heading := firstHeading(doc)
	if heading == nil {
		return rendered, nil
	}
	if a.SelfLink {
		heading.AppendHtml(fmt.Sprintf(`<a class="selflink" href="#%s">%s</a>`, id, html.EscapeString(a.SelfLinkText)))
	}
	heading.WrapHtml(`<div class="post-meta"></div>`)
	heading.Parent().AppendHtml(fmt.Sprintf("<div>%s</div>", locale.Caption(lang, date)))
	return doc.Find("body").Html()
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// identifier derives the post's anchor id: the 8-digit date, then the
// hyphen-joined words of the secondary section's first h1 (else h2) text
// with runs of non-alphanumerics collapsed. "Hello, World!" on 2024-01-15
// becomes 20240115-hello-world. A title with no usable characters leaves
// the bare date token.
func identifier(date time.Time, secondaryHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(secondaryHTML))
	if err != nil {
		return "", err
	}
	heading := firstHeading(doc)
	if heading == nil {
		return "", &MissingHeadingError{}
	}
	words := strings.Fields(nonAlnum.ReplaceAllString(strings.ToLower(heading.Text()), " "))
	return strings.Join(append([]string{date.Format("20060102")}, words...), "-"), nil
}

func firstHeading(doc *goquery.Document) *goquery.Selection {
	if h := doc.Find("h1").First(); h.Length() > 0 {
		return h
	}
	if h := doc.Find("h2").First(); h.Length() > 0 {
		return h
	}
	return nil
}
