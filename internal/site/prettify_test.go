package site

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"
)

func format(t *testing.T, src string) string {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out, err := prettify(doc)
	if err != nil {
		t.Fatalf("prettify: %v", err)
	}
	return out
}

func TestPrettifyIndentation(t *testing.T) {
	src := `<!DOCTYPE html><html><head><title>T</title></head><body><main><p>hi</p></main></body></html>`
	want := `<!DOCTYPE html>
<html>
    <head>
        <title>T</title>
    </head>
    <body>
        <main>
            <p>hi</p>
        </main>
    </body>
</html>
`
	if diff := cmp.Diff(want, format(t, src)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestPrettifyIdempotent(t *testing.T) {
	src := `<!DOCTYPE html>
<html><head>  <title>Blog  de test</title></head>
<body>
  <!-- a comment -->
  <main>
    <article><a id="x"></a><div class="polyglot">
      <div class="fr"><h1>Titre<a class="selflink" href="#x">Λ</a></h1>
      <p>Bonjour   le
      monde.</p></div>
    </div></article>
  </main>
  <pre>  keep
   this   exactly</pre>
</body></html>`
	once := format(t, src)
	twice := format(t, once)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("formatting is not idempotent (-once +twice):\n%s", diff)
	}
}

func TestPrettifyInlineProseStaysTogether(t *testing.T) {
	src := "<p>hello\n  <em>there</em>\n  world</p>"
	out := format(t, src)
	if !strings.Contains(out, "<p>hello <em>there</em> world</p>") {
		t.Errorf("prose was split across lines:\n%s", out)
	}
}

func TestPrettifyCollapsesAndDropsWhitespace(t *testing.T) {
	src := "<div>\n\n   <p>a     b</p>\n\n\n</div>"
	out := format(t, src)
	if strings.Contains(out, "\n\n") {
		t.Errorf("blank lines in output:\n%s", out)
	}
	if !strings.Contains(out, "<p>a b</p>") {
		t.Errorf("whitespace run not collapsed:\n%s", out)
	}
}

func TestPrettifyVerbatimSubtrees(t *testing.T) {
	pre := "<pre>  two\n   spaced   lines</pre>"
	script := "<script>if (a < b) { go(); }</script>"
	out := format(t, "<main>"+pre+script+"</main>")
	if !strings.Contains(out, pre) {
		t.Errorf("pre content was reformatted:\n%s", out)
	}
	if !strings.Contains(out, script) {
		t.Errorf("script content was reformatted:\n%s", out)
	}
}

func TestPrettifyVoidAndEmptyElements(t *testing.T) {
	out := format(t, `<main><img src="a.png" alt="a"><div class="sep"></div><br></main>`)
	if !strings.Contains(out, `<img src="a.png" alt="a"/>`) {
		t.Errorf("void element mangled:\n%s", out)
	}
	if !strings.Contains(out, `<div class="sep"></div>`) {
		t.Errorf("empty element mangled:\n%s", out)
	}
	if !strings.Contains(out, "<br/>") {
		t.Errorf("br mangled:\n%s", out)
	}
}

func TestPrettifyEscapesText(t *testing.T) {
	out := format(t, "<p>1 &lt; 2 &amp; c'est vrai</p>")
	if !strings.Contains(out, "<p>1 &lt; 2 &amp; c'est vrai</p>") {
		t.Errorf("text escaping unstable:\n%s", out)
	}
}
