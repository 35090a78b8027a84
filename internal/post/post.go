// Package post turns raw Markdown input into the HTML fragment that goes
// on the site: date extraction, section splitting, identifier derivation,
// heading decoration and final assembly.
package post

import (
	"strings"
	"time"
)

// Post is one parsed blog post: a date plus up to three raw Markdown
// sections. Sections a post does not have are empty strings. A Post is
// built once per run and not mutated afterwards.
type Post struct {
	Date      time.Time
	Primary   string // primary-language section
	Secondary string // secondary-language section; source of the identifier
	Suffix    string // trailing free-form block, e.g. footer or comments embed
}

// Parse builds a Post from raw input. now supplies the date used when the
// input carries no leading date token; warnings land in diags.
func Parse(raw string, now time.Time, diags *Diagnostics) (*Post, error) {
	date, body, err := ExtractDate(strings.TrimSpace(raw), now, diags)
	if err != nil {
		return nil, err
	}
	sections := splitSections(body)
	return &Post{
		Date:      date,
		Primary:   sections[0],
		Secondary: sections[1],
		Suffix:    sections[2],
	}, nil
}

// splitSections cuts body into at most three blocks on lines consisting of
// exactly three hyphens. Blocks past the third are discarded. The boundary
// is hard: a --- line splits even where the author meant a horizontal
// rule, so a visible rule inside a section has to be written as ***.
func splitSections(body string) [3]string {
	var out [3]string
	var cur strings.Builder
	n := 0
	flush := func() {
		if n < len(out) {
			out[n] = cur.String()
		}
		n++
		cur.Reset()
	}
	for _, line := range strings.SplitAfter(body, "\n") {
		if line == "---\n" || line == "---" {
			flush()
			continue
		}
		cur.WriteString(line)
	}
	flush()
	return out
}
