// Package docview renders a monograph's section tree as an accordion: a
// vertical list of collapsible panels, at most one expanded at a time.
package docview

import (
	"github.com/satishskid/greylearn/internal/monograph"
)

// View tracks which top-level section is expanded. Panels are keyed by
// heading text; two sections sharing a heading collapse and expand together
// (known limitation of heading-as-key).
type View struct {
	m             *monograph.Monograph
	activeHeading string // "" = all collapsed
}

func New(m *monograph.Monograph) *View {
	return &View{m: m}
}

// Toggle expands the section with the given heading, collapsing whichever
// was open; toggling the open section collapses everything.
func (v *View) Toggle(heading string) {
	if v.activeHeading == heading {
		v.activeHeading = ""
		return
	}
	v.activeHeading = heading
}

func (v *View) ActiveHeading() string { return v.activeHeading }

type SubPanel struct {
	Heading     string   `json:"heading"`
	ContentHTML string   `json:"content_html"`
	KeyConcepts []string `json:"key_concepts,omitempty"`
}

type Panel struct {
	Heading     string `json:"heading"`
	Expanded    bool   `json:"expanded"`
	ContentHTML string `json:"content_html,omitempty"`
	// Rendered only while expanded, like the content.
	KeyConcepts []string   `json:"key_concepts,omitempty"`
	Subsections []SubPanel `json:"subsections,omitempty"`
}

type Document struct {
	Title   string  `json:"title"`
	Summary string  `json:"summary"`
	Panels  []Panel `json:"panels"`
}

// Render produces the panel list in authorial order. It is pure: the same
// monograph and active heading always yield the same document, and the
// underlying monograph is never mutated.
func (v *View) Render() Document {
	doc := Document{Title: v.m.Title, Summary: v.m.Summary}
	doc.Panels = make([]Panel, 0, len(v.m.Sections))
	for _, sec := range v.m.Sections {
		p := Panel{Heading: sec.Heading}
		if sec.Heading == v.activeHeading && v.activeHeading != "" {
			p.Expanded = true
			p.ContentHTML = mdToHTML(sec.Content)
			p.KeyConcepts = sec.KeyConcepts
			// Subsections have no collapse state of their own; they render in
			// full whenever the parent is open.
			for _, sub := range sec.Subsections {
				p.Subsections = append(p.Subsections, SubPanel{
					Heading:     sub.Heading,
					ContentHTML: mdToHTML(sub.Content),
					KeyConcepts: sub.KeyConcepts,
				})
			}
		}
		doc.Panels = append(doc.Panels, p)
	}
	return doc
}
