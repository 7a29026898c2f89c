package extractor

import "strings"

// Line is one reconstructed line of page text: the fragments that shared a
// baseline, joined left to right.
type Line struct {
	Text string
	Y    float64
}

// Page holds the lines of one PDF page in top-to-bottom order.
type Page struct {
	Number int
	Lines  []Line
}

// Document is the normalized text model every downstream parser consumes:
// a page sequence plus the source file it came from.
type Document struct {
	Name  string
	Pages []Page
}

// FromLines builds a single-page Document from plain text lines. Mostly
// useful for callers that already have text (and for tests).
func FromLines(name string, lines []string) *Document {
	page := Page{Number: 1}
	for i, ln := range lines {
		page.Lines = append(page.Lines, Line{Text: ln, Y: float64(len(lines) - i)})
	}
	return &Document{Name: name, Pages: []Page{page}}
}

// Text flattens the document back into newline-joined text.
func (d *Document) Text() string {
	var b strings.Builder
	for _, p := range d.Pages {
		for _, ln := range p.Lines {
			b.WriteString(ln.Text)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Empty reports whether the document carries no text at all.
func (d *Document) Empty() bool {
	for _, p := range d.Pages {
		for _, ln := range p.Lines {
			if strings.TrimSpace(ln.Text) != "" {
				return false
			}
		}
	}
	return true
}
