package extractor

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

type rowData struct {
	y        float64
	contents []string
	xCoords  []float64
}

// ReadPDF extracts positioned text from a PDF and reconstructs it into the
// line-oriented Document model. Fragments are grouped into rows by Y
// coordinate and joined left to right, since the menu PDFs emit text
// word-by-word (sometimes char-by-char) rather than line-by-line.
func ReadPDF(path string) (*Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer f.Close()

	doc := &Document{Name: filepath.Base(path)}
	totalPage := r.NumPage()

	for i := 1; i <= totalPage; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}

		rows := groupTextsIntoRows(p.Content().Text)

		page := Page{Number: i}
		for _, row := range rows {
			page.Lines = append(page.Lines, Line{Text: joinRow(row), Y: row.y})
		}
		doc.Pages = append(doc.Pages, page)
	}

	return doc, nil
}

func groupTextsIntoRows(texts []pdf.Text) []rowData {
	if len(texts) == 0 {
		return nil
	}

	var rows []rowData
	tolerance := 2.0

	for _, t := range texts {
		content := strings.TrimSpace(t.S)
		if content == "" {
			continue
		}

		placed := false
		for i := range rows {
			if abs(rows[i].y-t.Y) < tolerance {
				rows[i].contents = append(rows[i].contents, content)
				rows[i].xCoords = append(rows[i].xCoords, t.X)
				placed = true
				break
			}
		}

		if !placed {
			rows = append(rows, rowData{
				y:        t.Y,
				contents: []string{content},
				xCoords:  []float64{t.X},
			})
		}
	}

	// Page coordinates grow upward; read top row first.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].y > rows[j].y })
	return rows
}

// joinRow orders a row's fragments by X and joins them with single spaces.
// The extraction library already merges glyph runs into words, so the
// fragments here are whole words or phrases.
func joinRow(row rowData) string {
	idx := make([]int, len(row.contents))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return row.xCoords[idx[a]] < row.xCoords[idx[b]] })

	var b strings.Builder
	for n, i := range idx {
		if n > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(row.contents[i])
	}
	return b.String()
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
