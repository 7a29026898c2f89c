// pdfdump prints the raw positioned text of a menu PDF and the reconstructed
// lines side by side. Useful when a new installation's export lays text out
// differently and the parser starts missing items.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/dfac-tools/menubuilder/extractor"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: pdfdump <menu.pdf> [-raw]")
		os.Exit(1)
	}
	path := os.Args[1]
	raw := len(os.Args) > 2 && os.Args[2] == "-raw"

	if raw {
		if err := dumpRaw(path); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	doc, err := extractor.ReadPDF(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	for _, page := range doc.Pages {
		fmt.Printf("=== PAGE %d ===\n", page.Number)
		for _, line := range page.Lines {
			fmt.Printf("Y:%8.2f  %s\n", line.Y, line.Text)
		}
		fmt.Println()
	}
}

// dumpRaw prints every text fragment with its coordinates, before any row
// grouping. This shows exactly what the PDF library hands back.
func dumpRaw(path string) error {
	f, r, err := pdf.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		fmt.Printf("=== PAGE %d ===\n", i)
		for idx, t := range p.Content().Text {
			fmt.Printf("[%d] X:%.2f Y:%.2f Font:%s Text: %q\n", idx, t.X, t.Y, t.Font, strings.TrimSpace(t.S))
		}
		fmt.Println()
	}
	return nil
}
