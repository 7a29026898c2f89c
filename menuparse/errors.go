package menuparse

import "fmt"

// ParseError reports unparseable menu document structure. It is fatal for
// the run: the pipeline aborts rather than emit partial output for the day.
type ParseError struct {
	Doc     string
	Page    int
	Section string
	Msg     string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s, page %d, section %q: %s", e.Doc, e.Page, e.Section, e.Msg)
}
