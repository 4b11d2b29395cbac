package export

import (
	"strconv"
	"strings"

	"github.com/kneeraazon404/JSON-from-PDF-to-CSV/internal/llm"
)

// Header is the fixed column layout of the output table.
var Header = []string{"filename", "title", "author", "date", "keywords", "summary", "page_count", "error"}

// Row is one output record. Exactly one of the two holds: Fields populated
// with Error empty, or Fields zero with Error non-empty.
type Row struct {
	Filename string
	Fields   llm.DocumentFields
	Error    string
}

// Succeeded reports whether the document produced usable fields.
func (r Row) Succeeded() bool { return r.Error == "" }

// Values renders the row in Header order. Absent optional fields render as
// empty strings.
func (r Row) Values() []string {
	return []string{
		r.Filename,
		r.Fields.Title,
		r.Fields.Author,
		r.Fields.Date,
		formatKeywords(r.Fields.Keywords),
		r.Fields.Summary,
		formatPageCount(r.Fields.PageCount),
		r.Error,
	}
}

// formatKeywords renders ["finance","growth"] as "[finance, growth]".
func formatKeywords(keywords []string) string {
	if len(keywords) == 0 {
		return ""
	}
	return "[" + strings.Join(keywords, ", ") + "]"
}

func formatPageCount(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
