package parser

import (
	"encoding/csv"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/dgallion1/asciislide/internal/doctree"
)

// rowsPerSlide bounds how many data rows one table slide shows.
const rowsPerSlide = 20

// CSVParser handles CSV files. The first record is the header row; data
// rows are laid out as tables of at most rowsPerSlide rows per slide.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	b := newTreeBuilder(escapeText(stem(filename)))
	if len(records) == 0 {
		return b.finish(), nil
	}

	headers := records[0]
	rows := records[1:]
	for i := 0; i < len(rows); i += rowsPerSlide {
		end := min(i+rowsPerSlide, len(rows))
		// Row numbers are 1-indexed and count the header line.
		b.section(1, fmt.Sprintf("Rows %d-%d", i+2, end+1))
		b.add(&doctree.DocNode{Kind: doctree.KindPass, HTML: tableHTML(headers, rows[i:end])})
	}
	return b.finish(), nil
}

func tableHTML(headers []string, rows [][]string) string {
	var buf strings.Builder
	buf.WriteString("<table class=\"tableblock\">\n<thead>\n<tr>")
	for _, h := range headers {
		buf.WriteString("<th>" + html.EscapeString(h) + "</th>")
	}
	buf.WriteString("</tr>\n</thead>\n<tbody>\n")
	for _, row := range rows {
		buf.WriteString("<tr>")
		for _, cell := range row {
			buf.WriteString("<td>" + html.EscapeString(cell) + "</td>")
		}
		buf.WriteString("</tr>\n")
	}
	buf.WriteString("</tbody>\n</table>")
	return buf.String()
}
