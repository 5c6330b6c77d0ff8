// Package export writes document analyses to spreadsheet-friendly files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"legal-assistant/document"
)

// Header is the first row of every CSV export
var Header = []string{"name", "summary", "insights", "strengths", "weaknesses", "opportunities", "threats"}

// WriteCSV writes one row per document. Missing analyses are empty cells.
func WriteCSV(w io.Writer, docs []*document.Document) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, doc := range docs {
		var swot document.SWOT
		if doc.SWOT != nil {
			swot = *doc.SWOT
		}
		row := []string{
			doc.Name,
			doc.Summary,
			doc.Insights,
			swot.Strengths,
			swot.Weaknesses,
			swot.Opportunities,
			swot.Threats,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", doc.Name, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
