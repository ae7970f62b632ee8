package tui

import (
	"fmt"
	"strings"
)

// SummaryRow is one line of the report the batch command prints after its
// event stream ends.
type SummaryRow struct {
	Label string
	Value string
}

// RenderSummary lays the rows out as a ruled two-column table.
func RenderSummary(rows []SummaryRow) string {
	var labelWidth, valueWidth int
	for _, row := range rows {
		labelWidth = max(labelWidth, len(row.Label))
		valueWidth = max(valueWidth, len(row.Value))
	}

	rule := strings.Repeat("-", labelWidth+valueWidth+3)

	var b strings.Builder
	b.WriteString(rule)
	for _, row := range rows {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", labelWidth, row.Label)))
		b.WriteString(" | ")
		b.WriteString(valueStyle.Render(fmt.Sprintf("%-*s", valueWidth, row.Value)))
	}
	b.WriteString("\n")
	b.WriteString(rule)
	return b.String()
}
