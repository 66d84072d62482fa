package editor

import (
	"strconv"
	"strings"

	"staybook/internal/domain"
)

// SummaryRow is one label/value line of the guest page.
type SummaryRow struct {
	Label string
	Value string
}

// SectionSummary is a read-only rendering of one enabled section.
type SectionSummary struct {
	Category CategoryID
	Label    string
	Rows     []SummaryRow
	Entries  [][]SummaryRow
}

// Summary lists the enabled sections of p with their filled-in values.
// Booleans are shown as Yes/No, blank values are skipped.
func Summary(p *domain.Property) []SectionSummary {
	doc := propertyDoc(p)
	var out []SectionSummary
	for _, s := range schemas {
		if s.Key == "" {
			continue
		}
		sec, ok := doc[s.Key].(map[string]any)
		if !ok {
			continue
		}
		if on, _ := sec["enabled"].(bool); !on {
			continue
		}
		sum := SectionSummary{Category: s.Category, Label: s.Label, Rows: summarize(s.Fields, sec)}
		if s.List != nil {
			raw, _ := sec[s.List.Key].([]any)
			for _, r := range raw {
				if m, ok := r.(map[string]any); ok {
					sum.Entries = append(sum.Entries, summarize(s.List.Fields, m))
				}
			}
		}
		out = append(out, sum)
	}
	return out
}

func summarize(fields []Field, m map[string]any) []SummaryRow {
	var rows []SummaryRow
	for _, fd := range fields {
		var v string
		switch x := m[fd.Name].(type) {
		case bool:
			v = "No"
			if x {
				v = "Yes"
			}
		case float64:
			v = strconv.FormatFloat(x, 'f', -1, 64)
		case string:
			v = strings.TrimSpace(x)
		case []any:
			parts := make([]string, 0, len(x))
			for _, e := range x {
				if s, ok := e.(string); ok {
					parts = append(parts, s)
				}
			}
			v = strings.Join(parts, "; ")
		}
		if v != "" {
			rows = append(rows, SummaryRow{Label: fd.Label(), Value: v})
		}
	}
	return rows
}
