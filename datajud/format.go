package datajud

import (
	"fmt"
	"strings"
)

// maxMovements bounds the history lines printed per process
const maxMovements = 5

// Format renders the result as plain text for the terminal
func (r *SearchResult) Format() string {
	if r == nil || len(r.Processes) == 0 {
		return "No process found."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d process(es) found.\n", r.Total)
	for _, p := range r.Processes {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "Process %s\n", p.Number)
		if p.Court != "" {
			fmt.Fprintf(&sb, "Court: %s (%s)\n", p.Court, p.Degree)
		}
		if p.Class.Name != "" {
			fmt.Fprintf(&sb, "Class: %s\n", p.Class.Name)
		}
		if p.Body.Name != "" {
			fmt.Fprintf(&sb, "Judging body: %s\n", p.Body.Name)
		}
		if p.FiledAt != "" {
			fmt.Fprintf(&sb, "Filed: %s\n", p.FiledAt)
		}
		if len(p.Subjects) > 0 {
			names := make([]string, 0, len(p.Subjects))
			for _, s := range p.Subjects {
				names = append(names, s.Name)
			}
			fmt.Fprintf(&sb, "Subjects: %s\n", strings.Join(names, "; "))
		}
		for i, m := range p.Movements {
			if i == maxMovements {
				fmt.Fprintf(&sb, "  ... %d more movement(s)\n", len(p.Movements)-maxMovements)
				break
			}
			fmt.Fprintf(&sb, "  %s %s\n", m.DateTime, m.Name)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
