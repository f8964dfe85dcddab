package battle

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// SummaryBudget is the Discord embed field value limit.
const SummaryBudget = 1024

// RenderDeckSummary lists a deck for an embed field. Listings over budget keep
// as many whole leading lines as fit next to a "Total: N" suffix.
func RenderDeckSummary(entries []Entry) string {
	if len(entries) == 0 {
		return "Empty"
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		icon := ""
		if e.Icon != "" {
			icon = e.Icon + " "
		}
		lines = append(lines, fmt.Sprintf("- %s%s", icon, e.String()))
	}

	deck := strings.Join(lines, "\n")
	if utf8.RuneCountInString(deck) <= SummaryBudget {
		return deck
	}

	suffix := fmt.Sprintf("\nTotal: %d", len(entries))
	budget := SummaryBudget - utf8.RuneCountInString(suffix)

	var b strings.Builder
	used := 0
	for _, line := range lines {
		size := utf8.RuneCountInString(line)
		if used > 0 {
			size++
		}
		if used+size > budget {
			break
		}
		if used > 0 {
			b.WriteString("\n")
		}
		b.WriteString(line)
		used += size
	}

	return strings.TrimPrefix(b.String()+suffix, "\n")
}
