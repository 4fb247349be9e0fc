package formatter

import (
	"github.com/alexanderramin/focusguard/internal/domain"
)

// FormatWhitelist renders whitelist entries in creation order.
func FormatWhitelist(entries []*domain.WhitelistEntry) string {
	if len(entries) == 0 {
		return Dim("Whitelist is empty.")
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{Dim(e.ID), StylePurple.Render(string(e.Kind)), e.Value})
	}
	return RenderTable([]string{"ID", "KIND", "VALUE"}, rows)
}

// FormatKeywords renders urgent keywords in match order.
func FormatKeywords(keywords []*domain.Keyword) string {
	if len(keywords) == 0 {
		return Dim("No urgent keywords.")
	}
	rows := make([][]string, 0, len(keywords))
	for _, k := range keywords {
		rows = append(rows, []string{Dim(k.ID), k.Text})
	}
	return RenderTable([]string{"ID", "KEYWORD"}, rows)
}
