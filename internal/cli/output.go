package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	warnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	statusStyles = map[string]lipgloss.Style{
		"draft":     dimStyle,
		"scheduled": lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		"sending":   lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		"sent":      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"delivered": lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"opened":    lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
		"clicked":   lipgloss.NewStyle().Foreground(lipgloss.Color("51")),
		"failed":    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		"bounced":   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

func renderStatus(status string) string {
	if style, ok := statusStyles[status]; ok {
		return style.Render(status)
	}
	return status
}

// printJSON writes v as indented JSON, the --json output mode.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderTable prints an aligned table with a styled header row.
func renderTable(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)

	styled := make([]string, len(headers))
	for i, h := range headers {
		styled[i] = titleStyle.Render(h)
	}
	fmt.Fprintln(w, strings.Join(styled, "\t"))
	fmt.Fprintln(w, strings.Repeat("─", 80))

	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	_ = w.Flush()
}

// pageFooter prints the "page X of Y (N total)" line under paginated tables.
func pageFooter(current, last, total int) {
	fmt.Println()
	fmt.Println(dimStyle.Render(fmt.Sprintf("page %d of %d (%d total)", current, last, total)))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
