package respond

import (
	"strconv"
	"strings"
)

const bannerPad = 6

// Table renders a left-justified fixed-width text table under a title
// banner. Column names arrive in snake_case and are shown title-cased with
// spaces. An empty row set always degrades to a "no data" sentence carrying
// the title, never a bare header block.
func Table(columns []string, rows [][]string, title, summary string) string {
	if len(rows) == 0 {
		return title + ": No data found"
	}

	headers := make([]string, len(columns))
	widths := make([]int, len(columns))
	for i, col := range columns {
		headers[i] = cleanHeader(col)
		widths[i] = len(headers[i])
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder
	b.WriteString("** " + title + " **\n")
	b.WriteString(strings.Repeat("=", len(title)+bannerPad) + "\n")

	writeRow(&b, headers, widths)
	for _, row := range rows {
		writeRow(&b, row, widths)
	}

	out := strings.TrimRight(b.String(), "\n")
	if summary != "" {
		out += "\n\nSummary: " + summary
	}
	return out
}

func writeRow(b *strings.Builder, cells []string, widths []int) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(cell)
		if i < len(cells)-1 {
			b.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
		}
	}
	b.WriteString("\n")
}

func cleanHeader(col string) string {
	words := strings.Split(strings.ReplaceAll(col, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// formatScore prints whole scores without a trailing ".0".
func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
