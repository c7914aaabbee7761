package extract

import "strings"

// SplitLine splits one comma-separated line into trimmed cells. Double quotes
// toggle quoting and are dropped; a comma inside quotes is kept. The last
// cell is always emitted and unbalanced quotes are tolerated.
func SplitLine(line string) []string {
	var (
		cells    []string
		current  strings.Builder
		inQuotes bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			cells = append(cells, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	return append(cells, strings.TrimSpace(current.String()))
}

// SplitLines splits document text on newlines, dropping carriage returns.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
