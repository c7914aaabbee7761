package extract

import "strings"

const (
	headerToken = "boekjaar"
	priorToken  = "vorig"
)

// CurrentYearColumn returns the index of the first cell naming the current
// fiscal year ("Boekjaar" but not "Vorig boekjaar").
func CurrentYearColumn(row []string) (int, bool) {
	for i, cell := range row {
		lower := strings.ToLower(cell)
		if strings.Contains(lower, headerToken) && !strings.Contains(lower, priorToken) {
			return i, true
		}
	}
	return -1, false
}

// columnResolver remembers the current-year column for one document.
type columnResolver struct {
	index int
	known bool
}

func newColumnResolver() columnResolver {
	return columnResolver{index: -1}
}

// observe updates the remembered column when row is a header row.
func (c *columnResolver) observe(row []string, lowerLine string) {
	if !strings.Contains(lowerLine, headerToken) {
		return
	}
	if i, ok := CurrentYearColumn(row); ok {
		c.index, c.known = i, true
	}
}

func (c *columnResolver) column() (int, bool) {
	return c.index, c.known
}
