package extract

import (
	"math"
	"strings"
)

// signToken is the sign-indicator column found next to some codes.
const signToken = "(+)/(-)"

// Candidate is what a Strategy sees when a code cell has been matched.
type Candidate struct {
	Row       []string
	CodeIndex int
	// Column is the current-year column, or -1 when no header was seen.
	Column int
	// Normalize parses a cell for the field the code targets.
	Normalize func(string) (float64, bool)
}

// Strategy proposes a value for a matched code. Strategies are tried in order
// and the first one that accepts a value wins.
type Strategy struct {
	Name    string
	Resolve func(c Candidate) (float64, bool)
}

var (
	// KnownColumn reads the remembered current-year column.
	KnownColumn = Strategy{Name: "known-column", Resolve: resolveKnownColumn}
	// OffsetTwo reads two cells after the code (code, blank, value).
	OffsetTwo = Strategy{Name: "offset-2", Resolve: resolveOffset(2, 100)}
	// OffsetOne reads the cell right after the code.
	OffsetOne = Strategy{Name: "offset-1", Resolve: resolveOffset(1, 1000)}
	// ScanForward takes the first plausible amount after the code.
	ScanForward = Strategy{Name: "scan-forward", Resolve: resolveScanForward}
)

// DefaultStrategies returns the standard resolution order.
func DefaultStrategies() []Strategy {
	return []Strategy{KnownColumn, OffsetTwo, OffsetOne, ScanForward}
}

func resolveKnownColumn(c Candidate) (float64, bool) {
	if c.Column < 0 || c.Column >= len(c.Row) {
		return 0, false
	}
	cell := strings.TrimSpace(c.Row[c.Column])
	if cell == "" || cell == signToken || strings.Contains(cell, "(") {
		return 0, false
	}
	v, ok := c.Normalize(cell)
	return acceptAmount(v, ok, 1000)
}

func resolveOffset(offset int, floor float64) func(Candidate) (float64, bool) {
	return func(c Candidate) (float64, bool) {
		i := c.CodeIndex + offset
		if i >= len(c.Row) {
			return 0, false
		}
		cell := strings.TrimSpace(c.Row[i])
		if skipCell(cell) {
			return 0, false
		}
		v, ok := c.Normalize(cell)
		return acceptAmount(v, ok, floor)
	}
}

func resolveScanForward(c Candidate) (float64, bool) {
	for i := c.CodeIndex + 1; i < len(c.Row); i++ {
		cell := strings.TrimSpace(c.Row[i])
		if skipCell(cell) {
			continue
		}
		v, ok := c.Normalize(cell)
		if v, ok = acceptAmount(v, ok, 1000); ok {
			return v, true
		}
	}
	return 0, false
}

// skipCell rejects blanks, sign indicators and bracketed annotations.
func skipCell(cell string) bool {
	return cell == "" || cell == signToken || strings.ContainsAny(cell, "()")
}

// acceptAmount applies the non-zero and minimum-magnitude rule to a parse
// result.
func acceptAmount(v float64, ok bool, floor float64) (float64, bool) {
	if !ok || v == 0 || math.Abs(v) < floor {
		return 0, false
	}
	return v, true
}

// resolveValue runs strategies in order and reports which one answered.
func resolveValue(strategies []Strategy, c Candidate) (float64, string, bool) {
	for _, s := range strategies {
		if v, ok := s.Resolve(c); ok {
			return v, s.Name, true
		}
	}
	return 0, "", false
}
