package extract

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// placeholder marks a masked amount in public exports.
const placeholder = "XXXXXXXXXX"

// Scale is the unit convention applied to monetary amounts.
type Scale int

const (
	// ScaleUnits keeps parsed amounts as full euro.
	ScaleUnits Scale = iota
	// ScaleThousands treats source amounts as thousands of euro.
	ScaleThousands
)

// ParseScale parses "units" or "thousands". The empty string means units.
func ParseScale(s string) (Scale, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "units", "unit", "eur":
		return ScaleUnits, nil
	case "thousands", "thousand", "k":
		return ScaleThousands, nil
	}
	return ScaleUnits, fmt.Errorf("unknown scale %q (want units or thousands)", s)
}

func (s Scale) String() string {
	if s == ScaleThousands {
		return "thousands"
	}
	return "units"
}

func (s Scale) apply(v float64) float64 {
	if s == ScaleThousands {
		return v * 1000
	}
	return v
}

// Normalizer parses Belgian-formatted cell values.
type Normalizer struct {
	Scale Scale
}

// Normalize parses raw. Monetary values use the amount separator rules and
// are scaled; other values keep a plausible decimal point and are never scaled.
// The second result is false when no number could be read.
func (n Normalizer) Normalize(raw string, monetary bool) (float64, bool) {
	v, ok := parseNumber(raw, monetary)
	if !ok {
		return 0, false
	}
	if monetary {
		v = n.Scale.apply(v)
	}
	return v, true
}

// parseNumber resolves thousands and decimal separators and reads the number.
func parseNumber(raw string, monetary bool) (float64, bool) {
	if strings.TrimSpace(raw) == "" || strings.TrimSpace(raw) == placeholder {
		return 0, false
	}

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)

	hasComma := strings.Contains(cleaned, ",")
	hasDot := strings.Contains(cleaned, ".")

	switch {
	case hasComma && hasDot:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)

	case hasComma:
		parts := strings.Split(cleaned, ",")
		if len(parts[1]) > 3 {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		} else {
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		}

	case hasDot:
		parts := strings.Split(cleaned, ".")
		if len(parts) > 2 || monetary || !keepsDecimalPoint(parts[0], parts[1]) {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		}
	}

	return leadingFloat(cleaned)
}

// keepsDecimalPoint decides whether a single dot in a count such as "1.5"
// is a decimal point rather than a thousands separator.
func keepsDecimalPoint(intPart, fracPart string) bool {
	whole, ok := leadingFloat(intPart)
	return ok && whole < 10 && len(fracPart) <= 2
}

// leadingFloat reads the longest float literal at the start of s, so
// "10/15" reads as 10 and "abc" reads as nothing.
func leadingFloat(s string) (float64, bool) {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits > 0 || frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0, false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	v, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
