package boxscore

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Exported tables leave cells blank (or a bare "-") for stats a player never
// recorded, so every decoder here coerces malformed input to zero instead of
// erroring.
var (
	madeAttemptRe = regexp.MustCompile(`^\s*(\d+)\s*-\s*(\d+)\s*$`)

	// "#28 F. Wendtman" style: jersey marker, first initial, hyphenatable surname.
	jerseyAbbrevRe = regexp.MustCompile(`#\s*\d+\s+([A-Za-z])\.?\s*([A-Za-z\-]+)`)
	// Bare "F.Wendtman" style anywhere in the cell.
	bareAbbrevRe = regexp.MustCompile(`\b([A-Za-z])\.?\s*([A-Za-z\-]+)\b`)
)

// ParseMadeAttempt decodes a "made-attempted" pair such as "9-15". Anything
// else, including "" and the placeholder "-", decodes to (0, 0).
func ParseMadeAttempt(cell string) (made, attempted int) {
	m := madeAttemptRe.FindStringSubmatch(cell)
	if m == nil {
		return 0, 0
	}
	made, _ = strconv.Atoi(m[1])
	attempted, _ = strconv.Atoi(m[2])
	return made, attempted
}

// ParseCount decodes a counting stat. Only a trimmed all-digit cell counts;
// everything else is zero.
func ParseCount(cell string) int {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0
	}
	for _, r := range cell {
		if r < '0' || r > '9' {
			return 0
		}
	}
	n, err := strconv.Atoi(cell)
	if err != nil {
		return 0
	}
	return n
}

// ParseAbbreviation derives the "<Initial>.<Surname>" join key from a player
// cell. It prefers the jersey-number form ("#28 F. Wendtman"), falls back to
// any bare initial+surname token, and as a last resort returns the trimmed
// cell unmodified so the caller can report it as unresolved.
func ParseAbbreviation(cell string) string {
	if m := jerseyAbbrevRe.FindStringSubmatch(cell); m != nil {
		return strings.ToUpper(m[1]) + "." + m[2]
	}
	if m := bareAbbrevRe.FindStringSubmatch(cell); m != nil {
		return strings.ToUpper(m[1]) + "." + m[2]
	}
	return strings.TrimSpace(cell)
}

// Pct computes a shooting percentage rounded to six decimal places. Zero
// attempts yield 0.0 rather than a division by zero.
func Pct(made, attempted int) float64 {
	if attempted == 0 {
		return 0.0
	}
	pct := 100 * float64(made) / float64(attempted)
	return math.Round(pct*1e6) / 1e6
}
