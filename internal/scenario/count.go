package scenario

import (
	"strconv"
	"strings"
)

// Question count bounds.
const (
	DefaultCount = 5
	MinCount     = 1
	MaxCount     = 20
)

// ClampCount turns the free-form question count into a usable number.
// Leading digits are parsed ("3x" is 3), anything unparsable is
// DefaultCount, and the result is clamped to [MinCount, MaxCount].
func ClampCount(s string) int {
	s = strings.TrimSpace(s)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return DefaultCount
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		// Only overflow gets here; the sign decides the bound.
		if s[0] == '-' {
			return MinCount
		}
		return MaxCount
	}
	return min(max(n, MinCount), MaxCount)
}
