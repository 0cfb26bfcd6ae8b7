// Package utils holds small helpers shared across the HTTP layer.
package utils

import "strconv"

// BoundedAtoi parses raw as an integer and clamps the result to [lo, hi].
// Empty or malformed input yields def before clamping. List endpoints use it
// to keep caller-supplied limits and result caps inside sane bounds, so a
// crafter asking for ?limit=999999 gets the ceiling instead of an error.
func BoundedAtoi(raw string, def, lo, hi int) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		n = def
	}
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
