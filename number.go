package main

import (
	"strconv"
	"strings"
)

// validBase returns base if it is a usable radix, 10 otherwise.
func validBase(base int) int {
	if base < 2 || base > 36 {
		return 10
	}
	return base
}

// digitValue returns the value of digit c in base 36, or -1.
func digitValue(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'A' <= c && c <= 'Z':
		return int(c-'A') + 10
	case 'a' <= c && c <= 'z':
		return int(c-'a') + 10
	}
	return -1
}

// parseNumber parses an optionally negative integer in the given base,
// wrapping around at 32 bits like the rest of cell arithmetic.
func parseNumber(s string, base int) (cell, bool) {
	base = validBase(base)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if s == "" {
		return 0, false
	}
	var acc uint32
	for i := 0; i < len(s); i++ {
		dv := digitValue(s[i])
		if dv < 0 || dv >= base {
			return 0, false
		}
		acc = acc*uint32(base) + uint32(dv)
	}
	if neg {
		return -cell(acc), true
	}
	return cell(acc), true
}

// formatNumber formats v in the given base, using upper case letter digits.
func formatNumber(v cell, base int) string {
	return strings.ToUpper(strconv.FormatInt(int64(v), validBase(base)))
}
