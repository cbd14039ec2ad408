// Package timespec converts human time specifications (SS, MM:SS, HH:MM:SS)
// to and from integer seconds.
package timespec

import (
	"fmt"
	"strconv"
	"strings"
)

// Parse converts a time specification to seconds. Accepted forms are bare
// digits (seconds), MM:SS and HH:MM:SS. Returns ok=false on empty input,
// too many groups, or any group that is not a non-negative integer.
// Magnitude is not bounded.
func Parse(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, false
	}
	total := 0
	for _, p := range parts {
		// Bare digits only: Atoi alone would admit signed groups like "+5".
		if !isDigits(p) {
			return 0, false
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, false
		}
		total = total*60 + n
	}
	return total, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Format renders seconds as zero-padded HH:MM:SS. Hours are not capped at 99.
func Format(sec int) string {
	h := sec / 3600
	m := (sec % 3600) / 60
	s := sec % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
