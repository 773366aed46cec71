package utils

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

var wsRe = regexp.MustCompile(`\s+`)

// ErrInvalidTimeFormat is returned when time parsing fails
var ErrInvalidTimeFormat = errors.New("invalid time format")

func NormalizeEmail(s string) string {
	s = strings.TrimSpace(s)
	return strings.ToLower(s)
}

// DisplayName joins a first and last name into a single label.
// The result is NFC-normalized so the same person always produces the
// same map key regardless of how the upstream encoded accents.
func DisplayName(first, last, fallback string) string {
	name := strings.TrimSpace(first + " " + last)
	name = wsRe.ReplaceAllString(name, " ")
	if name == "" {
		return fallback
	}
	return norm.NFC.String(name)
}

// ParseTime parses a time string in the upstream's "2006-01-02 15:04:05"
// format or other common layouts
func ParseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04:05",
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05",
		"2006-01-02",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidTimeFormat
}

// IsDate reports whether s is a plain YYYY-MM-DD date
func IsDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
