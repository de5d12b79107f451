package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reObjectID = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
	reUsername = regexp.MustCompile(`^[A-Za-z0-9._@-]{2,50}$`)
	reTxt      = regexp.MustCompile(`^[\p{L}\p{N} _'-]{1,50}$`)
)

// ID validates a document identifier (24-char hex).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reObjectID.MatchString(s)
}

// Username validates a login name.
func Username(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reUsername.MatchString(s)
}

// Txt validates a catalog search term: trims, enforces allowed
// characters and max length.
func Txt(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, reTxt.MatchString(s)
}

// Price parses a non-negative price; bad input means "no constraint".
func Price(s string) float64 {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Amount parses a purchase quantity, clamped to a sane window.
func Amount(n int) int {
	if n < 1 {
		return 1
	}
	if n > 50 {
		return 50
	}
	return n
}

// Password enforces a simple length window for signup.
func Password(s string) bool {
	return len(s) >= 8 && len(s) <= 64
}
