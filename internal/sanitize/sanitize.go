// Package sanitize screens chat text for dangerous markup and spam before
// it reaches the dispatch pipeline. Sanitize rewrites offending fragments;
// Validate rejects without mutating. Callers choose which to apply.
package sanitize

import (
	"errors"
	"regexp"
	"strings"
)

// BlockedMarker replaces each dangerous fragment found by Sanitize.
const BlockedMarker = "[blocked]"

var (
	// ErrSpam marks text rejected as spam.
	ErrSpam = errors.New("sanitize: spam detected")

	// ErrDangerousContent marks text containing a dangerous pattern.
	ErrDangerousContent = errors.New("sanitize: dangerous content")
)

// Ordered list of dangerous-content patterns. Order matters: script
// bodies must be removed before the bare javascript: scheme check so the
// whole tag collapses into a single marker.
var dangerous = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`),
	regexp.MustCompile(`(?is)<script[^>]*>`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)\bon\w+\s*=`),
	regexp.MustCompile(`(?is)<iframe[^>]*>`),
	regexp.MustCompile(`(?i)eval\(`),
	regexp.MustCompile(`(?i)document\.cookie`),
}

var (
	whitespace = regexp.MustCompile(`\s+`)
	longURL    = regexp.MustCompile(`https?://\S{100,}`)
)

const maxRepeat = 20

// Sanitize replaces every dangerous fragment with BlockedMarker and
// collapses runs of whitespace.
func Sanitize(text string) string {
	for _, re := range dangerous {
		text = re.ReplaceAllString(text, BlockedMarker)
	}
	return strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
}

// IsSpam reports whether text looks like spam: a character repeated at
// least 20 times consecutively, or an excessively long URL token.
func IsSpam(text string) bool {
	var prev rune
	run := 0
	for _, r := range text {
		if r == prev {
			run++
			if run >= maxRepeat {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return longURL.MatchString(text)
}

// Validate rejects spam or dangerous text without mutating it. Spam is
// checked first.
func Validate(text string) error {
	if IsSpam(text) {
		return ErrSpam
	}
	for _, re := range dangerous {
		if re.MatchString(text) {
			return ErrDangerousContent
		}
	}
	return nil
}
