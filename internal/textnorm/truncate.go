// Package textnorm bounds text fields before and after translation.
// Lengths are measured in grapheme clusters, not bytes, so multibyte
// and combining characters are never split mid-symbol.
package textnorm

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

const ellipsis = "..."

// Truncate returns text unchanged when it fits within max grapheme clusters.
// Otherwise it cuts at max, backtracks to the last whitespace boundary so no
// word is split, and appends an ellipsis. The result is hard-capped at max,
// trimming the ellipsis-bearing string again if needed, which also makes the
// function idempotent.
func Truncate(text string, max int) string {
	if max <= 0 {
		return ""
	}
	if uniseg.GraphemeClusterCount(text) <= max {
		return text
	}

	prefix := firstGraphemes(text, max)
	cut := prefix
	if idx := strings.LastIndexFunc(prefix, unicode.IsSpace); idx >= 0 {
		cut = prefix[:idx]
	}
	cut = strings.TrimRightFunc(cut, unicode.IsSpace)

	out := cut + ellipsis
	if uniseg.GraphemeClusterCount(out) > max {
		out = firstGraphemes(out, max)
	}
	return out
}

// firstGraphemes returns the prefix of s holding at most n grapheme clusters.
func firstGraphemes(s string, n int) string {
	var (
		count int
		end   int
		state = -1
	)
	rest := s
	for len(rest) > 0 && count < n {
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)
		end += len(cluster)
		count++
	}
	return s[:end]
}
