package payment

import (
	"strings"
	"unicode/utf8"
)

// sanitize keeps the runes allowed by keep and cuts the result to max bytes.
// Callers only allow ASCII, so the cut never splits a rune.
func sanitize(s string, keep func(r rune) bool, max int) string {
	var b strings.Builder
	for _, r := range s {
		if keep(r) {
			b.WriteRune(r)
		}
	}

	out := b.String()
	if len(out) > max {
		out = out[:max]
	}

	return out
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	runes := []rune(s)

	return string(runes[:n])
}
