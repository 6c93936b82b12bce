package caption

import (
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

func persianDigit(r rune) rune {
	if r >= '۰' && r <= '۹' {
		return '0' + (r - '۰')
	}
	return r
}

// normalizeDigits rewrites Persian digits ۰-۹ as ASCII 0-9.
// Invalid UTF-8 bytes come out as U+FFFD; Telegram text is always valid UTF-8.
func normalizeDigits(s string) string {
	out, _, err := transform.String(runes.Map(persianDigit), s)
	if err != nil {
		return s
	}
	return out
}
