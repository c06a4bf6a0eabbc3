// Package htmlesc escapes the five HTML reserved characters and reverses
// that escaping.
package htmlesc

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
)

var named = map[string]string{
	"amp":  "&",
	"lt":   "<",
	"gt":   ">",
	"quot": `"`,
	"apos": "'",
}

// Escape replaces &, <, >, " and ' with entities in a single pass. It is not
// idempotent: escaping twice escapes the ampersands again.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Unescape reverses Escape. It also decodes &apos; and decimal or hex numeric
// references. Unknown or malformed references are copied through unchanged.
func Unescape(s string) string {
	i := strings.IndexByte(s, '&')
	if i < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i >= 0 {
		b.WriteString(s[:i])
		s = s[i:]

		decoded, n := entity(s)
		if n == 0 {
			b.WriteByte('&')
			s = s[1:]
		} else {
			b.WriteString(decoded)
			s = s[n:]
		}
		i = strings.IndexByte(s, '&')
	}
	b.WriteString(s)
	return b.String()
}

// entity decodes the reference at the start of s and returns the number of
// bytes consumed, or zero when s does not start with a known reference.
func entity(s string) (string, int) {
	end := strings.IndexByte(s, ';')
	if end < 2 || end > 12 {
		return "", 0
	}
	ref := s[1:end]

	if ref[0] != '#' {
		if decoded, ok := named[ref]; ok {
			return decoded, end + 1
		}
		return "", 0
	}

	digits, base := ref[1:], 10
	if len(digits) > 0 && (digits[0] == 'x' || digits[0] == 'X') {
		digits, base = digits[1:], 16
	}
	if digits == "" {
		return "", 0
	}
	code, err := strconv.ParseUint(digits, base, 32)
	if err != nil || code == 0 {
		return "", 0
	}
	r := rune(code)
	if !utf8.ValidRune(r) {
		return "", 0
	}
	return string(r), end + 1
}
