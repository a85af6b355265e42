package practice

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// tokenize splits s into alternating runs of letters and non-letters.
// Concatenating the tokens reproduces s exactly.
func tokenize(s string) []string {
	var tokens []string
	start := 0
	inLetters := false
	for i, r := range s {
		isLetter := unicode.IsLetter(r)
		if i > start && isLetter != inLetters {
			tokens = append(tokens, s[start:i])
			start = i
		}
		inLetters = isLetter
	}
	if start < len(s) {
		tokens = append(tokens, s[start:])
	}
	return tokens
}

// capitalize upper-cases the first rune of s and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

func isLetters(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLetter(r)
}

func isUpperASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return s != ""
}

// FormatName capitalizes every run of letters in a registry name, including
// runs that are already mixed case. Apostrophes split runs, so
// "ST JAMES'S" becomes "St James'S".
func FormatName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, tok := range tokenize(name) {
		if isLetters(tok) {
			tok = capitalize(tok)
		}
		b.WriteString(tok)
	}
	return b.String()
}

// FormatAddress joins the non-empty address lines and the postcode with
// ", " and capitalizes every token made only of A-Z. Any other token, mixed
// case words included, is left as it is.
func FormatAddress(lines [5]string, postcode string) string {
	parts := make([]string, 0, len(lines)+1)
	for _, line := range lines {
		if line != "" {
			parts = append(parts, line)
		}
	}
	parts = append(parts, postcode)

	var b strings.Builder
	for _, tok := range tokenize(strings.Join(parts, ", ")) {
		if isUpperASCII(tok) {
			tok = capitalize(tok)
		}
		b.WriteString(tok)
	}
	return b.String()
}
