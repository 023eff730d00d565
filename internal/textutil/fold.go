// Package textutil holds the accent-insensitive string helpers shared by the
// report classifier and the generated-file namer.
package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var lower = cases.Lower(language.BrazilianPortuguese)

// Fold lower-cases s and strips combining marks, so "Aniversário" becomes "aniversario".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return lower.String(out)
}

// ContainsAny reports whether the folded s contains any of the folded needles.
func ContainsAny(s string, needles ...string) bool {
	f := Fold(s)
	for _, n := range needles {
		if strings.Contains(f, Fold(n)) {
			return true
		}
	}
	return false
}

var unsafeFileChars = regexp.MustCompile(`[^a-z0-9\-_.]+`)

// SafeFileName turns a free-form title into a lower-case file-name stem.
func SafeFileName(title string, maxLen int) string {
	s := unsafeFileChars.ReplaceAllString(Fold(strings.TrimSpace(title)), "-")
	s = strings.Trim(s, "-.")
	if maxLen > 0 && len(s) > maxLen {
		s = strings.TrimRight(s[:maxLen], "-.")
	}
	return s
}

// Label turns a content key such as "dataRealizacao" into "Data Realizacao".
func Label(key string) string {
	var b strings.Builder
	for i, r := range key {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
