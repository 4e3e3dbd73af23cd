package match

import (
	"strings"
	"unicode"
)

// collectionSuffixes are stripped by NormalizeIdentWithSuffixStrip, longest first.
var collectionSuffixes = []string{"array", "list", "ids", "id", "s"}

// NormalizeIdent lowercases an identifier and drops separators, so that
// kebab-case element names, lowerCamel attribute names and exported Go
// field names normalise to the same string.
func NormalizeIdent(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if isSeparator(r) {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

// NormalizeIdentWithSuffixStrip normalises and additionally strips one
// collection or identifier suffix ("columnList" -> "column").
func NormalizeIdentWithSuffixStrip(s string) string {
	normalized := NormalizeIdent(s)

	for _, suffix := range collectionSuffixes {
		if strings.HasSuffix(normalized, suffix) && len(normalized) > len(suffix)+1 {
			return strings.TrimSuffix(normalized, suffix)
		}
	}

	return normalized
}

// TokenizeIdent splits an identifier into lowercase words at separators and
// case changes: "XMLParser" -> ["xml", "parser"], "foreign-key" -> ["foreign", "key"].
func TokenizeIdent(s string) []string {
	var (
		tokens  []string
		current []rune
	)

	flush := func() {
		if len(current) > 0 {
			tokens = append(tokens, strings.ToLower(string(current)))
			current = current[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			flush()
			continue
		}

		if i > 0 && startsWord(runes, i) {
			flush()
		}

		current = append(current, r)
	}

	flush()

	return tokens
}

// ToExportedName converts a property name in any of the supported spellings
// to an exported Go identifier: "foreign-key" -> "ForeignKey", "javaName" -> "JavaName".
func ToExportedName(s string) string {
	var b strings.Builder

	upper := true

	for _, r := range s {
		if isSeparator(r) {
			upper = true
			continue
		}

		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}

		b.WriteRune(r)
	}

	return b.String()
}

// ToKebabName converts an identifier to the kebab-case spelling used for element names.
func ToKebabName(s string) string {
	return strings.Join(TokenizeIdent(s), "-")
}

// ToLowerCamelName converts an identifier to the lowerCamel spelling used for attribute names.
func ToLowerCamelName(s string) string {
	tokens := TokenizeIdent(s)
	for i := 1; i < len(tokens); i++ {
		tokens[i] = strings.ToUpper(tokens[i][:1]) + tokens[i][1:]
	}

	return strings.Join(tokens, "")
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

// startsWord reports whether a new word begins at runes[i]: a lower to upper
// transition ("orderId"), or the last capital of an acronym ("XMLParser").
func startsWord(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return true
	}

	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
