// Package matcher judges whether two free-text worker names denote the
// same person despite whitespace, full-width/half-width, and
// katakana/hiragana differences.
package matcher

import (
	"strings"
	"unicode"
)

// minSubstringRunes is the floor for substring matching. A single kana
// (one mora) appears in too many names to be evidence of identity.
const minSubstringRunes = 2

// Normalize canonicalizes a name for comparison: strip all whitespace
// (including the ideographic space U+3000), fold full-width
// alphanumerics and punctuation to half-width, fold katakana to
// hiragana, and lowercase. Pure and total; runs across hundreds of
// author strings per cycle.
func Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	for _, r := range name {
		if unicode.IsSpace(r) {
			continue
		}

		// Full-width ASCII block (！ U+FF01 .. ～ U+FF5E) folds to
		// half-width by a fixed offset.
		if r >= 0xFF01 && r <= 0xFF5E {
			r -= 0xFEE0
		}

		// Katakana (ァ U+30A1 .. ヶ U+30F6) folds to hiragana by a
		// fixed code-point shift.
		if r >= 0x30A1 && r <= 0x30F6 {
			r -= 0x60
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

// Match reports whether a and b denote the same worker. Exact match
// after normalization, or a substring relation in either direction when
// the shorter normalized form has at least two runes.
func Match(a, b string) bool {
	na := Normalize(a)
	nb := Normalize(b)

	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}

	shorter, longer := na, nb
	if runeLen(shorter) > runeLen(longer) {
		shorter, longer = longer, shorter
	}
	if runeLen(shorter) < minSubstringRunes {
		return false
	}

	return strings.Contains(longer, shorter)
}

func runeLen(s string) int {
	return len([]rune(s))
}
