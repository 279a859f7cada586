// Package geo canonicalizes municipal location names for rule matching.
// Names are folded through jptext first, then stripped of at most one
// trailing administrative particle. Stripping applies to both sides of every
// comparison, so names where the particle is part of the stem (北海道) stay
// consistent with themselves
package geo

import (
	"strings"
	"unicode/utf8"

	"leadscout/internal/core/jptext"
)

// Fold returns the canonical comparison form of a location name
func Fold(s string) string {
	return jptext.Fold(s)
}

// trailing particles for the two administrative levels
// regions: 都 道 府 県, localities: 市 区 町 村
var (
	regionRunes   = []rune{'都', '道', '府', '県'}
	localityRunes = []rune{'市', '区', '町', '村'}

	regionWords   = []string{"prefecture"}
	localityWords = []string{"city", "ward", "town", "village"}
)

// CanonRegion folds s and strips one trailing region particle.
// 東京都 and 東京 compare equal, as do "Osaka Prefecture" and "osaka"
func CanonRegion(s string) string {
	return stripSuffix(Fold(s), regionRunes, regionWords)
}

// CanonLocality folds s and strips one trailing locality particle
// (市 区 町 村, or an English "city"/"ward"/"town"/"village" word)
func CanonLocality(s string) string {
	return stripSuffix(Fold(s), localityRunes, localityWords)
}

// SameRegion reports whether two region names are equal under canonicalization
func SameRegion(a, b string) bool {
	return CanonRegion(a) == CanonRegion(b)
}

// SameLocality reports whether two locality names are equal under canonicalization
func SameLocality(a, b string) bool {
	return CanonLocality(a) == CanonLocality(b)
}

// stripSuffix removes at most one trailing particle, never emptying the name
func stripSuffix(s string, particles []rune, words []string) string {
	if s == "" {
		return s
	}

	for _, w := range words {
		if rest, ok := strings.CutSuffix(s, " "+w); ok && rest != "" {
			return strings.TrimRight(rest, " ")
		}
	}

	last, size := utf8.DecodeLastRuneInString(s)
	if size == 0 || size == len(s) {
		// single-rune names keep their particle (a bare 県 is not a region)
		return s
	}
	for _, p := range particles {
		if last == p {
			return s[:len(s)-size]
		}
	}
	return s
}
