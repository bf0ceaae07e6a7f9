package utils

import (
	"regexp"
	"strings"
)

// Hangul syllable phoneme tables for pronunciation transliteration. These are
// approximate phonetic mappings, not a standards-compliant romanization: the
// initial table keeps a blank entry for the null initial, and the final table
// maps consonant clusters to their spoken value. App ids derived from them
// must stay stable, so the tables are fixed.
var (
	hangulInitials = [19]string{
		"g", "kk", "n", "d", "tt", "r", "m", "b", "pp", "s",
		"ss", "", "j", "jj", "ch", "k", "t", "p", "h",
	}
	hangulMedials = [21]string{
		"a", "ae", "ya", "yae", "eo", "e", "yeo", "ye", "o", "wa",
		"wae", "oe", "yo", "u", "wo", "we", "wi", "yu", "eu", "ui", "i",
	}
	hangulFinals = [28]string{
		"", "k", "k", "k", "n", "n", "n", "t", "l", "l",
		"l", "l", "l", "l", "l", "l", "m", "p", "p", "t",
		"t", "ng", "t", "t", "k", "t", "p", "t",
	}
)

const (
	hangulBase = 0xAC00
	hangulLast = 0xD7A3
)

// RomanizeKorean transliterates Hangul syllables to Latin letters by
// decomposing each syllable into initial, medial and final phonemes.
// Non-Hangul characters pass through unchanged.
func RomanizeKorean(text string) string {
	var b strings.Builder
	for _, r := range text {
		if r >= hangulBase && r <= hangulLast {
			offset := int(r - hangulBase)
			ini := offset / (21 * 28)
			med := (offset % (21 * 28)) / 28
			fin := offset % 28
			b.WriteString(hangulInitials[ini])
			b.WriteString(hangulMedials[med])
			b.WriteString(hangulFinals[fin])
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace   = regexp.MustCompile(`\s+`)
	slugHyphenRuns   = regexp.MustCompile(`-+`)
	appIDInvalid     = regexp.MustCompile(`[^a-z0-9-]`)
)

// SanitizeAppID normalizes a caller-supplied app id: lowercase, then drop
// every character outside [a-z0-9-]. Ids appear in URL paths, so nothing
// else is allowed through.
func SanitizeAppID(id string) string {
	return appIDInvalid.ReplaceAllString(strings.ToLower(strings.TrimSpace(id)), "")
}

// Slugify derives the canonical app id from a display name: Hangul
// transliteration followed by standard slugification.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(RomanizeKorean(name)))
	s = slugInvalidChars.ReplaceAllString(s, "")
	s = slugWhitespace.ReplaceAllString(s, "-")
	s = slugHyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
