// Package spotcode derives the short human-readable codes that identify
// storage spots. Codes have the shape ROOM-CONTAINER-LABEL, e.g. a spot
// "Cassetto 1" inside "Armadio grande" in "Camera da letto" becomes
// CAM-ARM-C1. Generation is a pure function; the caller owns persisting
// the result atomically with the spot it names.
package spotcode

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// accentFold maps the accented vowels that show up in Italian room and
// furniture names to their base letters. Input is lowercased before the
// table is applied, so accented capitals fold the same way.
var accentFold = strings.NewReplacer(
	"à", "a", "á", "a", "â", "a",
	"è", "e", "é", "e", "ê", "e",
	"ì", "i", "í", "i", "î", "i",
	"ò", "o", "ó", "o", "ô", "o",
	"ù", "u", "ú", "u", "û", "u",
	"'", "", " ", "",
)

var codePattern = regexp.MustCompile(`^[A-Z]{1,3}-[A-Z]{1,3}-[A-Z0-9]{1,4}[0-9]*$`)

// Generate builds a code from the spot's ancestry and label that is not
// present in existing. The base form is the first three normalized
// letters of the room and container names plus an abbreviation of the
// label; collisions get a numeric suffix starting at 2. Empty inputs
// produce empty segments, and the suffix loop is bounded by
// len(existing)+1, so Generate always returns.
func Generate(roomName, containerName, spotLabel string, existing []string) string {
	taken := make(map[string]struct{}, len(existing))
	for _, c := range existing {
		taken[c] = struct{}{}
	}

	base := strings.ToUpper(take(normalize(roomName), 3)) +
		"-" + strings.ToUpper(take(normalize(containerName), 3)) +
		"-" + strings.ToUpper(abbreviate(spotLabel))

	if _, ok := taken[base]; !ok {
		return base
	}

	suffix := 2
	for {
		candidate := base + strconv.Itoa(suffix)
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
		suffix++
	}
}

// IsValid reports whether code has the generated shape: 1-3 letters,
// dash, 1-3 letters, dash, 1-4 alphanumerics plus an optional numeric
// collision suffix. Used to sanity-check scanned or imported codes.
func IsValid(code string) bool {
	return codePattern.MatchString(code)
}

// normalize lowercases, folds accents, and keeps only letters and
// digits. Non-Latin letters pass through unchanged.
func normalize(s string) string {
	s = accentFold.Replace(strings.ToLower(s))
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// abbreviate shortens a spot label:
//   - one word: its first two normalized letters ("Scrivania" -> "sc")
//   - two words, second numeric: first letter + the number ("Cassetto 1" -> "c1")
//   - two words otherwise: the two initials ("Mensola alta" -> "ma")
//   - three or more words: the first three initials, skipping words that
//     normalize to nothing
func abbreviate(label string) string {
	words := strings.Fields(label)
	switch len(words) {
	case 0:
		return ""
	case 1:
		return take(normalize(words[0]), 2)
	case 2:
		first := normalize(words[0])
		second := normalize(words[1])
		if isNumeric(second) {
			return take(first, 1) + second
		}
		return take(first, 1) + take(second, 1)
	default:
		var b strings.Builder
		for _, w := range words[:3] {
			b.WriteString(take(normalize(w), 1))
		}
		return b.String()
	}
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// take returns the first n runes of s.
func take(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
