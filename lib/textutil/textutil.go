package textutil

import (
	"strings"
	"unicode"

	"github.com/antzucaro/matchr"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName lowercases a name and drops diacritics, whitespace and
// punctuation so that "Äidinkieli, suomi" and "aidinkieli suomi" compare equal.
func NormalizeName(name string) string {
	folded, _, err := transform.String(foldMarks, name)
	if err != nil {
		folded = name
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, folded)
}

type Match struct {
	Value      string
	Similarity float64
}

// BestMatch returns the candidate most similar to `name`. An exact match on the
// normalized form has a similarity of 1, otherwise JaroWinkler over the
// normalized forms is used. The zero Match is returned if there are no candidates.
func BestMatch(name string, candidates []string) Match {
	target := NormalizeName(name)

	var best Match
	for _, candidate := range candidates {
		normalized := NormalizeName(candidate)
		if normalized == target {
			return Match{Value: candidate, Similarity: 1}
		}

		similarity := matchr.JaroWinkler(target, normalized, false)
		if strings.HasPrefix(normalized, target) && similarity < 0.95 {
			similarity = 0.95
		}
		if similarity > best.Similarity {
			best = Match{Value: candidate, Similarity: similarity}
		}
	}
	return best
}
