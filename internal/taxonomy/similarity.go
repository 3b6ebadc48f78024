package taxonomy

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var asciiFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize reduces a display name to its comparison form: diacritics
// folded away, lower-cased, "&" spelled out, and non-alphanumeric runs
// collapsed to single spaces.
func Normalize(name string) string {
	folded, _, err := transform.String(asciiFolder, name)
	if err != nil {
		folded = name
	}

	folded = strings.ToLower(folded)
	folded = strings.ReplaceAll(folded, "&", " and ")

	var b strings.Builder
	lastSpace := true
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// DiceSimilarity scores two normalized strings by their shared character
// bigrams: 1.0 for identical non-empty strings, even short ones; otherwise
// 0.0 when either has fewer than three characters.
func DiceSimilarity(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0.0
		}
		return 1.0
	}

	ra, rb := []rune(a), []rune(b)
	if len(ra) < 3 || len(rb) < 3 {
		return 0.0
	}

	bigramsA := bigrams(ra)
	bigramsB := bigrams(rb)

	shared := 0
	for bg, countA := range bigramsA {
		if countB, ok := bigramsB[bg]; ok {
			shared += min(countA, countB)
		}
	}

	totalA := len(ra) - 1
	totalB := len(rb) - 1
	return 2.0 * float64(shared) / float64(totalA+totalB)
}

func bigrams(runes []rune) map[string]int {
	grams := make(map[string]int, len(runes))
	for i := 0; i+1 < len(runes); i++ {
		grams[string(runes[i:i+2])]++
	}
	return grams
}
