package classifier

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var criticalTerms = []string{
	"bị thương", "thương nặng", "mắc kẹt", "đuối nước", "chết đuối", "cấp cứu",
	"nguy kịch", "chảy máu", "bất tỉnh", "khó thở", "sắp chìm", "sắp sập",
	"injured", "injury", "trapped", "drowning", "bleeding", "unconscious",
	"not breathing", "heart attack", "collapsed", "sinking",
}

var highTerms = []string{
	"ngập", "lũ", "sơ tán", "cô lập", "nước dâng", "nước lên", "trên mái",
	"hết lương thực", "hết nước uống", "người già", "trẻ em", "bà bầu", "sạt lở",
	"flood", "flooded", "flooding", "stranded", "evacuate", "evacuation",
	"water rising", "roof", "elderly", "children", "pregnant", "landslide",
	"no food", "no water",
}

// Keyword classifies messages by matching Vietnamese and English rescue
// vocabulary. It is deterministic and needs no network access. Matching
// ignores case and diacritics, so "bi thuong" matches "bị thương".
type Keyword struct {
	critical [][]string
	high     [][]string
}

// NewKeyword returns a Keyword classifier with the built-in lexicon.
func NewKeyword() *Keyword {
	return &Keyword{
		critical: tokenizeAll(criticalTerms),
		high:     tokenizeAll(highTerms),
	}
}

// Classify scores message against the lexicon. Any critical term yields
// Critical, otherwise any high term yields High, otherwise Low. Confidence
// grows with the number of distinct matching terms.
func (k *Keyword) Classify(ctx context.Context, message string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	words := tokenize(message)

	if hits := countMatches(words, k.critical); hits > 0 {
		return Result{Label: Critical, Confidence: score(hits)}, nil
	}
	if hits := countMatches(words, k.high); hits > 0 {
		return Result{Label: High, Confidence: score(hits)}, nil
	}

	return Result{Label: Low, Confidence: 0.6}, nil
}

// score maps 1 hit to 0.85, 2 to 0.95, and caps at 0.99.
func score(hits int) float64 {
	return math.Min(0.75+0.1*float64(hits), 0.99)
}

func countMatches(words []string, phrases [][]string) int {
	hits := 0
	for _, phrase := range phrases {
		if containsPhrase(words, phrase) {
			hits++
		}
	}
	return hits
}

func containsPhrase(words, phrase []string) bool {
	if len(phrase) == 0 || len(phrase) > len(words) {
		return false
	}
outer:
	for i := 0; i+len(phrase) <= len(words); i++ {
		for j, p := range phrase {
			if words[i+j] != p {
				continue outer
			}
		}
		return true
	}
	return false
}

func tokenizeAll(terms []string) [][]string {
	out := make([][]string, 0, len(terms))
	for _, t := range terms {
		out = append(out, tokenize(t))
	}
	return out
}

func tokenize(s string) []string {
	return strings.FieldsFunc(fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

var dStroke = strings.NewReplacer("đ", "d")

// fold lowercases s and strips diacritics.
func fold(s string) string {
	s = strings.ToLower(s)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return dStroke.Replace(folded)
}
