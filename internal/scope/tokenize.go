package scope

import (
	"strings"
	"unicode"

	"github.com/pelicanstate/constructhub/internal/domain"
)

// MaxKeywords caps the number of tokens kept from scope text.
const MaxKeywords = 50

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"but": {}, "by": {}, "for": {}, "from": {}, "has": {}, "have": {},
	"i": {}, "in": {}, "into": {}, "is": {}, "it": {}, "its": {}, "me": {},
	"my": {}, "need": {}, "needs": {}, "of": {}, "on": {}, "or": {},
	"our": {}, "please": {}, "so": {}, "that": {}, "the": {}, "their": {},
	"this": {}, "to": {}, "us": {}, "was": {}, "we": {}, "will": {},
	"with": {}, "would": {}, "you": {}, "your": {},
}

// Tokenize lowercases text, replaces non-alphanumerics with spaces, drops
// stopwords and keeps at most MaxKeywords tokens in input order.
func Tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)

	tokens := make([]string, 0, 16)
	for _, tok := range strings.Fields(cleaned) {
		if _, stop := stopwords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
		if len(tokens) == MaxKeywords {
			break
		}
	}
	return tokens
}

type jurisdictionHint struct {
	jurisdiction domain.Jurisdiction
	phrases      []string
}

// Checked in order; the first jurisdiction with a matching phrase wins.
var jurisdictionHints = []jurisdictionHint{
	{domain.JurisdictionNewOrleans, []string{"new orleans", "nola", "orleans parish", "french quarter", "marigny", "treme"}},
	{domain.JurisdictionBatonRouge, []string{"baton rouge", "ebr", "east baton rouge"}},
	{domain.JurisdictionLouisiana, []string{"louisiana", "statewide", "lafayette", "shreveport", "lake charles"}},
}

// DetectJurisdiction scans the joined tokens for whole-word hint phrases.
func DetectJurisdiction(tokens []string) *domain.Jurisdiction {
	if len(tokens) == 0 {
		return nil
	}
	joined := " " + strings.Join(tokens, " ") + " "
	for _, hint := range jurisdictionHints {
		for _, phrase := range hint.phrases {
			if strings.Contains(joined, " "+phrase+" ") {
				j := hint.jurisdiction
				return &j
			}
		}
	}
	return nil
}
