package matching

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Field identifies which corpus field an entry was built from.
type Field int

const (
	FieldName Field = iota
	FieldSynonym
)

// Entry is one searchable row of the corpus: a product contributes one entry
// for its canonical name and one per known synonym, each carrying the
// canonical name back-reference so results collapse per product.
type Entry struct {
	Text          string
	Field         Field
	CanonicalName string
	Category      string
}

const (
	// scoreThreshold is the normalized relevance cutoff; lower scores are better.
	scoreThreshold = 0.3
	// minMatchLength is the minimum query length considered at all.
	minMatchLength = 2
	// substringScore tags backfill results found by plain substring scan.
	substringScore = 0.5

	weightName     = 0.5
	weightSynonym  = 0.3
	weightCategory = 0.2

	// fieldPenalty keeps even perfect field matches ordered by field weight.
	fieldPenalty = 0.05
	// tokenGapPenalty ranks longer titles below an equally matching short one.
	tokenGapPenalty = 0.02
)

func fieldWeight(f Field) float64 {
	if f == FieldSynonym {
		return weightSynonym
	}
	return weightName
}

// scoreEntry scores a normalized query against one corpus entry. The boolean
// reports whether the entry clears the relevance threshold.
func scoreEntry(query string, e Entry) (float64, bool) {
	if utf8.RuneCountInString(query) < minMatchLength {
		return 1, false
	}

	best := scaledScore(textScore(query, e.Text), fieldWeight(e.Field))
	if e.Category != "" {
		if cat := scaledScore(textScore(query, e.Category), weightCategory); cat < best {
			best = cat
		}
	}
	return best, best <= scoreThreshold
}

// scaledScore folds the field weight into the raw text distance: heavier
// fields tolerate more distance before falling out of the threshold.
func scaledScore(raw, weight float64) float64 {
	return (1 - weight) * (raw + fieldPenalty)
}

// textScore is a normalized edit distance in [0,1] that tolerates token
// reordering and partial token hits; 0 means identical.
func textScore(query, text string) float64 {
	if query == "" || text == "" {
		return 1
	}
	if query == text {
		return 0
	}

	best := distanceRatio(query, text)
	if reordered := distanceRatio(sortedTokens(query), sortedTokens(text)); reordered < best {
		best = reordered
	}
	if aligned := tokenAlignment(query, text); aligned < best {
		best = aligned
	}
	return best
}

func distanceRatio(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 0
	}
	return float64(levenshtein.ComputeDistance(a, b)) / float64(longest)
}

func sortedTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// tokenAlignment matches each query token against its best text token, so
// "tomato" still lands on "cherry tomatoes". A mild penalty on the token
// count gap keeps the exact title ahead of its longer variants.
func tokenAlignment(query, text string) float64 {
	queryTokens := strings.Fields(query)
	textTokens := strings.Fields(text)
	if len(queryTokens) == 0 || len(textTokens) == 0 {
		return 1
	}

	total := 0.0
	for _, qt := range queryTokens {
		best := 1.0
		for _, tt := range textTokens {
			if ratio := distanceRatio(qt, tt); ratio < best {
				best = ratio
			}
		}
		total += best
	}

	gap := len(textTokens) - len(queryTokens)
	if gap < 0 {
		gap = -gap
	}
	return total/float64(len(queryTokens)) + tokenGapPenalty*float64(gap)
}
