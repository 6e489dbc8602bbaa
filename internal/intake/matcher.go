package intake

import (
	"slices"
	"strings"
	"unicode"

	"github.com/kiwari-pos/stockbook/internal/inventory"
)

// MatchStatus represents the status of a match operation
type MatchStatus int

const (
	Matched MatchStatus = iota
	Ambiguous
	Unmatched
)

func (s MatchStatus) String() string {
	switch s {
	case Matched:
		return "Matched"
	case Ambiguous:
		return "Ambiguous"
	case Unmatched:
		return "Unmatched"
	default:
		return "Unknown"
	}
}

// MatchResult contains the result of a matching operation
type MatchResult struct {
	Status     MatchStatus
	Product    *inventory.Product  // when Matched
	Candidates []inventory.Product // when Ambiguous, closest first
}

// Matcher finds catalog products by name, ignoring case, punctuation and
// word order.
type Matcher struct {
	products []inventory.Product
	tokens   [][]string // pre-tokenized names per product
}

// NewMatcher creates a Matcher with pre-tokenized product names.
func NewMatcher(products []inventory.Product) *Matcher {
	m := &Matcher{
		products: products,
		tokens:   make([][]string, len(products)),
	}
	for i, p := range products {
		m.tokens[i] = tokenize(normalize(p.Name))
	}
	return m
}

// Match returns Matched when exactly one product has the same set of name
// words, Ambiguous when the words are a strict subset of one or more
// product names, and Unmatched otherwise.
func (m *Matcher) Match(name string) MatchResult {
	input := tokenize(normalize(name))
	if len(input) == 0 {
		return MatchResult{Status: Unmatched}
	}

	type scoredProduct struct {
		product inventory.Product
		extra   int // product words not in the input
	}

	var scored []scoredProduct
	for i, p := range m.products {
		words := m.tokens[i]

		// Hard filter: every input word must appear in the name
		if !containsAll(words, input) {
			continue
		}
		scored = append(scored, scoredProduct{product: p, extra: len(unique(words)) - len(unique(input))})
	}

	if len(scored) == 0 {
		return MatchResult{Status: Unmatched}
	}

	slices.SortStableFunc(scored, func(a, b scoredProduct) int { return a.extra - b.extra })

	var exact []inventory.Product
	for _, s := range scored {
		if s.extra == 0 {
			exact = append(exact, s.product)
		}
	}
	if len(exact) == 1 {
		return MatchResult{Status: Matched, Product: &exact[0]}
	}

	candidates := make([]inventory.Product, len(scored))
	for i, s := range scored {
		candidates[i] = s.product
	}
	return MatchResult{Status: Ambiguous, Candidates: candidates}
}

func containsAll(words, input []string) bool {
	for _, tok := range input {
		if !slices.Contains(words, tok) {
			return false
		}
	}
	return true
}

func unique(tokens []string) []string {
	out := slices.Clone(tokens)
	slices.Sort(out)
	return slices.Compact(out)
}

// normalize converts a string to lowercase and replaces non-alphanumeric chars with spaces
func normalize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(' ')
		}
	}

	// Collapse multiple spaces
	return strings.Join(strings.Fields(sb.String()), " ")
}

// tokenize splits a string on whitespace
func tokenize(s string) []string {
	return strings.Fields(s)
}
