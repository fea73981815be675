// Package match scores candidate matches between lost and found reports.
//
// Scoring uses substring containment rather than whole-word matching, so a
// short token can hit inside a longer word ("cat" inside "category"). This is
// kept for compatibility with existing match results; switching to whole-word
// matching would change rankings users have already seen.
package match

import (
	"sort"
	"strings"

	"lostfound/internal/model"
)

// MaxResults is the number of candidates returned per query item.
const MaxResults = 3

// minTokenLength filters short noise words ("the", "a", "red") out of the
// query. Tokens must be strictly longer than this.
const minTokenLength = 3

// Tokenize lowercases and splits the item's title and description into query
// tokens, discarding tokens of length <= 3.
func Tokenize(item model.Item) []string {
	words := strings.Fields(strings.ToLower(item.Title + " " + item.Description))
	tokens := words[:0]
	for _, w := range words {
		if len(w) > minTokenLength {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// Score counts how many query tokens occur as substrings anywhere in the
// candidate's lowercased title and description.
func Score(tokens []string, candidate model.Item) int {
	text := strings.ToLower(candidate.Title + " " + candidate.Description)
	score := 0
	for _, tok := range tokens {
		if strings.Contains(text, tok) {
			score++
		}
	}
	return score
}

// FindMatches returns up to MaxResults items from pool ranked as candidate
// matches for item. Candidates must be of the opposite type, APPROVED, and in
// the same category. Zero-score candidates are dropped. Ties keep the pool's
// original relative order. An empty result means no match, not an error.
func FindMatches(item model.Item, pool []model.Item) []model.Item {
	tokens := Tokenize(item)
	opposite := model.OppositeType(item.Type)

	type scored struct {
		item  model.Item
		score int
	}
	var candidates []scored
	for _, c := range pool {
		if c.Type != opposite || c.Status != model.ItemStatusApproved || c.Category != item.Category {
			continue
		}
		if c.ID == item.ID {
			continue
		}
		if s := Score(tokens, c); s > 0 {
			candidates = append(candidates, scored{c, s})
		}
	}

	// Ties must preserve the pool's input order, hence the stable sort.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	n := len(candidates)
	if n > MaxResults {
		n = MaxResults
	}
	matches := make([]model.Item, 0, n)
	for _, c := range candidates[:n] {
		matches = append(matches, c.item)
	}
	return matches
}
