// Package keywords ranks the most frequent content words of a text.
package keywords

import (
	"regexp"
	"sort"
	"strings"
)

// Keyword is a term with its occurrence count.
type Keyword struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// Words are runs of Unicode letters, digits and underscores; only runs made of
// three or more ASCII letters count as tokens, so "résumé" and "python3" yield nothing.
var (
	wordPattern  = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	tokenPattern = regexp.MustCompile(`^[a-z]{3,}$`)
)

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {}, "at": {},
	"to": {}, "for": {}, "of": {}, "with": {}, "by": {}, "from": {}, "as": {}, "is": {}, "was": {},
	"are": {}, "been": {}, "be": {}, "have": {}, "has": {}, "had": {}, "do": {}, "does": {},
	"did": {}, "will": {}, "would": {}, "could": {}, "should": {}, "may": {}, "might": {},
	"must": {}, "can": {}, "this": {}, "that": {}, "these": {}, "those": {},
}

// IsStopWord reports whether term is dropped by Top.
func IsStopWord(term string) bool {
	_, ok := stopWords[term]
	return ok
}

// Top returns the n most frequent non-stop-word tokens of text, highest count first.
// Equal counts keep the order in which the terms first appeared.
func Top(text string, n int) []Keyword {
	if n <= 0 {
		return []Keyword{}
	}

	counts := make(map[string]int)
	var order []string
	for _, tok := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if !tokenPattern.MatchString(tok) || IsStopWord(tok) {
			continue
		}
		if _, seen := counts[tok]; !seen {
			order = append(order, tok)
		}
		counts[tok]++
	}

	ranked := make([]Keyword, 0, len(order))
	for _, term := range order {
		ranked = append(ranked, Keyword{Term: term, Count: counts[term]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Terms returns the terms of list in order.
func Terms(list []Keyword) []string {
	out := make([]string, 0, len(list))
	for _, kw := range list {
		out = append(out, kw.Term)
	}
	return out
}

// Compare splits the job keywords into those the résumé shares and those it lacks.
// Both results follow job keyword rank and hold at most limit terms.
func Compare(resume, job []Keyword, limit int) (matching, missing []string) {
	matching = []string{}
	missing = []string{}
	if limit <= 0 {
		return matching, missing
	}

	have := make(map[string]struct{}, len(resume))
	for _, kw := range resume {
		have[kw.Term] = struct{}{}
	}
	for _, kw := range job {
		if _, ok := have[kw.Term]; ok {
			if len(matching) < limit {
				matching = append(matching, kw.Term)
			}
			continue
		}
		if len(missing) < limit {
			missing = append(missing, kw.Term)
		}
	}
	return matching, missing
}
