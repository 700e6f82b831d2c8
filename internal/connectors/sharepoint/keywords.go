package sharepoint

import "strings"

// maxSearchTerms caps how many significant words feed the drive search.
// Graph ranks short keyword queries better than whole sentences.
const maxSearchTerms = 6

// stopwords lists question scaffolding that adds noise to a drive search.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"do": {}, "does": {}, "did": {}, "have": {}, "has": {}, "had": {},
	"can": {}, "could": {}, "should": {}, "would": {}, "will": {}, "may": {}, "might": {},
	"what": {}, "whats": {}, "what's": {}, "who": {}, "when": {}, "where": {},
	"why": {}, "how": {}, "which": {},
	"of": {}, "for": {}, "to": {}, "in": {}, "on": {}, "at": {}, "by": {},
	"with": {}, "about": {}, "from": {}, "into": {},
	"and": {}, "or": {}, "not": {}, "no": {}, "any": {}, "some": {},
	"our": {}, "my": {}, "your": {}, "their": {}, "its": {}, "it's": {}, "it": {},
	"we": {}, "us": {}, "you": {}, "they": {}, "them": {}, "i": {}, "me": {},
	"this": {}, "that": {}, "these": {}, "those": {}, "there": {}, "here": {},
	"please": {}, "tell": {}, "show": {}, "give": {},
}

// searchQuery reduces a question to its significant terms. When stripping
// leaves nothing, the trimmed question itself is used so the search still
// runs.
func searchQuery(question string) string {
	terms := make([]string, 0, maxSearchTerms)
	for _, field := range strings.Fields(strings.ToLower(question)) {
		word := strings.Trim(field, ".,;:!?\"()[]{}")
		if word == "" {
			continue
		}
		if _, skip := stopwords[word]; skip {
			continue
		}
		terms = append(terms, word)
		if len(terms) == maxSearchTerms {
			break
		}
	}
	if len(terms) == 0 {
		return strings.TrimSpace(question)
	}
	return strings.Join(terms, " ")
}
