package parser

import (
	"regexp"
	"strings"
)

var keywordPattern = regexp.MustCompile(`\b[A-Za-z]{3,}\b`)

// resumeStopWords is the base list of English function words removed during
// keyword extraction. Loaded once; treated as read-only.
var resumeStopWords = makeSet([]string{
	"the", "and", "or", "but", "in", "on", "at", "to", "for", "of", "with",
	"by", "is", "are", "was", "were", "i", "have", "am", "my", "me", "as",
	"a", "an", "be", "been", "being", "has", "had", "do", "does", "did",
	"will", "would", "could", "should", "may", "might", "must", "can",
	"this", "that", "these", "those",
})

// jobPostingStopWords extends the base list with job-posting boilerplate so
// that words like "requirements" never count as matchable keywords.
var jobPostingStopWords = merge(resumeStopWords, makeSet([]string{
	"job", "description", "position", "role", "responsibilities",
	"requirements", "required", "we", "looking",
}))

func makeSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func merge(sets ...map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for _, s := range sets {
		for w := range s {
			out[w] = struct{}{}
		}
	}
	return out
}

// extractKeywords tokenizes text into lowercase alphabetic tokens of length
// >= 3, drops stop words and collapses duplicates. Order follows first
// occurrence but carries no meaning.
func extractKeywords(text string, stopWords map[string]struct{}) []string {
	tokens := keywordPattern.FindAllString(text, -1)

	seen := make(map[string]struct{}, len(tokens))
	var keywords []string
	for _, token := range tokens {
		word := strings.ToLower(token)
		if _, stop := stopWords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		keywords = append(keywords, word)
	}
	return keywords
}
