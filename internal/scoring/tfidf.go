package scoring

import (
	"context"
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
)

const tfidfMaxFeatures = 5000

var tfidfTokenPattern = regexp.MustCompile(`[a-zA-Z0-9]{2,}`)

// A compact English stop-word list for the TF-IDF vocabulary. Kept separate
// from the parser's keyword lists: those shape what counts as a skill, this
// only shapes the comparison space.
var tfidfStopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"but": {}, "by": {}, "for": {}, "from": {}, "had": {}, "has": {},
	"have": {}, "in": {}, "is": {}, "it": {}, "of": {}, "on": {}, "or": {},
	"our": {}, "that": {}, "the": {}, "this": {}, "to": {}, "was": {},
	"were": {}, "will": {}, "with": {}, "you": {}, "your": {},
}

type tfidfVectorizer struct {
	maxFeatures int
}

// NewTFIDFVectorizer returns the corpus-local backend: each Encode call fits
// a fresh vocabulary of 1-2 word n-grams (capped at 5000 features) on the
// texts it is given, so no state survives between calls.
func NewTFIDFVectorizer() TextVectorizer {
	return &tfidfVectorizer{maxFeatures: tfidfMaxFeatures}
}

func (v *tfidfVectorizer) Encode(_ context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, errors.New("empty corpus")
	}

	docs := make([]map[string]int, len(texts))
	totals := make(map[string]int)
	docFreq := make(map[string]int)

	for i, text := range texts {
		docs[i] = termCounts(text)
		for term, count := range docs[i] {
			totals[term] += count
			docFreq[term]++
		}
	}

	if len(totals) == 0 {
		return nil, errors.New("no terms survived tokenization")
	}

	vocab := selectVocabulary(totals, v.maxFeatures)

	idf := make(map[string]float64, len(vocab))
	n := float64(len(texts))
	for term := range vocab {
		idf[term] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	vectors := make([][]float64, len(texts))
	for i, counts := range docs {
		vector := make([]float64, len(vocab))
		for term, count := range counts {
			if idx, ok := vocab[term]; ok {
				vector[idx] = float64(count) * idf[term]
			}
		}
		l2Normalize(vector)
		vectors[i] = vector
	}

	return vectors, nil
}

// termCounts tokenizes one document into lowercase unigram and bigram
// counts with stop words removed.
func termCounts(text string) map[string]int {
	raw := tfidfTokenPattern.FindAllString(strings.ToLower(text), -1)

	tokens := raw[:0]
	for _, token := range raw {
		if _, stop := tfidfStopWords[token]; !stop {
			tokens = append(tokens, token)
		}
	}

	counts := make(map[string]int, len(tokens)*2)
	for i, token := range tokens {
		counts[token]++
		if i+1 < len(tokens) {
			counts[token+" "+tokens[i+1]]++
		}
	}
	return counts
}

// selectVocabulary keeps the most frequent terms, breaking frequency ties
// alphabetically so encoding stays deterministic.
func selectVocabulary(totals map[string]int, maxFeatures int) map[string]int {
	terms := make([]string, 0, len(totals))
	for term := range totals {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if totals[terms[i]] != totals[terms[j]] {
			return totals[terms[i]] > totals[terms[j]]
		}
		return terms[i] < terms[j]
	})

	if len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}

	vocab := make(map[string]int, len(terms))
	for i, term := range terms {
		vocab[term] = i
	}
	return vocab
}

func l2Normalize(vector []float64) {
	var sum float64
	for _, value := range vector {
		sum += value * value
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vector {
		vector[i] /= norm
	}
}
