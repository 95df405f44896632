package scoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTFIDFEncode_IdenticalTexts(t *testing.T) {
	v := NewTFIDFVectorizer()

	vectors, err := v.Encode(context.Background(),
		[]string{"python backend developer", "python backend developer"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)

	assert.InDelta(t, 1.0, cosineSimilarity(vectors[0], vectors[1]), 1e-9)
}

func TestTFIDFEncode_DisjointTexts(t *testing.T) {
	v := NewTFIDFVectorizer()

	vectors, err := v.Encode(context.Background(),
		[]string{"python django postgresql", "marketing sales outreach"})
	require.NoError(t, err)

	assert.InDelta(t, 0.0, cosineSimilarity(vectors[0], vectors[1]), 1e-9)
}

func TestTFIDFEncode_OverlapRanksHigher(t *testing.T) {
	v := NewTFIDFVectorizer()

	jd := "senior python developer with django experience"
	closeResume := "python developer, django projects, five years"
	farResume := "graphic designer working in print media"

	closeVectors, err := v.Encode(context.Background(), []string{jd, closeResume})
	require.NoError(t, err)
	farVectors, err := v.Encode(context.Background(), []string{jd, farResume})
	require.NoError(t, err)

	closeSim := cosineSimilarity(closeVectors[0], closeVectors[1])
	farSim := cosineSimilarity(farVectors[0], farVectors[1])

	assert.Greater(t, closeSim, farSim)
}

func TestTFIDFEncode_Errors(t *testing.T) {
	v := NewTFIDFVectorizer()

	_, err := v.Encode(context.Background(), nil)
	assert.Error(t, err)

	// Single characters and stop words leave nothing to build a vocabulary
	// from.
	_, err = v.Encode(context.Background(), []string{"a b c", "& the of"})
	assert.Error(t, err)
}

func TestTFIDFEncode_Deterministic(t *testing.T) {
	v := NewTFIDFVectorizer()
	texts := []string{"python developer backend services", "java engineer backend systems"}

	first, err := v.Encode(context.Background(), texts)
	require.NoError(t, err)
	second, err := v.Encode(context.Background(), texts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTermCounts_Bigrams(t *testing.T) {
	counts := termCounts("machine learning engineer")

	assert.Equal(t, 1, counts["machine"])
	assert.Equal(t, 1, counts["machine learning"])
	assert.Equal(t, 1, counts["learning engineer"])
	assert.NotContains(t, counts, "machine learning engineer")
}

func TestTermCounts_DropsStopWords(t *testing.T) {
	counts := termCounts("experience with the python")

	assert.NotContains(t, counts, "with")
	assert.NotContains(t, counts, "the")
	// Bigrams bridge removed stop words.
	assert.Equal(t, 1, counts["experience python"])
}

func TestSelectVocabulary_CapsAndOrders(t *testing.T) {
	totals := map[string]int{"common": 10, "rare": 1, "middling": 5, "alpha": 5}

	vocab := selectVocabulary(totals, 3)

	require.Len(t, vocab, 3)
	assert.Contains(t, vocab, "common")
	assert.Contains(t, vocab, "alpha")
	assert.Contains(t, vocab, "middling")
	assert.NotContains(t, vocab, "rare")
	// Ties break alphabetically.
	assert.Less(t, vocab["alpha"], vocab["middling"])
}
