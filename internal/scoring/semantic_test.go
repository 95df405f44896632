package scoring

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applicon/resume-evaluator/internal/parser"
)

type stubVectorizer struct {
	vectors [][]float64
	err     error
}

func (s *stubVectorizer) Encode(_ context.Context, texts []string) ([][]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.vectors[:len(texts)], nil
}

type stubGenerator struct {
	text       string
	err        error
	configured bool
	calls      int
}

func (s *stubGenerator) Complete(context.Context, string, int32, float32) (string, error) {
	s.calls++
	return s.text, s.err
}

func (s *stubGenerator) Configured() bool { return s.configured }

func semanticResume(sections map[string]string) *parser.ParsedResume {
	full := make(map[string]string, len(parser.SectionNames))
	for _, name := range parser.SectionNames {
		full[name] = sections[name]
	}
	return &parser.ParsedResume{
		Text:     "resume body text",
		Sections: full,
	}
}

func TestSimilarity_OmitsEmptySections(t *testing.T) {
	m := NewSemanticMatcher(&stubVectorizer{
		vectors: [][]float64{{1, 0}, {1, 0}},
	}, nil)

	resume := semanticResume(map[string]string{
		"experience": "built backend services",
		"skills":     "python, sql",
	})
	reqs := &parser.JobRequirements{Text: "backend role"}

	result := m.Similarity(context.Background(), resume, reqs)

	require.Contains(t, result.SectionSimilarities, "experience")
	require.Contains(t, result.SectionSimilarities, "skills")
	assert.NotContains(t, result.SectionSimilarities, "education")
	assert.NotContains(t, result.SectionSimilarities, "projects")
}

func TestSimilarity_VectorizationFailureIsNeutral(t *testing.T) {
	m := NewSemanticMatcher(&stubVectorizer{
		err: errors.New("backend unavailable"),
	}, nil)

	resume := semanticResume(map[string]string{"skills": "python"})
	reqs := &parser.JobRequirements{Text: "some role"}

	result := m.Similarity(context.Background(), resume, reqs)

	assert.Equal(t, neutralSimilarity, result.OverallSimilarity)
	assert.Equal(t, neutralSimilarity, result.SectionSimilarities["skills"])
}

func TestFeedback_PrefersGenerator(t *testing.T) {
	gen := &stubGenerator{text: "  Tailor your summary to the role.  ", configured: true}
	m := NewSemanticMatcher(&stubVectorizer{vectors: [][]float64{{1}, {1}}}, gen)

	feedback := m.Feedback(context.Background(), semanticResume(nil), &parser.JobRequirements{Text: "role"})

	assert.Equal(t, "Tailor your summary to the role.", feedback)
	assert.Equal(t, 1, gen.calls)
}

func TestFeedback_FallsBackOnGeneratorError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("quota exhausted"), configured: true}
	m := NewSemanticMatcher(&stubVectorizer{vectors: [][]float64{{1, 0}, {0, 1}}}, gen)

	feedback := m.Feedback(context.Background(), semanticResume(nil), &parser.JobRequirements{Text: "role"})

	assert.True(t, strings.HasPrefix(feedback, "Based on semantic analysis:"))
	assert.Equal(t, 1, gen.calls)
}

func TestFeedback_UnconfiguredGeneratorNeverCalled(t *testing.T) {
	gen := &stubGenerator{text: "should not appear", configured: false}
	m := NewSemanticMatcher(&stubVectorizer{vectors: [][]float64{{1, 0}, {0, 1}}}, gen)

	feedback := m.Feedback(context.Background(), semanticResume(nil), &parser.JobRequirements{Text: "role"})

	assert.True(t, strings.HasPrefix(feedback, "Based on semantic analysis:"))
	assert.Zero(t, gen.calls)
}

func TestRuleBasedFeedback_Buckets(t *testing.T) {
	tests := []struct {
		name    string
		vectors [][]float64
		want    string
	}{
		{"high", [][]float64{{1, 0}, {1, 0}}, "highly relevant"},
		{"low", [][]float64{{1, 0}, {0, 1}}, "tailoring your resume"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewSemanticMatcher(&stubVectorizer{vectors: tt.vectors}, nil)

			feedback := m.Feedback(context.Background(), semanticResume(nil), &parser.JobRequirements{Text: "role"})
			assert.Contains(t, feedback, tt.want)
		})
	}
}

func TestRuleBasedFeedback_FlagsWeakSections(t *testing.T) {
	m := NewSemanticMatcher(&stubVectorizer{vectors: [][]float64{{1, 0}, {0, 1}}}, nil)

	resume := semanticResume(map[string]string{"skills": "unrelated things"})
	feedback := m.Feedback(context.Background(), resume, &parser.JobRequirements{Text: "role"})

	assert.Contains(t, feedback, "Your skills section could be improved")
}

func TestNoopTextGenerator(t *testing.T) {
	var g NoopTextGenerator

	assert.False(t, g.Configured())
	_, err := g.Complete(context.Background(), "prompt", 100, 0.5)
	assert.Error(t, err)
}
