package scoring

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"applicon/resume-evaluator/internal/parser"
)

const (
	// Truncation guards before vectorization. Oversized inputs are cut
	// silently, not rejected.
	maxDocumentChars = 5000
	maxSectionChars  = 1000
	maxPromptChars   = 2000

	// Substituted when vectorization itself fails.
	neutralSimilarity = 0.5
)

// Sections compared individually against the job description. Sections the
// resume does not have are omitted from the result, not reported as 0.
var similaritySections = []string{"experience", "skills", "education", "projects"}

// SemanticResult carries the cosine similarity between resume and job
// description, overall and per resume section.
type SemanticResult struct {
	OverallSimilarity   float64            `json:"overall_similarity"`
	SectionSimilarities map[string]float64 `json:"section_similarities"`
}

// TextGenerator is the optional generative collaborator used for richer
// feedback prose. Any failure falls back to rule-based feedback.
type TextGenerator interface {
	Complete(ctx context.Context, prompt string, maxTokens int32, temperature float32) (string, error)
	Configured() bool
}

// NoopTextGenerator is the null-object default: never configured, always
// failing.
type NoopTextGenerator struct{}

func (NoopTextGenerator) Complete(context.Context, string, int32, float32) (string, error) {
	return "", errors.New("text generator not configured")
}

func (NoopTextGenerator) Configured() bool { return false }

// SemanticMatcher compares resume and job description text as vectors. The
// vectorizer backend is chosen once at startup and reused across calls.
type SemanticMatcher struct {
	vectorizer    TextVectorizer
	generator     TextGenerator
	promptBuilder *PromptBuilder
}

func NewSemanticMatcher(vectorizer TextVectorizer, generator TextGenerator) *SemanticMatcher {
	if generator == nil {
		generator = NoopTextGenerator{}
	}
	return &SemanticMatcher{
		vectorizer:    vectorizer,
		generator:     generator,
		promptBuilder: NewPromptBuilder(),
	}
}

// Similarity computes the overall resume/job-description similarity plus a
// per-section breakdown for every non-empty resume section.
func (m *SemanticMatcher) Similarity(ctx context.Context, resume *parser.ParsedResume, reqs *parser.JobRequirements) *SemanticResult {
	overall := m.pairSimilarity(ctx,
		truncate(reqs.Text, maxDocumentChars),
		truncate(resume.Text, maxDocumentChars),
	)

	sections := make(map[string]float64)
	for _, name := range similaritySections {
		sectionText := resume.Sections[name]
		if sectionText == "" {
			continue
		}
		sections[name] = m.pairSimilarity(ctx,
			truncate(sectionText, maxSectionChars),
			truncate(reqs.Text, maxSectionChars),
		)
	}

	return &SemanticResult{
		OverallSimilarity:   overall,
		SectionSimilarities: sections,
	}
}

// Feedback produces prose feedback, preferring the generative collaborator
// and degrading to deterministic rule-based prose on any failure.
func (m *SemanticMatcher) Feedback(ctx context.Context, resume *parser.ParsedResume, reqs *parser.JobRequirements) string {
	if m.generator.Configured() {
		prompt := m.promptBuilder.BuildFeedbackPrompt(
			truncate(reqs.Text, maxPromptChars),
			truncate(resume.Text, maxPromptChars),
		)

		text, err := m.generator.Complete(ctx, prompt, 300, 0.7)
		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
		log.Printf("⚠️  Generative feedback failed, falling back to rule-based: %v\n", err)
	}

	return m.ruleBasedFeedback(ctx, resume, reqs)
}

func (m *SemanticMatcher) ruleBasedFeedback(ctx context.Context, resume *parser.ParsedResume, reqs *parser.JobRequirements) string {
	result := m.Similarity(ctx, resume, reqs)

	var b strings.Builder
	b.WriteString("Based on semantic analysis:\n")

	switch {
	case result.OverallSimilarity > 0.8:
		b.WriteString("- Your resume content is highly relevant to this position.\n")
	case result.OverallSimilarity > 0.6:
		b.WriteString("- Your resume shows moderate relevance to this position.\n")
	default:
		b.WriteString("- Consider tailoring your resume more closely to this position.\n")
	}

	for _, name := range similaritySections {
		if similarity, ok := result.SectionSimilarities[name]; ok && similarity < 0.5 {
			fmt.Fprintf(&b, "- Your %s section could be improved to better match the job requirements.\n", name)
		}
	}

	return b.String()
}

func (m *SemanticMatcher) pairSimilarity(ctx context.Context, a, b string) float64 {
	vectors, err := m.vectorizer.Encode(ctx, []string{a, b})
	if err != nil || len(vectors) < 2 {
		log.Printf("⚠️  Vectorization failed, using neutral similarity: %v\n", err)
		return neutralSimilarity
	}

	similarity := cosineSimilarity(vectors[0], vectors[1])
	if similarity < 0 {
		return 0
	}
	if similarity > 1 {
		return 1
	}
	return similarity
}

func truncate(text string, limit int) string {
	if len(text) > limit {
		return text[:limit]
	}
	return text
}
