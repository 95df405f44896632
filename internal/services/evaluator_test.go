package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"applicon/resume-evaluator/internal/models"
	"applicon/resume-evaluator/internal/parser"
	"applicon/resume-evaluator/internal/repositories"
	"applicon/resume-evaluator/internal/scoring"
)

// stubDocParser serves canned text per path and mirrors the real parser's
// error contract for unsupported extensions.
type stubDocParser struct {
	texts map[string]string
}

func (s *stubDocParser) ExtractText(filePath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	if ext != ".pdf" && ext != ".docx" {
		return "", fmt.Errorf("%w: %s", parser.ErrUnsupportedFormat, ext)
	}
	text, ok := s.texts[filePath]
	if !ok || text == "" {
		return "", fmt.Errorf("%w: %s", parser.ErrExtractionFailed, filePath)
	}
	return text, nil
}

type fakeEvalRepo struct {
	created []*models.Evaluation
	err     error
}

func (f *fakeEvalRepo) Create(eval *models.Evaluation) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, eval)
	return nil
}

func (f *fakeEvalRepo) FindByID(id uuid.UUID) (*models.Evaluation, error) {
	for _, eval := range f.created {
		if eval.ID == id {
			return eval, nil
		}
	}
	return nil, fmt.Errorf("evaluation not found")
}

func (f *fakeEvalRepo) List(repositories.ListFilter) ([]models.Evaluation, error) {
	return nil, nil
}

func (f *fakeEvalRepo) TopByTitle(string, int) ([]models.Evaluation, error) {
	return nil, nil
}

func (f *fakeEvalRepo) DistinctTitles() ([]string, error) { return nil, nil }

func (f *fakeEvalRepo) Stats() (*models.StatisticsResponse, error) { return nil, nil }

type recordingEmailService struct {
	sent []string
}

func (r *recordingEmailService) SendFeedback(eval *models.Evaluation) bool {
	r.sent = append(r.sent, eval.CandidateEmail)
	return true
}

func (r *recordingEmailService) IsConfigured() bool { return true }

const stubResumeText = `Jane Doe
Senior Python Developer
jane.doe@example.com | (555) 123-4567

Experience
Senior Python Developer | Initech
6 years of experience with Python and Django.

Education
Bachelor of Science in Computer Science

Skills
Python, Django, PostgreSQL, Docker
`

func writeJD(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "jd.txt")
	jd := "Job Title: Senior Python Developer\n\nRequirements: Python, Django.\n\n5+ years experience required.\n"
	require.NoError(t, os.WriteFile(path, []byte(jd), 0644))
	return path
}

func newTestEvaluator(docParser parser.DocumentParser, repo repositories.EvaluationRepository, email EmailService) EvaluatorService {
	resumeParser := parser.NewResumeParser(docParser)
	matcher := scoring.NewSemanticMatcher(scoring.NewTFIDFVectorizer(), nil)

	return NewEvaluatorService(
		docParser,
		resumeParser,
		parser.NewJDParser(),
		scoring.NewRelevanceScorer(),
		matcher,
		repo,
		nil,
		email,
	)
}

func TestEvaluate_FullPipeline(t *testing.T) {
	dir := t.TempDir()
	resumePath := filepath.Join(dir, "resume.pdf")
	jdPath := writeJD(t, dir)

	docParser := &stubDocParser{texts: map[string]string{resumePath: stubResumeText}}
	repo := &fakeEvalRepo{}
	evaluator := newTestEvaluator(docParser, repo, nil)

	eval, err := evaluator.Evaluate(context.Background(), EvaluateInput{
		ResumePath:     resumePath,
		JDPath:         jdPath,
		ResumeFilename: "jane_doe.pdf",
	})
	require.NoError(t, err)

	assert.Equal(t, "jane_doe.pdf", eval.ResumeFilename)
	assert.Equal(t, "jd.txt", eval.JDFilename)
	assert.Equal(t, "Senior Python Developer", eval.JobTitle)
	assert.Equal(t, "jane.doe@example.com", eval.CandidateEmail)
	assert.Equal(t, "(555) 123-4567", eval.CandidatePhone)
	assert.GreaterOrEqual(t, eval.RelevanceScore, 60.0)
	assert.NotEmpty(t, eval.Verdict)
	assert.NotEmpty(t, eval.Feedback)
	assert.NotEmpty(t, eval.ImprovedFeedback)

	require.Len(t, repo.created, 1)
	assert.Equal(t, eval.ID, repo.created[0].ID)
}

func TestEvaluate_ExtractionFailureDegrades(t *testing.T) {
	dir := t.TempDir()
	resumePath := filepath.Join(dir, "empty.pdf")
	jdPath := writeJD(t, dir)

	docParser := &stubDocParser{texts: map[string]string{}}
	repo := &fakeEvalRepo{}
	evaluator := newTestEvaluator(docParser, repo, nil)

	eval, err := evaluator.Evaluate(context.Background(), EvaluateInput{
		ResumePath: resumePath,
		JDPath:     jdPath,
	})
	require.NoError(t, err)

	// The pipeline still completes against an empty resume.
	assert.Empty(t, eval.CandidateEmail)
	assert.Equal(t, scoring.VerdictLow, eval.Verdict)
	assert.Equal(t, "Senior Python Developer", eval.JobTitle)
}

func TestEvaluate_UnsupportedFormatFails(t *testing.T) {
	dir := t.TempDir()
	jdPath := writeJD(t, dir)

	docParser := &stubDocParser{texts: map[string]string{}}
	evaluator := newTestEvaluator(docParser, &fakeEvalRepo{}, nil)

	_, err := evaluator.Evaluate(context.Background(), EvaluateInput{
		ResumePath: filepath.Join(dir, "resume.doc"),
		JDPath:     jdPath,
	})
	assert.ErrorIs(t, err, parser.ErrUnsupportedFormat)
}

func TestEvaluateBatch_IsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	jdPath := writeJD(t, dir)

	goodA := filepath.Join(dir, "a.pdf")
	badB := filepath.Join(dir, "b.doc")
	goodC := filepath.Join(dir, "c.docx")

	docParser := &stubDocParser{texts: map[string]string{
		goodA: stubResumeText,
		goodC: stubResumeText,
	}}
	repo := &fakeEvalRepo{}
	evaluator := newTestEvaluator(docParser, repo, nil)

	results := evaluator.EvaluateBatch(context.Background(), []EvaluateInput{
		{ResumePath: goodA, JDPath: jdPath},
		{ResumePath: badB, JDPath: jdPath},
		{ResumePath: goodC, JDPath: jdPath},
	}, false)

	require.Len(t, results, 3)

	assert.NotNil(t, results[0].Result)
	assert.Empty(t, results[0].Error)

	assert.Nil(t, results[1].Result)
	assert.Contains(t, results[1].Error, "unsupported file format")
	assert.Equal(t, "b.doc", results[1].ResumeFilename)

	assert.NotNil(t, results[2].Result)
	assert.Empty(t, results[2].Error)

	// Only the two successful items were persisted.
	assert.Len(t, repo.created, 2)
}

func TestEvaluateBatch_SendsEmails(t *testing.T) {
	dir := t.TempDir()
	jdPath := writeJD(t, dir)
	resumePath := filepath.Join(dir, "a.pdf")

	docParser := &stubDocParser{texts: map[string]string{resumePath: stubResumeText}}
	email := &recordingEmailService{}
	evaluator := newTestEvaluator(docParser, &fakeEvalRepo{}, email)

	evaluator.EvaluateBatch(context.Background(), []EvaluateInput{
		{ResumePath: resumePath, JDPath: jdPath},
	}, true)

	require.Len(t, email.sent, 1)
	assert.Equal(t, "jane.doe@example.com", email.sent[0])
}

func TestEvaluateBatch_NoEmailsWhenDisabled(t *testing.T) {
	dir := t.TempDir()
	jdPath := writeJD(t, dir)
	resumePath := filepath.Join(dir, "a.pdf")

	docParser := &stubDocParser{texts: map[string]string{resumePath: stubResumeText}}
	email := &recordingEmailService{}
	evaluator := newTestEvaluator(docParser, &fakeEvalRepo{}, email)

	evaluator.EvaluateBatch(context.Background(), []EvaluateInput{
		{ResumePath: resumePath, JDPath: jdPath},
	}, false)

	assert.Empty(t, email.sent)
}
