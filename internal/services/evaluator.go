package services

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"applicon/resume-evaluator/internal/models"
	"applicon/resume-evaluator/internal/parser"
	"applicon/resume-evaluator/internal/repositories"
	"applicon/resume-evaluator/internal/scoring"
)

// EvaluatorService runs the full pipeline for one resume/job-description
// pair: extraction, parsing, weighted scoring, semantic analysis, feedback,
// persistence, and best-effort vector indexing.
type EvaluatorService interface {
	Evaluate(ctx context.Context, input EvaluateInput) (*models.Evaluation, error)
	EvaluateBatch(ctx context.Context, inputs []EvaluateInput, sendEmails bool) []models.BatchItemResponse
}

// EvaluateInput names the files on disk plus the display filenames to store.
// Empty display names default to the base of the path.
type EvaluateInput struct {
	ResumePath     string
	JDPath         string
	ResumeFilename string
	JDFilename     string
}

type evaluatorService struct {
	docParser    parser.DocumentParser
	resumeParser *parser.ResumeParser
	jdParser     *parser.JDParser
	scorer       *scoring.RelevanceScorer
	matcher      *scoring.SemanticMatcher
	repo         repositories.EvaluationRepository
	vectorIndex  VectorIndexService
	emailService EmailService
}

func NewEvaluatorService(
	docParser parser.DocumentParser,
	resumeParser *parser.ResumeParser,
	jdParser *parser.JDParser,
	scorer *scoring.RelevanceScorer,
	matcher *scoring.SemanticMatcher,
	repo repositories.EvaluationRepository,
	vectorIndex VectorIndexService,
	emailService EmailService,
) EvaluatorService {
	return &evaluatorService{
		docParser:    docParser,
		resumeParser: resumeParser,
		jdParser:     jdParser,
		scorer:       scorer,
		matcher:      matcher,
		repo:         repo,
		vectorIndex:  vectorIndex,
		emailService: emailService,
	}
}

// Evaluate implements EvaluatorService. Extraction failures degrade to empty
// text so the pipeline still yields a (low-scoring) result; an unsupported
// file format is the one fatal input error.
func (s *evaluatorService) Evaluate(ctx context.Context, input EvaluateInput) (*models.Evaluation, error) {
	resume, err := s.parseResume(input.ResumePath)
	if err != nil {
		return nil, err
	}

	jdText, err := s.readJobDescription(input.JDPath)
	if err != nil {
		return nil, err
	}
	reqs := s.jdParser.Parse(jdText)

	relevance := s.scorer.Score(resume, reqs)
	semantic := s.matcher.Similarity(ctx, resume, reqs)
	improvedFeedback := s.matcher.Feedback(ctx, resume, reqs)

	eval := &models.Evaluation{
		ID:                 uuid.New(),
		ResumeFilename:     displayName(input.ResumeFilename, input.ResumePath),
		JDFilename:         displayName(input.JDFilename, input.JDPath),
		JobTitle:           resolveJobTitle(reqs.JobTitle, resume.JobTitle),
		RelevanceScore:     relevance.RelevanceScore,
		Verdict:            relevance.Verdict,
		Feedback:           relevance.Feedback,
		ImprovedFeedback:   improvedFeedback,
		SemanticSimilarity: semantic.OverallSimilarity,
		ResumeText:         resume.Text,
		JDText:             jdText,
		CandidateEmail:     resume.Email,
		CandidatePhone:     resume.Phone,
	}
	eval.SetMissingElements(relevance.MissingElements)
	eval.SetSectionSimilarities(semantic.SectionSimilarities)

	if err := s.repo.Create(eval); err != nil {
		return nil, err
	}

	if s.vectorIndex != nil {
		if err := s.vectorIndex.IndexEvaluation(ctx, eval); err != nil {
			log.Printf("⚠️  Failed to index evaluation %s: %v\n", eval.ID, err)
		}
	}

	log.Printf("✅ Evaluated %s against %q: %.2f (%s)\n",
		eval.ResumeFilename, eval.JobTitle, eval.RelevanceScore, eval.Verdict)

	return eval, nil
}

// EvaluateBatch implements EvaluatorService. Each resume gets its own result
// slot; a failing item records its error and the batch continues.
func (s *evaluatorService) EvaluateBatch(ctx context.Context, inputs []EvaluateInput, sendEmails bool) []models.BatchItemResponse {
	results := make([]models.BatchItemResponse, 0, len(inputs))

	for _, input := range inputs {
		item := models.BatchItemResponse{
			ResumeFilename: displayName(input.ResumeFilename, input.ResumePath),
		}

		eval, err := s.Evaluate(ctx, input)
		if err != nil {
			item.Error = err.Error()
			results = append(results, item)
			continue
		}

		response := eval.ToResponse()
		item.Result = &response
		results = append(results, item)

		if sendEmails && s.emailService != nil {
			s.emailService.SendFeedback(eval)
		}
	}

	return results
}

// parseResume turns the uploaded file into a ParsedResume. A broken but
// supported file parses as empty text so every downstream field falls back
// to its default.
func (s *evaluatorService) parseResume(filePath string) (*parser.ParsedResume, error) {
	resume, err := s.resumeParser.Parse(filePath)
	if err != nil {
		if errors.Is(err, parser.ErrExtractionFailed) {
			log.Printf("⚠️  Text extraction failed for %s, continuing with empty text: %v\n", filepath.Base(filePath), err)
			return s.resumeParser.ParseText(""), nil
		}
		return nil, err
	}
	return resume, nil
}

// readJobDescription loads job description text. Plain-text files are read
// directly; PDF and DOCX go through the document parser with the same
// degrade-to-empty behavior as resumes.
func (s *evaluatorService) readJobDescription(filePath string) (string, error) {
	if strings.ToLower(filepath.Ext(filePath)) == ".txt" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			log.Printf("⚠️  Failed to read job description %s, continuing with empty text: %v\n", filepath.Base(filePath), err)
			return "", nil
		}
		return parser.CleanText(string(data)), nil
	}

	text, err := s.docParser.ExtractText(filePath)
	if err != nil {
		if errors.Is(err, parser.ErrExtractionFailed) {
			log.Printf("⚠️  Text extraction failed for %s, continuing with empty text: %v\n", filepath.Base(filePath), err)
			return "", nil
		}
		return "", err
	}
	return parser.CleanText(text), nil
}

// resolveJobTitle prefers the job description's title, then the resume's,
// then the generic default.
func resolveJobTitle(jdTitle, resumeTitle string) string {
	if jdTitle != "" && jdTitle != parser.DefaultJobTitle {
		return jdTitle
	}
	if resumeTitle != "" && resumeTitle != parser.DefaultResumeTitle {
		return resumeTitle
	}
	return parser.DefaultResumeTitle
}

func displayName(name, path string) string {
	if name != "" {
		return name
	}
	return filepath.Base(path)
}
