package models

import "time"

// EvaluationResponse is the API shape of a stored evaluation, with the JSON
// columns expanded back into structured maps.
type EvaluationResponse struct {
	ID                  string             `json:"id"`
	ResumeFilename      string             `json:"resume_filename"`
	JDFilename          string             `json:"jd_filename"`
	JobTitle            string             `json:"job_title"`
	RelevanceScore      float64            `json:"relevance_score"`
	Verdict             string             `json:"verdict"`
	MissingElements     map[string][]string `json:"missing_elements"`
	Feedback            string             `json:"feedback"`
	ImprovedFeedback    string             `json:"improved_feedback"`
	SemanticSimilarity  float64            `json:"semantic_similarity"`
	SectionSimilarities map[string]float64 `json:"section_similarities"`
	CandidateEmail      string             `json:"candidate_email"`
	CandidatePhone      string             `json:"candidate_phone"`
	CreatedAt           time.Time          `json:"created_at"`
}

func (e *Evaluation) ToResponse() EvaluationResponse {
	return EvaluationResponse{
		ID:                  e.ID.String(),
		ResumeFilename:      e.ResumeFilename,
		JDFilename:          e.JDFilename,
		JobTitle:            e.JobTitle,
		RelevanceScore:      e.RelevanceScore,
		Verdict:             e.Verdict,
		MissingElements:     e.GetMissingElements(),
		Feedback:            e.Feedback,
		ImprovedFeedback:    e.ImprovedFeedback,
		SemanticSimilarity:  e.SemanticSimilarity,
		SectionSimilarities: e.GetSectionSimilarities(),
		CandidateEmail:      e.CandidateEmail,
		CandidatePhone:      e.CandidatePhone,
		CreatedAt:           e.CreatedAt,
	}
}

// BatchItemResponse is one slot of a batch evaluation. Exactly one of Result
// and Error is set; a failed resume never aborts the rest of the batch.
type BatchItemResponse struct {
	ResumeFilename string              `json:"resume_filename"`
	Result         *EvaluationResponse `json:"result,omitempty"`
	Error          string              `json:"error,omitempty"`
}

type ListEvaluationsQuery struct {
	JobTitle string  `query:"job_title"`
	MinScore float64 `query:"min_score" validate:"gte=0,lte=100"`
}

type TopCandidatesQuery struct {
	JobTitle string `query:"job_title" validate:"required"`
	Limit    int    `query:"limit" validate:"gte=0,lte=50"`
}

type StatisticsResponse struct {
	TotalEvaluations int64              `json:"total_evaluations"`
	AverageScore     float64            `json:"average_score"`
	Distribution     ScoreDistribution  `json:"score_distribution"`
	UniqueJobTitles  int64              `json:"unique_job_titles"`
}

type ScoreDistribution struct {
	High   int64 `json:"high"`
	Medium int64 `json:"medium"`
	Low    int64 `json:"low"`
}
