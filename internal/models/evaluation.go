package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Evaluation is the persisted record for one resume evaluated against one
// job description. It is written once by the evaluator; the ID is assigned
// by the database on insert.
type Evaluation struct {
	ID                  uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ResumeFilename      string    `gorm:"type:text;not null" json:"resume_filename"`
	JDFilename          string    `gorm:"type:text;not null" json:"jd_filename"`
	JobTitle            string    `gorm:"type:text;index" json:"job_title"`
	RelevanceScore      float64   `gorm:"type:decimal(5,2);index" json:"relevance_score"`
	Verdict             string    `gorm:"type:text" json:"verdict"`
	MissingElements     string    `gorm:"type:jsonb" json:"-"`
	Feedback            string    `gorm:"type:text" json:"feedback"`
	ImprovedFeedback    string    `gorm:"type:text" json:"improved_feedback"`
	SemanticSimilarity  float64   `gorm:"type:decimal(5,4)" json:"semantic_similarity"`
	SectionSimilarities string    `gorm:"type:jsonb" json:"-"`
	ResumeText          string    `gorm:"type:text" json:"-"`
	JDText              string    `gorm:"type:text" json:"-"`
	CandidateEmail      string    `gorm:"type:text" json:"candidate_email"`
	CandidatePhone      string    `gorm:"type:text" json:"candidate_phone"`
	CreatedAt           time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}

func (e *Evaluation) SetMissingElements(m map[string][]string) {
	data, err := json.Marshal(m)
	if err != nil {
		e.MissingElements = "{}"
		return
	}
	e.MissingElements = string(data)
}

func (e *Evaluation) GetMissingElements() map[string][]string {
	m := make(map[string][]string)
	if e.MissingElements != "" {
		_ = json.Unmarshal([]byte(e.MissingElements), &m)
	}
	return m
}

func (e *Evaluation) SetSectionSimilarities(s map[string]float64) {
	data, err := json.Marshal(s)
	if err != nil {
		e.SectionSimilarities = "{}"
		return
	}
	e.SectionSimilarities = string(data)
}

func (e *Evaluation) GetSectionSimilarities() map[string]float64 {
	s := make(map[string]float64)
	if e.SectionSimilarities != "" {
		_ = json.Unmarshal([]byte(e.SectionSimilarities), &s)
	}
	return s
}
