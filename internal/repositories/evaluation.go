package repositories

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"applicon/resume-evaluator/internal/models"
)

// ListFilter narrows List results. A zero MinScore matches everything since
// scores are never negative.
type ListFilter struct {
	TitleContains string
	MinScore      float64
}

type EvaluationRepository interface {
	Create(eval *models.Evaluation) error
	FindByID(id uuid.UUID) (*models.Evaluation, error)
	List(filter ListFilter) ([]models.Evaluation, error)
	TopByTitle(title string, limit int) ([]models.Evaluation, error)
	DistinctTitles() ([]string, error)
	Stats() (*models.StatisticsResponse, error)
}

type evaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) EvaluationRepository {
	return &evaluationRepository{db: db}
}

func (r *evaluationRepository) Create(eval *models.Evaluation) error {
	if err := r.db.Create(eval).Error; err != nil {
		return fmt.Errorf("failed to create evaluation: %w", err)
	}
	return nil
}

func (r *evaluationRepository) FindByID(id uuid.UUID) (*models.Evaluation, error) {
	var eval models.Evaluation
	if err := r.db.Where("id = ?", id).First(&eval).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("evaluation not found")
		}
		return nil, fmt.Errorf("failed to find evaluation: %w", err)
	}
	return &eval, nil
}

// List returns matching evaluations, newest first.
func (r *evaluationRepository) List(filter ListFilter) ([]models.Evaluation, error) {
	query := r.db.Model(&models.Evaluation{})

	if filter.TitleContains != "" {
		query = query.Where("job_title ILIKE ?", "%"+filter.TitleContains+"%")
	}
	if filter.MinScore > 0 {
		query = query.Where("relevance_score >= ?", filter.MinScore)
	}

	var evals []models.Evaluation
	if err := query.Order("created_at DESC").Find(&evals).Error; err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	return evals, nil
}

// TopByTitle returns the best-scoring evaluations for one job title.
func (r *evaluationRepository) TopByTitle(title string, limit int) ([]models.Evaluation, error) {
	var evals []models.Evaluation
	err := r.db.
		Where("job_title = ?", title).
		Order("relevance_score DESC").
		Limit(limit).
		Find(&evals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find top candidates: %w", err)
	}
	return evals, nil
}

func (r *evaluationRepository) DistinctTitles() ([]string, error) {
	var titles []string
	err := r.db.Model(&models.Evaluation{}).
		Where("job_title IS NOT NULL AND job_title != ''").
		Distinct("job_title").
		Pluck("job_title", &titles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch job titles: %w", err)
	}
	return titles, nil
}

// Stats aggregates evaluation counts and the score distribution. Bucket
// boundaries mirror the verdict thresholds (>=80 high, 60-79 medium,
// <60 low).
func (r *evaluationRepository) Stats() (*models.StatisticsResponse, error) {
	var row struct {
		Total    int64
		AvgScore float64
		High     int64
		Medium   int64
		Low      int64
	}

	err := r.db.Model(&models.Evaluation{}).
		Select(`COUNT(*) AS total,
			COALESCE(AVG(relevance_score), 0) AS avg_score,
			COUNT(*) FILTER (WHERE relevance_score >= 80) AS high,
			COUNT(*) FILTER (WHERE relevance_score >= 60 AND relevance_score < 80) AS medium,
			COUNT(*) FILTER (WHERE relevance_score < 60) AS low`).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate statistics: %w", err)
	}

	var uniqueTitles int64
	err = r.db.Model(&models.Evaluation{}).
		Distinct("job_title").
		Count(&uniqueTitles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count job titles: %w", err)
	}

	return &models.StatisticsResponse{
		TotalEvaluations: row.Total,
		AverageScore:     math.Round(row.AvgScore*100) / 100,
		Distribution: models.ScoreDistribution{
			High:   row.High,
			Medium: row.Medium,
			Low:    row.Low,
		},
		UniqueJobTitles: uniqueTitles,
	}, nil
}
