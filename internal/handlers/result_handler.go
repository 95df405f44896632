package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"applicon/resume-evaluator/internal/models"
	"applicon/resume-evaluator/internal/repositories"
	"applicon/resume-evaluator/internal/services"
)

type ResultHandler struct {
	evalRepo     repositories.EvaluationRepository
	vectorIndex  services.VectorIndexService
	emailService services.EmailService
	validate     *validator.Validate
}

func NewResultHandler(
	evalRepo repositories.EvaluationRepository,
	vectorIndex services.VectorIndexService,
	emailService services.EmailService,
) *ResultHandler {
	return &ResultHandler{
		evalRepo:     evalRepo,
		vectorIndex:  vectorIndex,
		emailService: emailService,
		validate:     validator.New(),
	}
}

// HandleListEvaluations handles GET /evaluations with optional job_title and
// min_score filters.
func (h *ResultHandler) HandleListEvaluations(c *fiber.Ctx) error {
	var query models.ListEvaluationsQuery
	if err := c.QueryParser(&query); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid query parameters",
		})
	}
	if err := h.validate.Struct(&query); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "min_score must be between 0 and 100",
		})
	}

	evals, err := h.evalRepo.List(repositories.ListFilter{
		TitleContains: query.JobTitle,
		MinScore:      query.MinScore,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch evaluations",
		})
	}

	responses := make([]models.EvaluationResponse, 0, len(evals))
	for i := range evals {
		responses = append(responses, evals[i].ToResponse())
	}

	return c.JSON(fiber.Map{
		"total":       len(responses),
		"evaluations": responses,
	})
}

// HandleGetEvaluation handles GET /evaluations/:id
func (h *ResultHandler) HandleGetEvaluation(c *fiber.Ctx) error {
	eval, status, errResp := h.findEvaluation(c)
	if errResp != nil {
		return c.Status(status).JSON(errResp)
	}

	return c.JSON(eval.ToResponse())
}

// HandleFindSimilar handles GET /evaluations/:id/similar. Requires the
// vector index, which is only available when embeddings are configured.
func (h *ResultHandler) HandleFindSimilar(c *fiber.Ctx) error {
	if h.vectorIndex == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "similarity search is not available: vector index not configured",
		})
	}

	eval, status, errResp := h.findEvaluation(c)
	if errResp != nil {
		return c.Status(status).JSON(errResp)
	}

	limit := c.QueryInt("limit", 5)
	if limit < 1 || limit > 50 {
		limit = 5
	}

	candidates, err := h.vectorIndex.FindSimilar(c.Context(), eval, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "similarity search failed",
		})
	}

	return c.JSON(fiber.Map{
		"evaluation_id": eval.ID.String(),
		"similar":       candidates,
	})
}

// HandleSendFeedback handles POST /evaluations/:id/email, re-sending the
// feedback email for a stored evaluation.
func (h *ResultHandler) HandleSendFeedback(c *fiber.Ctx) error {
	if h.emailService == nil || !h.emailService.IsConfigured() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "email service is not configured",
		})
	}

	eval, status, errResp := h.findEvaluation(c)
	if errResp != nil {
		return c.Status(status).JSON(errResp)
	}

	if eval.CandidateEmail == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "no candidate email found in this resume",
		})
	}

	if !h.emailService.SendFeedback(eval) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to send feedback email",
		})
	}

	return c.JSON(fiber.Map{
		"message":   "Feedback email sent",
		"recipient": eval.CandidateEmail,
	})
}

// HandleStatistics handles GET /statistics
func (h *ResultHandler) HandleStatistics(c *fiber.Ctx) error {
	stats, err := h.evalRepo.Stats()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to compute statistics",
		})
	}
	return c.JSON(stats)
}

// HandleJobTitles handles GET /job-titles
func (h *ResultHandler) HandleJobTitles(c *fiber.Ctx) error {
	titles, err := h.evalRepo.DistinctTitles()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch job titles",
		})
	}
	if titles == nil {
		titles = []string{}
	}
	return c.JSON(fiber.Map{
		"job_titles": titles,
	})
}

// HandleTopCandidates handles GET /candidates/top?job_title=...&limit=...
func (h *ResultHandler) HandleTopCandidates(c *fiber.Ctx) error {
	var query models.TopCandidatesQuery
	if err := c.QueryParser(&query); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid query parameters",
		})
	}
	if err := h.validate.Struct(&query); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_title is required and limit must be between 0 and 50",
		})
	}
	if query.Limit == 0 {
		query.Limit = 5
	}

	evals, err := h.evalRepo.TopByTitle(query.JobTitle, query.Limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch top candidates",
		})
	}

	responses := make([]models.EvaluationResponse, 0, len(evals))
	for i := range evals {
		responses = append(responses, evals[i].ToResponse())
	}

	return c.JSON(fiber.Map{
		"job_title":  query.JobTitle,
		"candidates": responses,
	})
}

func (h *ResultHandler) findEvaluation(c *fiber.Ctx) (*models.Evaluation, int, fiber.Map) {
	evalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.StatusBadRequest, fiber.Map{
			"error": "Invalid evaluation ID format",
		}
	}

	eval, err := h.evalRepo.FindByID(evalID)
	if err != nil {
		return nil, fiber.StatusNotFound, fiber.Map{
			"error": "Evaluation not found",
		}
	}

	return eval, 0, nil
}
