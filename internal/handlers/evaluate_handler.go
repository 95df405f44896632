package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"applicon/resume-evaluator/internal/parser"
	"applicon/resume-evaluator/internal/services"
)

type EvaluationHandler struct {
	evaluator      services.EvaluatorService
	storageService services.StorageService
	maxFileSize    int64
}

func NewEvaluationHandler(
	evaluator services.EvaluatorService,
	storageService services.StorageService,
	maxFileSize int64,
) *EvaluationHandler {
	return &EvaluationHandler{
		evaluator:      evaluator,
		storageService: storageService,
		maxFileSize:    maxFileSize,
	}
}

// HandleEvaluate handles POST /evaluate. The pipeline runs synchronously and
// the full result is returned in the response.
func (h *EvaluationHandler) HandleEvaluate(c *fiber.Ctx) error {
	resumeFile, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "resume file is required",
		})
	}

	jdFile, err := c.FormFile("job_description")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_description file is required",
		})
	}

	resumePath, err := h.saveUpload(resumeFile, "resume")
	if err != nil {
		return err
	}
	jdPath, err := h.saveUpload(jdFile, "job_description")
	if err != nil {
		return err
	}

	eval, err := h.evaluator.Evaluate(c.Context(), services.EvaluateInput{
		ResumePath:     resumePath,
		JDPath:         jdPath,
		ResumeFilename: resumeFile.Filename,
		JDFilename:     jdFile.Filename,
	})
	if err != nil {
		if errors.Is(err, parser.ErrUnsupportedFormat) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("evaluation failed: %v", err),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(eval.ToResponse())
}

// HandleEvaluateBatch handles POST /evaluate/batch: several resumes against
// one job description, each with its own result slot. Set send_emails=true
// to mail feedback to every successfully evaluated candidate.
func (h *EvaluationHandler) HandleEvaluateBatch(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	resumeFiles := form.File["resumes"]
	if len(resumeFiles) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "at least one resume file is required",
		})
	}

	jdFiles := form.File["job_description"]
	if len(jdFiles) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "job_description file is required",
		})
	}

	jdPath, err := h.saveUpload(jdFiles[0], "job_description")
	if err != nil {
		return err
	}

	sendEmails := c.FormValue("send_emails") == "true"

	inputs := make([]services.EvaluateInput, 0, len(resumeFiles))
	for _, resumeFile := range resumeFiles {
		resumePath, err := h.saveUpload(resumeFile, "resume")
		if err != nil {
			return err
		}
		inputs = append(inputs, services.EvaluateInput{
			ResumePath:     resumePath,
			JDPath:         jdPath,
			ResumeFilename: resumeFile.Filename,
			JDFilename:     jdFiles[0].Filename,
		})
	}

	results := h.evaluator.EvaluateBatch(c.Context(), inputs, sendEmails)

	return c.JSON(fiber.Map{
		"total":   len(results),
		"results": results,
	})
}

func (h *EvaluationHandler) saveUpload(file *multipart.FileHeader, fileType string) (string, error) {
	if file.Size > h.maxFileSize {
		return "", fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("%s file too large. Max size: %d bytes", fileType, h.maxFileSize))
	}

	_, filePath, err := h.storageService.SaveFile(file, fileType)
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("failed to save %s file: %v", fileType, err))
	}
	return filePath, nil
}
