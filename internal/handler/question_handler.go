package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/nnhurricane156/phygen-portal/internal/api"
	"github.com/nnhurricane156/phygen-portal/internal/domain"
	"github.com/nnhurricane156/phygen-portal/internal/response"
)

// QuestionHandler serves the question bank and image import flow.
type QuestionHandler struct {
	questions *api.QuestionAPI
}

// NewQuestionHandler creates a new QuestionHandler
func NewQuestionHandler(questions *api.QuestionAPI) *QuestionHandler {
	return &QuestionHandler{questions: questions}
}

// List returns all questions
// GET /api/questions
func (h *QuestionHandler) List(c *gin.Context) {
	questions, err := h.questions.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, questions)
}

// ProcessImage forwards an uploaded image through OCR extraction
// POST /api/questions/process-image (multipart, field "file")
func (h *QuestionHandler) ProcessImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	defer file.Close()

	questions, err := h.questions.ProcessImage(c.Request.Context(), fileHeader.Filename, file, fileHeader.Size)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, questions)
}

// Save persists a batch of extracted questions
// POST /api/questions
func (h *QuestionHandler) Save(c *gin.Context) {
	var questions []domain.Question
	if err := c.ShouldBindJSON(&questions); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if len(questions) == 0 {
		response.BadRequest(c, "at least one question is required")
		return
	}

	if err := h.questions.Save(c.Request.Context(), questions); err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, gin.H{"saved": len(questions)})
}
