package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nnhurricane156/phygen-portal/internal/api"
	"github.com/nnhurricane156/phygen-portal/internal/domain"
	"github.com/nnhurricane156/phygen-portal/internal/response"
)

// ExamHandler serves exam set generation and management.
type ExamHandler struct {
	exams *api.ExamAPI
}

// NewExamHandler creates a new ExamHandler
func NewExamHandler(exams *api.ExamAPI) *ExamHandler {
	return &ExamHandler{exams: exams}
}

// GenerateFromSelection generates an exam from dropdown selections
// POST /api/exams/generate-from-selection
func (h *ExamHandler) GenerateFromSelection(c *gin.Context) {
	var req api.GenerateFromSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.ChapterID == "" {
		response.BadRequest(c, "chapterId is required")
		return
	}

	exam, err := h.exams.GenerateFromSelection(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, exam)
}

// GenerateFromPrompt generates an exam from a free-form prompt
// POST /api/exams/generate-from-prompt
func (h *ExamHandler) GenerateFromPrompt(c *gin.Context) {
	var req api.GenerateFromPromptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.Prompt == "" {
		response.BadRequest(c, "prompt is required")
		return
	}

	exam, err := h.exams.GenerateFromPrompt(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, exam)
}

// ListMine returns the signed-in user's exam sets
// GET /api/exams
func (h *ExamHandler) ListMine(c *gin.Context) {
	exams, err := h.exams.ListByCurrentUser(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, exams)
}

// Get returns one exam set by id
// GET /api/exams/:id
func (h *ExamHandler) Get(c *gin.Context) {
	exam, err := h.exams.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, exam)
}

// Update saves edits to an exam set
// PUT /api/exams/:id
func (h *ExamHandler) Update(c *gin.Context) {
	var exam domain.ExamSet
	if err := c.ShouldBindJSON(&exam); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updated, err := h.exams.Update(c.Request.Context(), c.Param("id"), &exam)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, updated)
}

// Delete removes an exam set
// DELETE /api/exams/:id
func (h *ExamHandler) Delete(c *gin.Context) {
	if err := h.exams.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// DownloadWord streams the exported Word document
// GET /api/exams/:id/download-word
func (h *ExamHandler) DownloadWord(c *gin.Context) {
	id := c.Param("id")
	data, contentType, err := h.exams.DownloadWord(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if contentType == "" {
		contentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "exam-"+id+".docx"))
	c.Data(http.StatusOK, contentType, data)
}
