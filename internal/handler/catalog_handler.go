package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nnhurricane156/phygen-portal/internal/api"
	"github.com/nnhurricane156/phygen-portal/internal/response"
)

// CatalogHandler serves the chapter and topic catalog.
type CatalogHandler struct {
	chapters *api.ChapterAPI
	topics   *api.TopicAPI
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(chapters *api.ChapterAPI, topics *api.TopicAPI) *CatalogHandler {
	return &CatalogHandler{chapters: chapters, topics: topics}
}

// ListChapters returns all chapters
// GET /api/chapters
func (h *CatalogHandler) ListChapters(c *gin.Context) {
	chapters, err := h.chapters.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, chapters)
}

// GetChapter returns one chapter by id
// GET /api/chapters/:id
func (h *CatalogHandler) GetChapter(c *gin.Context) {
	chapter, err := h.chapters.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, chapter)
}

// ListTopics returns a filtered, paginated topic page
// GET /api/topics?chapterId=&pageNumber=&pageSize=&searchTerm=
func (h *CatalogHandler) ListTopics(c *gin.Context) {
	params := api.TopicListParams{
		ChapterID:  c.Query("chapterId"),
		SearchTerm: c.Query("searchTerm"),
	}
	if v, err := strconv.Atoi(c.DefaultQuery("pageNumber", "0")); err == nil {
		params.PageNumber = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("pageSize", "0")); err == nil {
		params.PageSize = v
	}

	page, err := h.topics.List(c.Request.Context(), params)
	if err != nil {
		writeError(c, err)
		return
	}
	response.SuccessWithMeta(c, page.Topics, gin.H{
		"pageNumber":      page.PageNumber,
		"totalPages":      page.TotalPages,
		"totalCount":      page.TotalCount,
		"hasPreviousPage": page.HasPreviousPage,
		"hasNextPage":     page.HasNextPage,
	})
}

// GetTopic returns one topic by id
// GET /api/topics/:id
func (h *CatalogHandler) GetTopic(c *gin.Context) {
	topic, err := h.topics.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, topic)
}
