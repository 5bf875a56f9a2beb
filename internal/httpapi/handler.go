// Package httpapi exposes the assistant over HTTP.
package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-assist/internal/domain"
)

// AssistantPort is the HTTP-facing subset of the assistant service.
type AssistantPort interface {
	Ask(ctx context.Context, question string) (*domain.Answer, error)
}

type askRequest struct {
	Question string `json:"question" binding:"required"`
}

type sourceResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type askResponse struct {
	Answer  string           `json:"answer"`
	Sources []sourceResponse `json:"sources"`
}

// Handler holds the HTTP handlers for the assistant API.
type Handler struct {
	assistant AssistantPort
}

func NewHandler(assistant AssistantPort) *Handler {
	return &Handler{assistant: assistant}
}

// Router builds the gin engine with all routes registered.
func (h *Handler) Router() *gin.Engine {
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	router.GET("/health", h.Health)
	router.POST("/ask", h.Ask)
	return router
}

// Health reports service liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "campus-assist"})
}

// Ask answers one question about campus facilities.
func (h *Handler) Ask(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	answer, err := h.assistant.Ask(c.Request.Context(), req.Question)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to answer question"})
		return
	}

	resp := askResponse{Answer: answer.Text, Sources: []sourceResponse{}}
	for _, src := range answer.Sources {
		resp.Sources = append(resp.Sources, sourceResponse{
			ID:   src.ID,
			Name: src.Metadata["name"],
			Type: src.Metadata["type"],
		})
	}
	c.JSON(http.StatusOK, resp)
}
