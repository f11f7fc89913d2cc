package apihandlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"paycat/internal/models"
)

// ClassificationRunner is the slice of the classification service the
// handlers need; narrowed for testability.
type ClassificationRunner interface {
	Classify(ctx context.Context, req *models.ClassificationRequest) (*models.ClassificationResponse, error)
}

type APIHandler struct {
	Service ClassificationRunner
}

func NewAPIHandler(service ClassificationRunner) *APIHandler {
	return &APIHandler{Service: service}
}

// ClassifyHandler handles POST /api/v1/classify.
func (h *APIHandler) ClassifyHandler(c *gin.Context) {
	var req models.ClassificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.Service.Classify(c.Request.Context(), &req)
	if err != nil {
		respondClassificationError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HealthHandler handles GET /health.
func (h *APIHandler) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// respondClassificationError maps service errors to HTTP statuses:
// validation → 400, upstream timeout → 408, parse failure → 422,
// provider failure (auth, rate limit, upstream) → 503, anything else → 500.
func respondClassificationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrUnknownModel):
		BadRequest(c, err.Error())
	case errors.Is(err, models.ErrProviderTimeout):
		RequestTimeout(c, fmt.Sprintf("Request timeout: %v", err))
	case errors.Is(err, models.ErrParse):
		Unprocessable(c, fmt.Sprintf("Failed to parse LLM response: %v", err))
	case errors.Is(err, models.ErrRateLimited), errors.Is(err, models.ErrProvider):
		ServiceUnavailable(c, fmt.Sprintf("LLM service error: %v", err))
	default:
		Internal(c, fmt.Sprintf("Internal server error: %v", err))
	}
}
