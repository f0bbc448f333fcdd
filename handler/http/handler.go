package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docsearch/src/core/search"
)

type Handler struct {
	searchService *search.Service
}

func NewHandler(searchService *search.Service) *Handler {
	return &Handler{
		searchService: searchService,
	}
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")

	// Provider routes
	api.GET("/providers", h.ListProviders)
	api.GET("/providers/:provider/collections", h.ListCollections)

	// Search routes
	api.POST("/search", h.Search)
}

// Common error response structure
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func sendError(c *gin.Context, status int, err error) {
	var code string
	switch {
	case errors.Is(err, search.ErrUnsupportedProvider):
		code = "UNSUPPORTED_PROVIDER"
		status = http.StatusBadRequest
	case errors.Is(err, search.ErrEmptyCollection):
		code = "EMPTY_COLLECTION"
		status = http.StatusNotFound
	case errors.Is(err, search.ErrBackendUnavailable):
		code = "BACKEND_UNAVAILABLE"
		status = http.StatusServiceUnavailable
	case status == http.StatusBadRequest:
		code = "INVALID_REQUEST"
	default:
		code = "INTERNAL_ERROR"
	}

	c.JSON(status, ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}

func sendJSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}
