package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docsearch/src/core/search"
)

type searchRequest struct {
	Query              string   `json:"query" binding:"required"`
	CollectionID       string   `json:"collectionId" binding:"required"`
	Provider           string   `json:"provider" binding:"required"`
	TopK               int      `json:"topK"`
	Threshold          *float64 `json:"threshold"`
	WordCountThreshold *int     `json:"wordCountThreshold"`
	SaveResults        bool     `json:"saveResults"`
}

// Search godoc
// @Summary Run a semantic search against a collection
// @Tags search
// @Accept json
// @Produce json
// @Param body body searchRequest true "Search parameters"
// @Success 200 {object} search.Response
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /search [post]
func (h *Handler) Search(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	coreReq := search.Request{
		Query:        req.Query,
		CollectionID: req.CollectionID,
		Provider:     req.Provider,
		TopK:         req.TopK,
		Threshold:    search.DefaultThreshold,
		SaveResults:  req.SaveResults,
	}
	if req.Threshold != nil {
		coreReq.Threshold = *req.Threshold
	}
	if req.WordCountThreshold != nil {
		coreReq.WordCountThreshold = *req.WordCountThreshold
	} else {
		coreReq.WordCountThreshold = search.DefaultWordCountThreshold
	}

	resp, err := h.searchService.Search(c.Request.Context(), coreReq)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusOK, resp)
}
