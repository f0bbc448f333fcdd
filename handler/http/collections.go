package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListCollections godoc
// @Summary List collections in a vector store
// @Tags providers
// @Produce json
// @Param provider path string true "Vector store provider"
// @Success 200 {array} search.CollectionInfo
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /providers/{provider}/collections [get]
func (h *Handler) ListCollections(c *gin.Context) {
	provider := c.Param("provider")

	collections, err := h.searchService.ListCollections(c.Request.Context(), provider)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusOK, collections)
}
