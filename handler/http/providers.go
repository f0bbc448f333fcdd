package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListProviders godoc
// @Summary List supported vector store providers
// @Tags providers
// @Produce json
// @Success 200 {array} search.Provider
// @Router /providers [get]
func (h *Handler) ListProviders(c *gin.Context) {
	sendJSON(c, http.StatusOK, h.searchService.ListProviders())
}
