package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/library-desk-api/internal/service"
	"github.com/noah-isme/library-desk-api/pkg/response"
)

// StatisticsHandler exposes the dashboard statistics endpoint.
type StatisticsHandler struct {
	stats *service.StatisticsService
}

// NewStatisticsHandler constructs handler.
func NewStatisticsHandler(stats *service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{stats: stats}
}

// Get godoc
// @Summary Aggregate library statistics
// @Tags Statistics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /get-statistics [get]
func (h *StatisticsHandler) Get(c *gin.Context) {
	stats, err := h.stats.Collect(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}
