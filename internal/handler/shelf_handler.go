package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/library-desk-api/internal/service"
	appErrors "github.com/noah-isme/library-desk-api/pkg/errors"
	"github.com/noah-isme/library-desk-api/pkg/response"
)

// ShelfHandler exposes the book shelf endpoints.
type ShelfHandler struct {
	shelf *service.ShelfService
	stats *service.StatisticsService
}

// NewShelfHandler constructs handler.
func NewShelfHandler(shelf *service.ShelfService, stats *service.StatisticsService) *ShelfHandler {
	return &ShelfHandler{shelf: shelf, stats: stats}
}

// List godoc
// @Summary List shelf items
// @Tags Shelf
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /shelf-item [get]
func (h *ShelfHandler) List(c *gin.Context) {
	items, err := h.shelf.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Add godoc
// @Summary Shelve a book
// @Tags Shelf
// @Accept json
// @Produce json
// @Param payload body service.AddShelfRequest true "Book payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /add-shelf [put]
func (h *ShelfHandler) Add(c *gin.Context) {
	var req service.AddShelfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	item, err := h.shelf.Add(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.stats.Invalidate(c.Request.Context())
	response.Created(c, item)
}

// Delete godoc
// @Summary Remove a shelf item
// @Tags Shelf
// @Produce json
// @Param id path string true "Shelf item id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /shelf-item/{id} [delete]
func (h *ShelfHandler) Delete(c *gin.Context) {
	if err := h.shelf.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	h.stats.Invalidate(c.Request.Context())
	response.JSON(c, http.StatusOK, gin.H{"status": "deleted"}, nil)
}
