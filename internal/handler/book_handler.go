package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/library-desk-api/internal/service"
	"github.com/noah-isme/library-desk-api/pkg/response"
)

// BookHandler proxies ISBN lookups to the external books API.
type BookHandler struct {
	books *service.BooksService
}

// NewBookHandler constructs handler.
func NewBookHandler(books *service.BooksService) *BookHandler {
	return &BookHandler{books: books}
}

// Lookup godoc
// @Summary Look up a book by ISBN
// @Tags Books
// @Produce json
// @Param isbn path string true "ISBN-10 or ISBN-13"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /api/book/{isbn} [get]
func (h *BookHandler) Lookup(c *gin.Context) {
	book, err := h.books.LookupISBN(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, book, nil)
}
