package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/library-desk-api/internal/models"
	"github.com/noah-isme/library-desk-api/internal/service"
	appErrors "github.com/noah-isme/library-desk-api/pkg/errors"
	"github.com/noah-isme/library-desk-api/pkg/response"
)

// LoanHandler exposes the borrow ledger endpoints.
type LoanHandler struct {
	loans *service.LoanService
	stats *service.StatisticsService
}

// NewLoanHandler constructs handler.
func NewLoanHandler(loans *service.LoanService, stats *service.StatisticsService) *LoanHandler {
	return &LoanHandler{loans: loans, stats: stats}
}

// List godoc
// @Summary List all loans
// @Tags Loans
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /list-students [get]
func (h *LoanHandler) List(c *gin.Context) {
	loans, err := h.loans.List(c.Request.Context(), models.LoanFilter{})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, loans, nil)
}

// Search godoc
// @Summary Search loans by member name
// @Tags Loans
// @Produce json
// @Param name query string false "Case-insensitive name fragment"
// @Success 200 {object} response.Envelope
// @Router /search-students [get]
func (h *LoanHandler) Search(c *gin.Context) {
	loans, err := h.loans.List(c.Request.Context(), models.LoanFilter{Search: c.Query("name")})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, loans, nil)
}

// Create godoc
// @Summary Open a borrow record
// @Tags Loans
// @Accept json
// @Produce json
// @Param payload body service.CreateLoanRequest true "Loan payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /add-student [post]
func (h *LoanHandler) Create(c *gin.Context) {
	var req service.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	loan, err := h.loans.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.stats.Invalidate(c.Request.Context())
	response.Created(c, loan)
}

// Return godoc
// @Summary Close a loan by returning the book
// @Tags Loans
// @Produce json
// @Param id path string true "Loan id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /return-book/{id} [delete]
func (h *LoanHandler) Return(c *gin.Context) {
	if err := h.loans.Return(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	h.stats.Invalidate(c.Request.Context())
	response.JSON(c, http.StatusOK, gin.H{"status": "returned"}, nil)
}

// Extend godoc
// @Summary Push back a loan's due date
// @Tags Loans
// @Accept json
// @Produce json
// @Param id path string true "Loan id"
// @Param payload body service.ExtendLoanRequest true "New return date"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /extend-return-date/{id} [put]
func (h *LoanHandler) Extend(c *gin.Context) {
	var req service.ExtendLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	loan, err := h.loans.Extend(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, loan, nil)
}

// Refresh godoc
// @Summary Recompute the overdue flag for every loan
// @Tags Loans
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /update-student-status [put]
func (h *LoanHandler) Refresh(c *gin.Context) {
	updated, err := h.loans.RefreshStatuses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	h.stats.Invalidate(c.Request.Context())
	response.JSON(c, http.StatusOK, gin.H{"updated": updated}, nil)
}
