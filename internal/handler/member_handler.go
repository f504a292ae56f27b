package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/library-desk-api/internal/service"
	appErrors "github.com/noah-isme/library-desk-api/pkg/errors"
	"github.com/noah-isme/library-desk-api/pkg/response"
)

// MemberHandler exposes the member directory endpoints.
type MemberHandler struct {
	members *service.MemberService
	stats   *service.StatisticsService
}

// NewMemberHandler constructs handler.
func NewMemberHandler(members *service.MemberService, stats *service.StatisticsService) *MemberHandler {
	return &MemberHandler{members: members, stats: stats}
}

// List godoc
// @Summary List all members
// @Tags Members
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /get-members [get]
func (h *MemberHandler) List(c *gin.Context) {
	members, err := h.members.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, members, nil)
}

// Create godoc
// @Summary Register a member
// @Tags Members
// @Accept json
// @Produce json
// @Param payload body service.RegisterMemberRequest true "Member payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /add/member [put]
func (h *MemberHandler) Create(c *gin.Context) {
	var req service.RegisterMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	member, err := h.members.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.stats.Invalidate(c.Request.Context())
	response.Created(c, member)
}

// Edit godoc
// @Summary Edit a member by stud_id
// @Tags Members
// @Accept json
// @Produce json
// @Param id path string true "Member stud_id"
// @Param payload body service.UpdateMemberRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /edit-member/{id} [put]
func (h *MemberHandler) Edit(c *gin.Context) {
	var req service.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	member, err := h.members.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.stats.Invalidate(c.Request.Context())
	response.JSON(c, http.StatusOK, member, nil)
}

// Revoke godoc
// @Summary Revoke a member by stud_id
// @Tags Members
// @Produce json
// @Param id path string true "Member stud_id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /revoke-member/{id} [delete]
func (h *MemberHandler) Revoke(c *gin.Context) {
	result, err := h.members.Revoke(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if result.Blocked {
		// Legacy desk clients read the refusal off a 200 body.
		c.JSON(http.StatusOK, gin.H{"err": result.Reason})
		return
	}
	h.stats.Invalidate(c.Request.Context())
	response.JSON(c, http.StatusOK, gin.H{"status": "revoked"}, nil)
}
