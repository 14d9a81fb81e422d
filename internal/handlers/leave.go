package handlers

import (
	"errors"
	"net/http"

	"github.com/classclarus/classroom-api/internal/dto"
	apierrors "github.com/classclarus/classroom-api/internal/errors"
	"github.com/classclarus/classroom-api/internal/middleware"
	"github.com/classclarus/classroom-api/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LeaveHandler serves the leave endpoints.
type LeaveHandler struct {
	memberships *services.MembershipService
	logger      *zap.Logger
}

// NewLeaveHandler creates a new LeaveHandler.
func NewLeaveHandler(memberships *services.MembershipService, logger *zap.Logger) *LeaveHandler {
	return &LeaveHandler{
		memberships: memberships,
		logger:      logger,
	}
}

// LeaveClass removes every role the caller holds on the class.
func (h *LeaveHandler) LeaveClass(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type leaveClassRequest struct {
		ClassID uint64 `json:"classId" binding:"required"`
	}

	var req leaveClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request", "classId is required")
		return
	}

	if err := h.memberships.LeaveClass(userID, req.ClassID); err != nil {
		switch {
		case errors.Is(err, services.ErrClassNotFound):
			apierrors.NotFound(c, "Class not found", "The specified class does not exist.")
		case errors.Is(err, services.ErrCannotLeaveAsOwner):
			apierrors.Forbidden(c, "Cannot leave class", "Class owners cannot leave their own class.")
		case errors.Is(err, services.ErrNotAMember):
			apierrors.NotFound(c, "Not a member", "You are not a member of this class.")
		default:
			h.logger.Error("leave class failed", zap.Error(err))
			apierrors.ServerError(c)
		}
		return
	}

	c.JSON(http.StatusOK, dto.LeaveResponse{
		Success:    true,
		Message:    "Successfully left class",
		EntityType: "class",
		EntityID:   req.ClassID,
	})
}

// LeaveOrganization removes every role the caller holds on the organization.
func (h *LeaveHandler) LeaveOrganization(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type leaveOrgRequest struct {
		OrganizationID uint64 `json:"organizationId" binding:"required"`
	}

	var req leaveOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request", "organizationId is required")
		return
	}

	if err := h.memberships.LeaveOrganization(userID, req.OrganizationID); err != nil {
		switch {
		case errors.Is(err, services.ErrOrganizationNotFound):
			apierrors.NotFound(c, "Organization not found", "The specified organization does not exist.")
		case errors.Is(err, services.ErrCannotLeaveAsOwner):
			apierrors.Forbidden(c, "Cannot leave organization",
				"Organization owners cannot leave their own organization.")
		case errors.Is(err, services.ErrNotAMember):
			apierrors.NotFound(c, "Not a member", "You are not a member of this organization.")
		default:
			h.logger.Error("leave organization failed", zap.Error(err))
			apierrors.ServerError(c)
		}
		return
	}

	c.JSON(http.StatusOK, dto.LeaveResponse{
		Success:    true,
		Message:    "Successfully left organization",
		EntityType: "organization",
		EntityID:   req.OrganizationID,
	})
}
