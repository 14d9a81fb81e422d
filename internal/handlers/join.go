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

// JoinHandler serves the join-code endpoints.
type JoinHandler struct {
	memberships *services.MembershipService
	logger      *zap.Logger
}

// NewJoinHandler creates a new JoinHandler.
func NewJoinHandler(memberships *services.MembershipService, logger *zap.Logger) *JoinHandler {
	return &JoinHandler{
		memberships: memberships,
		logger:      logger,
	}
}

type joinRequest struct {
	Code string `json:"code" binding:"required"`
}

// Join resolves a code against organizations first, then classes, and joins
// the caller in the role the code grants. Legacy combined endpoint.
func (h *JoinHandler) Join(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request", "code is required")
		return
	}

	result, err := h.memberships.JoinWithCode(userID, req.Code)
	if err != nil {
		h.respondJoinError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.JoinResponse{
		Success:    true,
		Message:    "Successfully joined " + result.EntityType,
		EntityType: result.EntityType,
		EntityID:   result.EntityID,
		Role:       result.Role,
	})
}

// JoinClass resolves class codes and personal student guardian codes. A
// guardian code whose student sits in several classes returns a
// disambiguation payload; the caller resubmits with selectedClassIds.
func (h *JoinHandler) JoinClass(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type joinClassRequest struct {
		Code             string   `json:"code" binding:"required"`
		SelectedClassIDs []uint64 `json:"selectedClassIds"`
	}

	var req joinClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request", "code is required")
		return
	}

	result, selection, err := h.memberships.JoinClass(userID, req.Code, req.SelectedClassIDs)
	if err != nil {
		h.respondJoinError(c, err)
		return
	}

	if selection != nil {
		c.JSON(http.StatusOK, dto.ClassSelectionResponse{
			Success:                false,
			RequiresClassSelection: true,
			StudentName:            selection.StudentName,
			Classes:                dto.ToCandidateClassDTOs(selection.Classes),
		})
		return
	}

	c.JSON(http.StatusOK, dto.JoinResponse{
		Success:    true,
		Message:    "Successfully joined class as " + string(result.Role),
		EntityType: result.EntityType,
		EntityID:   result.EntityID,
		ClassIDs:   result.ClassIDs,
		Role:       result.Role,
	})
}

// JoinOrganization resolves organization join codes only. Organization joins
// always grant the teacher role.
func (h *JoinHandler) JoinOrganization(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request", "code is required")
		return
	}

	result, err := h.memberships.JoinOrganization(userID, req.Code)
	if err != nil {
		h.respondJoinError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.JoinResponse{
		Success:    true,
		Message:    "Successfully joined organization",
		EntityType: result.EntityType,
		EntityID:   result.EntityID,
		Role:       result.Role,
	})
}

func (h *JoinHandler) respondJoinError(c *gin.Context, err error) {
	var alreadyMember *services.AlreadyMemberError

	switch {
	case errors.Is(err, services.ErrInvalidCodeFormat):
		apierrors.BadRequest(c, "Invalid code format",
			"Code must be exactly 6 characters from the allowed alphabet")
	case errors.Is(err, services.ErrCodeNotFound):
		apierrors.NotFound(c, "Code not found",
			"Invalid join code. Please check and try again.")
	case errors.Is(err, services.ErrNoClassesForStudent):
		apierrors.NotFound(c, "No classes found",
			"This student is not enrolled in any class.")
	case errors.Is(err, services.ErrInvalidClassSelection):
		apierrors.BadRequest(c, "Invalid request",
			"One or more selected classes are not valid targets for this code")
	case errors.As(err, &alreadyMember):
		c.JSON(http.StatusConflict, gin.H{
			"error":      "Already a member",
			"message":    "You are already a member of this " + alreadyMember.EntityType + ".",
			"entityType": alreadyMember.EntityType,
			"entityId":   alreadyMember.EntityID,
			"role":       alreadyMember.Role,
		})
	default:
		h.logger.Error("join failed", zap.Error(err))
		apierrors.ServerError(c)
	}
}
