package handlers

import (
	"errors"
	"net/http"

	"github.com/classclarus/classroom-api/internal/dto"
	apierrors "github.com/classclarus/classroom-api/internal/errors"
	"github.com/classclarus/classroom-api/internal/middleware"
	"github.com/classclarus/classroom-api/internal/services"
	"github.com/classclarus/classroom-api/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ClassHandler serves class endpoints.
type ClassHandler struct {
	classes *services.ClassService
	logger  *zap.Logger
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(classes *services.ClassService, logger *zap.Logger) *ClassHandler {
	return &ClassHandler{
		classes: classes,
		logger:  logger,
	}
}

// CreateClass creates a new class owned by the caller. The response includes
// the three role codes; only this owner-facing path ever exposes them.
func (h *ClassHandler) CreateClass(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type createClassRequest struct {
		Name           string  `json:"name" binding:"required"`
		OrganizationID *uint64 `json:"organization_id"`
	}

	var req createClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request", "name is required")
		return
	}

	class, err := h.classes.CreateClass(services.CreateClassInput{
		Name:           req.Name,
		OwnerID:        userID,
		OrganizationID: req.OrganizationID,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidEntityName) {
			apierrors.BadRequest(c, "Invalid request", "name is required")
			return
		}
		h.logger.Error("class creation failed", zap.Error(err))
		apierrors.ServerError(c)
		return
	}

	c.JSON(http.StatusCreated, dto.ToClassDTO(*class, true))
}

// ListClasses returns the classes the caller owns or belongs to. Owned
// classes include their codes; memberships never do.
func (h *ClassHandler) ListClasses(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	owned, err := h.classes.ListOwnedBy(userID)
	if err != nil {
		h.logger.Error("failed to list owned classes", zap.Error(err))
		apierrors.ServerError(c)
		return
	}

	memberships, total, err := h.classes.ListPageForUser(userID, params)
	if err != nil {
		h.logger.Error("failed to list classes", zap.Error(err))
		apierrors.ServerError(c)
		return
	}

	classes := make([]dto.ClassWithRoleDTO, 0, len(owned)+len(memberships))
	for _, class := range owned {
		classes = append(classes, dto.OwnedClassDTO(class))
	}
	for _, m := range memberships {
		classes = append(classes, dto.ToClassWithRoleDTO(m))
	}

	c.JSON(http.StatusOK, gin.H{
		"classes": classes,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}
