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

// OrganizationHandler serves organization endpoints.
type OrganizationHandler struct {
	organizations *services.OrganizationService
	logger        *zap.Logger
}

// NewOrganizationHandler creates a new OrganizationHandler.
func NewOrganizationHandler(organizations *services.OrganizationService, logger *zap.Logger) *OrganizationHandler {
	return &OrganizationHandler{
		organizations: organizations,
		logger:        logger,
	}
}

// CreateOrganization creates a new organization owned by the caller. The
// response carries the join code so the owner can hand it out.
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type createOrgRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req createOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request", "name is required")
		return
	}

	org, err := h.organizations.CreateOrganization(services.CreateOrganizationInput{
		Name:    req.Name,
		OwnerID: userID,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidEntityName) {
			apierrors.BadRequest(c, "Invalid request", "name is required")
			return
		}
		h.logger.Error("organization creation failed", zap.Error(err))
		apierrors.ServerError(c)
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrganizationDTO(*org))
}

// ListOrganizations returns the organizations the caller owns or belongs to.
// Owned organizations come first and are tagged with the display-only owner
// role.
func (h *OrganizationHandler) ListOrganizations(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	params := utils.GetPaginationParams(c)

	owned, err := h.organizations.ListOwnedBy(userID)
	if err != nil {
		h.logger.Error("failed to list owned organizations", zap.Error(err))
		apierrors.ServerError(c)
		return
	}

	memberships, total, err := h.organizations.ListPageForUser(userID, params)
	if err != nil {
		h.logger.Error("failed to list organizations", zap.Error(err))
		apierrors.ServerError(c)
		return
	}

	orgs := make([]dto.OrganizationWithRoleDTO, 0, len(owned)+len(memberships))
	for _, org := range owned {
		orgs = append(orgs, dto.OwnedOrganizationDTO(org))
	}
	for _, m := range memberships {
		orgs = append(orgs, dto.ToOrganizationWithRoleDTO(m))
	}

	c.JSON(http.StatusOK, gin.H{
		"organizations": orgs,
		"pagination": utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}
