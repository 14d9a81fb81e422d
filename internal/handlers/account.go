package handlers

import (
	"errors"
	"net/http"

	apierrors "github.com/classclarus/classroom-api/internal/errors"
	"github.com/classclarus/classroom-api/internal/middleware"
	"github.com/classclarus/classroom-api/internal/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccountHandler serves account lifecycle endpoints.
type AccountHandler struct {
	accounts *services.AccountService
	logger   *zap.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts *services.AccountService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		accounts: accounts,
		logger:   logger,
	}
}

// DeleteAccount deletes the caller's own account and everything referencing
// it. Self-deletion only.
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.accounts.DeleteAccount(userID); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			apierrors.NotFound(c, "User not found", "The user account does not exist.")
			return
		}
		h.logger.Error("account deletion failed", zap.Uint64("user_id", userID), zap.Error(err))
		apierrors.ServerError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Account and all associated data have been deleted successfully",
	})
}
