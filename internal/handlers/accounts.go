package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/2023371019/CheckMeKit/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UpsertAccountRequest struct {
	UserID        uint     `json:"id_usuario" binding:"required"`
	AccountNumber string   `json:"numero_cuenta" binding:"required"`
	Balance       *float64 `json:"saldo" binding:"required"` // pointer so a zero balance binds
}

// UpsertCompanyAccount registers the buyer's account or updates its balance
// and account number if one already exists for the user.
func (h *Handler) UpsertCompanyAccount(c *gin.Context) {
	var req UpsertAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid_argument", "message": "All fields are required."})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var account models.CompanyAccount
	err := h.db.WithContext(ctx).Where("user_id = ?", req.UserID).First(&account).Error
	switch {
	case err == nil:
		account.AccountNumber = req.AccountNumber
		account.Balance = *req.Balance
		if err := h.db.WithContext(ctx).Save(&account).Error; err != nil {
			storeFailure(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Balance updated successfully."})
	case errors.Is(err, gorm.ErrRecordNotFound):
		account = models.CompanyAccount{
			UserID:        req.UserID,
			AccountNumber: req.AccountNumber,
			Balance:       *req.Balance,
		}
		if err := h.db.WithContext(ctx).Create(&account).Error; err != nil {
			storeFailure(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Account registered successfully."})
	default:
		storeFailure(c, err)
	}
}

func (h *Handler) GetBalance(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id_usuario"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid_argument", "message": "Invalid user ID format"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var account models.CompanyAccount
	if err := h.db.WithContext(ctx).Where("user_id = ?", uint(userID)).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "not_found", "message": "User not found or has no registered account."})
			return
		}
		storeFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "saldo": account.Balance})
}
