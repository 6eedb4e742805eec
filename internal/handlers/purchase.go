package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/2023371019/CheckMeKit/internal/ledger"
	"github.com/2023371019/CheckMeKit/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PurchaseRequest struct {
	UserID    uint `json:"id_usuario" binding:"required"`
	ProductID uint `json:"id_producto" binding:"required"`
	Quantity  int  `json:"cantidad" binding:"required"`
}

func (h *Handler) GetStock(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id_producto"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid_argument", "message": "Invalid product ID format"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var product models.Product
	if err := h.db.WithContext(ctx).Where("id = ?", uint(productID)).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "not_found", "message": "Product not found."})
			return
		}
		storeFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stock": product.Stock, "precio": product.Price})
}

// Purchase runs the atomic purchase transaction and maps each ledger outcome
// to a distinguishable response.
func (h *Handler) Purchase(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid_argument", "message": "All fields are required and quantity must be greater than 0."})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	receipt, err := h.ledger.Purchase(ctx, req.UserID, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid_argument", "message": "Quantity must be greater than 0."})
		case errors.Is(err, ledger.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "not_found", "message": "Product does not exist."})
		case errors.Is(err, ledger.ErrNoAccount):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "no_account", "message": "User has no registered account."})
		case errors.Is(err, ledger.ErrInsufficientStock):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "insufficient_stock", "message": err.Error()})
		case errors.Is(err, ledger.ErrInsufficientFunds):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "insufficient_funds", "message": err.Error()})
		case errors.Is(err, ledger.ErrTransactionLost):
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "transaction_failed", "message": "The purchase lost a concurrent update; nothing was charged. Please retry."})
		default:
			storeFailure(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Purchase completed successfully.",
		"id_venta":      receipt.SaleID,
		"saldoRestante": receipt.RemainingBalance,
		"nuevoStock":    receipt.RemainingStock,
	})
}
