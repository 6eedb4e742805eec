package handlers

import (
	"net/http"
	"strconv"

	"github.com/2023371019/CheckMeKit/internal/models"

	"github.com/gin-gonic/gin"
)

type ProductRequest struct {
	Name        string  `json:"nombre" binding:"required"`
	Description string  `json:"descripcion" binding:"required"`
	Price       float64 `json:"precio" binding:"required"`
	Stock       *int    `json:"stock" binding:"required"` // pointer so zero stock binds
}

func (h *Handler) ListProducts(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var products []models.Product
	if err := h.db.WithContext(ctx).Find(&products).Error; err != nil {
		storeFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid_argument", "message": "All fields are required."})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       *req.Stock,
	}
	if err := h.db.WithContext(ctx).Create(&product).Error; err != nil {
		storeFailure(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid_argument", "message": "Invalid product ID format"})
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid_argument", "message": "All fields are required."})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result := h.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", uint(productID)).Updates(map[string]interface{}{
		"name":        req.Name,
		"description": req.Description,
		"price":       req.Price,
		"stock":       *req.Stock,
	})
	if result.Error != nil {
		storeFailure(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "not_found", "message": "Product not found."})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id_producto": uint(productID),
		"nombre":      req.Name,
		"descripcion": req.Description,
		"precio":      req.Price,
		"stock":       *req.Stock,
	})
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid_argument", "message": "Invalid product ID format"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result := h.db.WithContext(ctx).Delete(&models.Product{}, uint(productID))
	if result.Error != nil {
		storeFailure(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "not_found", "message": "Product not found."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted successfully."})
}
