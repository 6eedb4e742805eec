package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/2023371019/CheckMeKit/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PatientRef is the minimal listing used by the vitals charts.
type PatientRef struct {
	ID   uint   `json:"id_usuario"`
	Name string `json:"nombre"`
}

// PatientSummary is the listing used by the report views.
type PatientSummary struct {
	ID        uint   `json:"id_usuario"`
	FirstName string `json:"nombre"`
	LastName  string `json:"apellido"`
	Age       *int   `json:"edad"`
}

func (h *Handler) ListPatientRefs(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var refs []PatientRef
	if err := h.db.WithContext(ctx).Model(&models.User{}).Select("id, first_name AS name").Scan(&refs).Error; err != nil {
		storeFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, refs)
}

func (h *Handler) ListPatientSummaries(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var patients []PatientSummary
	if err := h.db.WithContext(ctx).Model(&models.User{}).Select("id, first_name, last_name, age").Scan(&patients).Error; err != nil {
		storeFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, patients)
}

func (h *Handler) GetPatient(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid_argument", "message": "Invalid patient ID format"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var user models.User
	if err := h.db.WithContext(ctx).Where("id = ?", uint(userID)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "not_found", "message": "Patient not found"})
			return
		}
		storeFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"nombre": user.FirstName, "apellido": user.LastName, "edad": user.Age})
}
