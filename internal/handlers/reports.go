package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/2023371019/CheckMeKit/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ClinicalReportRequest struct {
	PatientID uint   `json:"id_paciente" binding:"required"`
	Oxygen    int    `json:"oxigenacion" binding:"required"`
	HeartRate int    `json:"frecuencia_cardiaca" binding:"required"`
	Notes     string `json:"observaciones"`
}

func (h *Handler) SaveClinicalReport(c *gin.Context) {
	var req ClinicalReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid_argument", "message": "All fields are required."})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	report := models.ClinicalReport{
		PatientID: req.PatientID,
		Oxygen:    req.Oxygen,
		HeartRate: req.HeartRate,
		Notes:     req.Notes,
	}
	if err := h.db.WithContext(ctx).Create(&report).Error; err != nil {
		storeFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Report saved successfully"})
}

// LatestClinicalReport serves the newest history row for a patient; the
// client renders the PDF from it.
func (h *Handler) LatestClinicalReport(c *gin.Context) {
	patientID, err := strconv.ParseUint(c.Param("id_paciente"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid_argument", "message": "Invalid patient ID format"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var report models.ClinicalReport
	if err := h.db.WithContext(ctx).Where("patient_id = ?", uint(patientID)).Order("created_at DESC").First(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "not_found", "message": "No records for this patient"})
			return
		}
		storeFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// SaleReportRow is one sale joined with the buyer's name.
type SaleReportRow struct {
	SaleID uint      `json:"id_venta"`
	Date   time.Time `json:"fecha"`
	Client string    `json:"cliente"`
	Total  float64   `json:"total"`
}

// MonthBucket groups a month's sales with their running total.
type MonthBucket struct {
	Sales []SaleReportRow `json:"ventas"`
	Total float64         `json:"totalMes"`
}

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// monthKey matches the month labels the report view already displays.
func monthKey(t time.Time) string {
	return fmt.Sprintf("%s de %d", spanishMonths[t.Month()-1], t.Year())
}

func (h *Handler) SalesReport(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var rows []SaleReportRow
	err := h.db.WithContext(ctx).Model(&models.Sale{}).
		Select("sales.id AS sale_id, sales.created_at AS date, users.first_name || ' ' || users.last_name AS client, sales.total AS total").
		Joins("JOIN users ON users.id = sales.user_id").
		Order("sales.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		storeFailure(c, err)
		return
	}

	months := make(map[string]*MonthBucket)
	var grandTotal float64
	for _, row := range rows {
		key := monthKey(row.Date)
		bucket, ok := months[key]
		if !ok {
			bucket = &MonthBucket{}
			months[key] = bucket
		}
		bucket.Sales = append(bucket.Sales, row)
		bucket.Total += row.Total
		grandTotal += row.Total
	}

	c.JSON(http.StatusOK, gin.H{"ventasPorMes": months, "totalGanancias": grandTotal})
}

func (h *Handler) UsersReport(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	var users []models.User
	if err := h.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		storeFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"usuarios": users, "totalUsuarios": len(users)})
}
