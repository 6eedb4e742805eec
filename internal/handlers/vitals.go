package handlers

import (
	"context"
	"net/http"

	"github.com/2023371019/CheckMeKit/internal/models"

	"github.com/gin-gonic/gin"
)

// vitalsFeedLimit matches the window the monitoring charts display.
const vitalsFeedLimit = 20

// VitalsReader is the interface to the device vital-sign feed. The ingestion
// side is an external collaborator; the API only reads.
type VitalsReader interface {
	Latest(ctx context.Context, limit int) ([]models.VitalRecord, error)
}

func (h *Handler) GetVitals(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	records, err := h.vitals.Latest(ctx, vitalsFeedLimit)
	if err != nil {
		storeFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
