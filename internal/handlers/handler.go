package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/2023371019/CheckMeKit/internal/ledger"
	"github.com/2023371019/CheckMeKit/internal/session"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// storeTimeout bounds every store round-trip made on behalf of a request.
const storeTimeout = 5 * time.Second

// Handler carries the injected dependencies for all endpoints. The store
// handle is passed in explicitly rather than read from a package global so
// tests can supply their own.
type Handler struct {
	db     *gorm.DB
	guard  *session.Guard
	ledger *ledger.Ledger
	vitals VitalsReader
}

func New(db *gorm.DB, guard *session.Guard, led *ledger.Ledger, vitals VitalsReader) *Handler {
	return &Handler{db: db, guard: guard, ledger: led, vitals: vitals}
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), storeTimeout)
}

// storeFailure translates a store-level error into a structured response.
// Raw store errors never reach the client.
func storeFailure(c *gin.Context, err error) {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "store_unavailable",
			"message": "The data store did not respond in time.",
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   "store_error",
		"message": "Database error",
	})
}
