package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/2023371019/CheckMeKit/internal/database"
	"github.com/2023371019/CheckMeKit/internal/ledger"
	"github.com/2023371019/CheckMeKit/internal/models"
	"github.com/2023371019/CheckMeKit/internal/session"
	"github.com/2023371019/CheckMeKit/internal/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// The in-memory store exists per connection; keep the pool at one.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	guard := session.NewGuard(session.NewUserRepository(db), session.NewDoctorRepository(db), zerolog.Nop())
	h := New(db, guard, ledger.New(db, zerolog.Nop()), database.NewVitalsFeed(db))

	r := gin.New()
	h.Mount(r)
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 && w.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func seedUser(t *testing.T, db *gorm.DB, email, password string) models.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	user := models.User{FirstName: "Ana", LastName: "Lopez", Email: email, Password: hash}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestRegisterThenLoginFlow(t *testing.T) {
	r, _ := newTestServer(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/register", gin.H{
		"nombre": "Ana", "apellido": "Lopez", "correo": "ana@example.com",
		"password": "secret123", "genero": "F", "edad": 34,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, resp["success"])

	// Duplicate email is rejected.
	w, resp = doJSON(t, r, http.MethodPost, "/api/register", gin.H{
		"nombre": "Ana", "apellido": "Lopez", "correo": "ana@example.com",
		"password": "secret123", "genero": "F", "edad": 34,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_argument", resp["error"])

	w, resp = doJSON(t, r, http.MethodPost, "/api/login", gin.H{
		"correo": "ana@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "patient", resp["role"])
	token, _ := resp["sessionToken"].(string)
	require.NotEmpty(t, token)
	userID := resp["id_usuario"].(float64)

	w, _ = doJSON(t, r, http.MethodPost, "/api/validateSession", gin.H{
		"id_usuario": userID, "sessionToken": token,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp = doJSON(t, r, http.MethodPost, "/api/validateSession", gin.H{
		"id_usuario": userID, "sessionToken": "forged-token",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", resp["error"])
}

func TestLoginConflictRequiresForce(t *testing.T) {
	r, db := newTestServer(t)
	seedUser(t, db, "ana@example.com", "secret123")

	w, first := doJSON(t, r, http.MethodPost, "/api/login", gin.H{
		"correo": "ana@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, resp := doJSON(t, r, http.MethodPost, "/api/login", gin.H{
		"correo": "ana@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "session_conflict", resp["error"])
	assert.Equal(t, true, resp["askForForce"])

	w, forced := doJSON(t, r, http.MethodPost, "/api/login", gin.H{
		"correo": "ana@example.com", "password": "secret123", "forzarLogin": true,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// The superseded token stops validating.
	w, _ = doJSON(t, r, http.MethodPost, "/api/validateSession", gin.H{
		"id_usuario": first["id_usuario"], "sessionToken": first["sessionToken"],
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = doJSON(t, r, http.MethodPost, "/api/validateSession", gin.H{
		"id_usuario": forced["id_usuario"], "sessionToken": forced["sessionToken"],
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/logout", gin.H{"id_usuario": forced["id_usuario"]})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDoctorLoginTrustsAssertion(t *testing.T) {
	r, db := newTestServer(t)
	require.NoError(t, db.Create(&models.Doctor{Email: "doctor@example.com"}).Error)

	w, resp := doJSON(t, r, http.MethodPost, "/api/google-login", gin.H{"email": "doctor@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "doctor", resp["role"])
	assert.NotEmpty(t, resp["sessionToken"])

	w, resp = doJSON(t, r, http.MethodPost, "/api/google-login", gin.H{"email": "stranger@example.com"})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", resp["error"])
}

func TestPurchaseEndpoint(t *testing.T) {
	r, db := newTestServer(t)
	user := seedUser(t, db, "ana@example.com", "secret123")
	require.NoError(t, db.Create(&models.CompanyAccount{UserID: user.ID, AccountNumber: "0001", Balance: 100.00}).Error)
	product := models.Product{Name: "Pulse sensor", Description: "Fingertip oximeter", Price: 30.00, Stock: 5}
	require.NoError(t, db.Create(&product).Error)

	w, resp := doJSON(t, r, http.MethodPost, "/api/compra", gin.H{
		"id_usuario": user.ID, "id_producto": product.ID, "cantidad": 3,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["success"])
	assert.InDelta(t, 10.00, resp["saldoRestante"].(float64), 1e-9)
	assert.EqualValues(t, 2, resp["nuevoStock"].(float64))

	// Stock is down to 2; asking for 5 fails without touching state.
	w, resp = doJSON(t, r, http.MethodPost, "/api/compra", gin.H{
		"id_usuario": user.ID, "id_producto": product.ID, "cantidad": 5,
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "insufficient_stock", resp["error"])

	var stored models.Product
	require.NoError(t, db.First(&stored, product.ID).Error)
	assert.Equal(t, 2, stored.Stock)

	w, resp = doJSON(t, r, http.MethodPost, "/api/compra", gin.H{
		"id_usuario": user.ID, "id_producto": product.ID + 999, "cantidad": 1,
	})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", resp["error"])
}

func TestBalanceUpsertAndLookup(t *testing.T) {
	r, db := newTestServer(t)
	user := seedUser(t, db, "ana@example.com", "secret123")

	w, _ := doJSON(t, r, http.MethodPost, "/api/empresa", gin.H{
		"id_usuario": user.ID, "numero_cuenta": "0001", "saldo": 50.00,
	})
	require.Equal(t, http.StatusOK, w.Code)

	// Second call updates the same row.
	w, _ = doJSON(t, r, http.MethodPost, "/api/empresa", gin.H{
		"id_usuario": user.ID, "numero_cuenta": "0002", "saldo": 75.00,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, resp := doJSON(t, r, http.MethodGet, "/api/saldo/"+itoa(user.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, 75.00, resp["saldo"].(float64), 1e-9)

	var count int64
	require.NoError(t, db.Model(&models.CompanyAccount{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	w, resp = doJSON(t, r, http.MethodGet, "/api/saldo/999", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", resp["error"])
}

func TestProductCRUD(t *testing.T) {
	r, _ := newTestServer(t)

	w, created := doJSON(t, r, http.MethodPost, "/productos", gin.H{
		"nombre": "Pulse sensor", "descripcion": "Fingertip oximeter", "precio": 30.00, "stock": 5,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	id := created["id_producto"].(float64)

	w, _ = doJSON(t, r, http.MethodPut, "/productos/"+itoa(uint(id)), gin.H{
		"nombre": "Pulse sensor", "descripcion": "Fingertip oximeter", "precio": 25.00, "stock": 8,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w, resp := doJSON(t, r, http.MethodPut, "/productos/999", gin.H{
		"nombre": "x", "descripcion": "y", "precio": 1.00, "stock": 1,
	})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", resp["error"])

	w, _ = doJSON(t, r, http.MethodDelete, "/productos/"+itoa(uint(id)), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w, _ = doJSON(t, r, http.MethodDelete, "/productos/"+itoa(uint(id)), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// newMockServer backs the handlers with a mocked store so store-level
// failures can be injected.
func newMockServer(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	guard := session.NewGuard(session.NewUserRepository(db), session.NewDoctorRepository(db), zerolog.Nop())
	h := New(db, guard, ledger.New(db, zerolog.Nop()), database.NewVitalsFeed(db))
	r := gin.New()
	h.Mount(r)
	return r, mock
}

func TestBalanceStoreTimeoutMapsToUnavailable(t *testing.T) {
	r, mock := newMockServer(t)
	mock.ExpectQuery(`SELECT \* FROM "company_accounts"`).
		WillReturnError(context.DeadlineExceeded)

	w, resp := doJSON(t, r, http.MethodGet, "/api/saldo/42", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "store_unavailable", resp["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchaseStoreTimeoutMapsToUnavailable(t *testing.T) {
	r, mock := newMockServer(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "products"`).
		WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	w, resp := doJSON(t, r, http.MethodPost, "/api/compra", gin.H{
		"id_usuario": 42, "id_producto": 1, "cantidad": 2,
	})
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "store_unavailable", resp["error"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVitalsFeedReturnsNewestFirst(t *testing.T) {
	r, db := newTestServer(t)
	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		record := models.VitalRecord{BPM: 70 + i, SpO2: 97, Status: "normal", Date: base.Add(time.Duration(i) * time.Hour), Hour: "08:00"}
		require.NoError(t, db.Create(&record).Error)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/datos", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var records []models.VitalRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 3)
	assert.Equal(t, 72, records[0].BPM)
	assert.Equal(t, 70, records[2].BPM)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
