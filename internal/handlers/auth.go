package handlers

import (
	"errors"
	"net/http"

	"github.com/2023371019/CheckMeKit/internal/models"
	"github.com/2023371019/CheckMeKit/internal/session"
	"github.com/2023371019/CheckMeKit/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// --- Structs for Request Binding ---

type RegisterRequest struct {
	FirstName string `json:"nombre" binding:"required"`
	LastName  string `json:"apellido" binding:"required"`
	Email     string `json:"correo" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	Gender    string `json:"genero" binding:"required"`
	Age       int    `json:"edad" binding:"required"`
}

type CheckUserRequest struct {
	Email string `json:"correo" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"correo" binding:"required"`
	Password string `json:"password" binding:"required"`
	Force    bool   `json:"forzarLogin"`
}

type ValidateSessionRequest struct {
	UserID uint   `json:"id_usuario" binding:"required"`
	Token  string `json:"sessionToken" binding:"required"`
}

type LogoutRequest struct {
	UserID uint `json:"id_usuario" binding:"required"`
}

type GoogleLoginRequest struct {
	// Email arrives pre-verified by the external identity provider.
	Email string `json:"email" binding:"required"`
	Force bool   `json:"forzarLogin"`
}

type ValidateDoctorSessionRequest struct {
	DoctorID uint   `json:"id_doctor" binding:"required"`
	Token    string `json:"sessionToken" binding:"required"`
}

type LogoutDoctorRequest struct {
	DoctorID uint `json:"id_doctor" binding:"required"`
}

// --- Handler Functions ---

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid_argument", "message": "All fields are required."})
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to hash password"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	user := models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  hashed,
		Gender:    &req.Gender,
		Age:       &req.Age,
	}
	if err := h.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid_argument", "message": "Email is already registered."})
			return
		}
		storeFailure(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "User registered successfully"})
}

func (h *Handler) CheckUser(c *gin.Context) {
	var req CheckUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid_argument", "message": "Email is required."})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	var doctor models.Doctor
	err := h.db.WithContext(ctx).Where("email = ?", req.Email).First(&doctor).Error
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "role": "doctor"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		storeFailure(c, err)
		return
	}

	var user models.User
	if err := h.db.WithContext(ctx).Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "not_found", "message": "Email is not registered."})
			return
		}
		storeFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "role": "patient", "id_usuario": user.ID})
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid_argument", "message": "All fields are required."})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	sess, err := h.guard.Authenticate(ctx, session.RolePatient, req.Email, req.Password, req.Force)
	if err != nil {
		h.authFailure(c, err, "Email is not registered.", "Incorrect password.")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"role":         "patient",
		"id_usuario":   sess.ID,
		"sessionToken": sess.Token,
	})
}

func (h *Handler) GoogleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid_argument", "message": "Google email is required."})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	sess, err := h.guard.Authenticate(ctx, session.RoleDoctor, req.Email, "", req.Force)
	if err != nil {
		h.authFailure(c, err, "Email is not registered as a doctor.", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"role":         "doctor",
		"id_doctor":    sess.ID,
		"sessionToken": sess.Token,
	})
}

// authFailure maps guard errors onto the responses the frontend acts on; a
// session conflict carries askForForce so the client can offer a takeover.
func (h *Handler) authFailure(c *gin.Context, err error, notFoundMsg, unauthorizedMsg string) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "not_found", "message": notFoundMsg})
	case errors.Is(err, session.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized", "message": unauthorizedMsg})
	case errors.Is(err, session.ErrSessionConflict):
		c.JSON(http.StatusBadRequest, gin.H{
			"success":     false,
			"error":       "session_conflict",
			"message":     "An active session already exists on another device.",
			"askForForce": true,
		})
	default:
		storeFailure(c, err)
	}
}

func (h *Handler) ValidateSession(c *gin.Context) {
	var req ValidateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid_argument", "message": "User ID and token are required."})
		return
	}
	h.validateSession(c, session.RolePatient, req.UserID, req.Token)
}

func (h *Handler) ValidateDoctorSession(c *gin.Context) {
	var req ValidateDoctorSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid_argument", "message": "Doctor ID and token are required."})
		return
	}
	h.validateSession(c, session.RoleDoctor, req.DoctorID, req.Token)
}

func (h *Handler) validateSession(c *gin.Context, role session.Role, id uint, token string) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.guard.Validate(ctx, role, id, token); err != nil {
		if errors.Is(err, session.ErrInvalidSession) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthorized", "message": "Session is not valid or was opened elsewhere."})
			return
		}
		storeFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Session is valid."})
}

func (h *Handler) Logout(c *gin.Context) {
	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid_argument", "message": "User ID is required."})
		return
	}
	h.revokeSession(c, session.RolePatient, req.UserID)
}

func (h *Handler) LogoutDoctor(c *gin.Context) {
	var req LogoutDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid_argument", "message": "Doctor ID is required."})
		return
	}
	h.revokeSession(c, session.RoleDoctor, req.DoctorID)
}

func (h *Handler) revokeSession(c *gin.Context, role session.Role, id uint) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.guard.Revoke(ctx, role, id); err != nil {
		storeFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Session closed successfully."})
}
