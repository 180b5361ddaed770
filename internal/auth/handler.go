package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionCookie carries the signed session token between requests.
const SessionCookie = "session_token"

// ContextUserKey is where the session middleware parks the hydrated user.
const ContextUserKey = "currentUser"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// --------------------------------------------------
// POST /auth/signup
// --------------------------------------------------
func (h *Handler) SignUp(c *gin.Context) {
	var req SignUpInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": FieldErrors(err)})
		return
	}

	if err := h.service.SignUp(c.Request.Context(), req.Name, req.Email, req.Password); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": ErrEmailTaken.Error()})
			return
		}
		log.Printf("sign-up failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create user"})
		return
	}

	c.Status(http.StatusCreated)
}

// --------------------------------------------------
// POST /auth/signin
// --------------------------------------------------
func (h *Handler) SignIn(c *gin.Context) {
	var req SignInInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": FieldErrors(err)})
		return
	}

	user, err := h.service.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidCredentials.Error()})
			return
		}
		log.Printf("sign-in failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not sign in"})
		return
	}

	token, err := GenerateToken(user.ID)
	if err != nil {
		log.Printf("token generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not sign in"})
		return
	}

	user.Password = ""
	c.SetCookie(SessionCookie, token, int(TokenTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// --------------------------------------------------
// POST /auth/signout
// --------------------------------------------------
func (h *Handler) SignOut(c *gin.Context) {
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

// --------------------------------------------------
// GET /auth/session (session required)
// --------------------------------------------------
func (h *Handler) Session(c *gin.Context) {
	userVal, exists := c.Get(ContextUserKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userVal})
}

// --------------------------------------------------
// POST /auth/password (session required)
// --------------------------------------------------
func (h *Handler) SetNewPassword(c *gin.Context) {
	var req ResetPasswordInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": FieldErrors(err)})
		return
	}

	if err := h.service.SetNewPassword(c.Request.Context(), req.ID, req.Password); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		log.Printf("set new password failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update password"})
		return
	}

	c.Status(http.StatusOK)
}
