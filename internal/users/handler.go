package users

import (
	"errors"
	"log"
	"net/http"

	"gatehouse/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// --------------------------------------------------
// GET /users (session required)
// --------------------------------------------------
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		log.Printf("list users failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// --------------------------------------------------
// DELETE /users/:id (session required)
// --------------------------------------------------
func (h *Handler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		log.Printf("delete user failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete user"})
		return
	}

	c.Status(http.StatusOK)
}

// --------------------------------------------------
// POST /users/invite (session required)
// --------------------------------------------------
func (h *Handler) InviteUser(c *gin.Context) {
	var req auth.InviteInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": auth.FieldErrors(err)})
		return
	}

	user, err := h.service.Invite(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": auth.ErrEmailTaken.Error()})
			return
		}
		log.Printf("invite user failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to invite user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// --------------------------------------------------
// POST /api/tests/cleanup
// Unauthenticated and destructive. Test fixture, not production surface.
// --------------------------------------------------
func (h *Handler) Cleanup(c *gin.Context) {
	deleted, err := h.service.CleanupTestUsers(c.Request.Context())
	if err != nil {
		log.Printf("test cleanup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cleanup successful", "deleted": deleted})
}
