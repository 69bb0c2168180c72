package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Pranay9392/ecommerce-mernstack-backend/models"
	"github.com/Pranay9392/ecommerce-mernstack-backend/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Handlers serves registration and login.
type Handlers struct {
	users  store.Users
	issuer *TokenIssuer
	log    *zap.Logger
}

func NewHandlers(users store.Users, issuer *TokenIssuer, log *zap.Logger) *Handlers {
	return &Handlers{users: users, issuer: issuer, log: log}
}

// POST /register
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, valid email and a password of at least 6 characters are required"})
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := h.users.FindUserByEmail(c.Request.Context(), email); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		h.internalError(c, "lookup user", err)
		return
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		h.internalError(c, "hash password", err)
		return
	}

	// New accounts never carry a role; roles are provisioned out of band.
	user := models.User{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: hash,
	}
	if err := h.users.CreateUser(c.Request.Context(), &user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
			return
		}
		h.internalError(c, "create user", err)
		return
	}

	h.respondWithToken(c, user)
}

// POST /login
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
		return
	}

	user, err := h.users.FindUserByEmail(c.Request.Context(), strings.TrimSpace(req.Email))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		h.internalError(c, "lookup user", err)
		return
	}

	ok, err := CheckPassword(user.Password, req.Password)
	if err != nil {
		h.internalError(c, "check password", err)
		return
	}
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
		return
	}

	h.respondWithToken(c, *user)
}

func (h *Handlers) respondWithToken(c *gin.Context, user models.User) {
	token, err := h.issuer.Issue(user.ID, user.Roles())
	if err != nil {
		h.internalError(c, "issue token", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":           token,
		"isAdmin":         user.IsAdmin,
		"isDeliveryAdmin": user.IsDeliveryAdmin,
	})
}

func (h *Handlers) internalError(c *gin.Context, op string, err error) {
	h.log.Error("auth request failed", zap.String("op", op), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
}
