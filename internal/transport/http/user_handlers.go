package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomcast-server/internal/auth"
	"github.com/vovakirdan/roomcast-server/internal/store"
)

// UserHandlers provides HTTP handlers for profile operations.
type UserHandlers struct {
	authService *auth.Service
	store       store.Store
	log         *zerolog.Logger
}

// NewUserHandlers creates a new user handlers instance.
func NewUserHandlers(authService *auth.Service, st store.Store, logger *zerolog.Logger) *UserHandlers {
	return &UserHandlers{
		authService: authService,
		store:       st,
		log:         logger,
	}
}

// ProfileResponse represents a user profile in API responses.
type ProfileResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Nick      string    `json:"nick"`
	CreatedAt time.Time `json:"created_at"`
}

// UpdateNickRequest represents the nick change request body.
type UpdateNickRequest struct {
	Nick string `json:"nick" binding:"required"`
}

// Profile returns the authenticated user's profile.
// GET /api/auth/profile
func (h *UserHandlers) Profile(c *gin.Context) {
	uid, ok := userIDFromContext(c, h.log)
	if !ok {
		return
	}

	user, err := h.store.GetUserByID(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
			return
		}
		h.log.Error().Err(err).Int64("user_id", uid).Msg("failed to load profile")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{
		ID:        user.ID,
		Email:     user.Email,
		Nick:      user.Nick,
		CreatedAt: user.CreatedAt,
	})
}

// UpdateNick changes the authenticated user's display name.
// PUT /api/auth/profile/nick
func (h *UserHandlers) UpdateNick(c *gin.Context) {
	uid, ok := userIDFromContext(c, h.log)
	if !ok {
		return
	}

	var req UpdateNickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Debug().Err(err).Msg("invalid nick update request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.authService.UpdateNick(c.Request.Context(), uid, req.Nick)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidNick):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "nick must be 3-32 characters"})
		case errors.Is(err, auth.ErrNickTaken):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "nick already taken"})
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
		default:
			h.log.Error().Err(err).Int64("user_id", uid).Msg("failed to update nick")
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		}
		return
	}

	h.log.Info().Int64("user_id", uid).Str("nick", user.Nick).Msg("nick updated")
	c.JSON(http.StatusOK, ProfileResponse{
		ID:        user.ID,
		Email:     user.Email,
		Nick:      user.Nick,
		CreatedAt: user.CreatedAt,
	})
}

// DeleteAccount removes the authenticated user's account.
// DELETE /api/auth/profile
func (h *UserHandlers) DeleteAccount(c *gin.Context) {
	uid, ok := userIDFromContext(c, h.log)
	if !ok {
		return
	}

	if err := h.authService.DeleteAccount(c.Request.Context(), uid); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
			return
		}
		h.log.Error().Err(err).Int64("user_id", uid).Msg("failed to delete account")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Int64("user_id", uid).Msg("account deleted")
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}
