package handler

import (
	"net/http"
	"strings"

	"faithlink/backend/internal/auth"
	"faithlink/backend/internal/models"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// bearerToken pulls the credential from the Authorization header, falling
// back to the token query parameter (browser WebSocket clients cannot set
// headers on the upgrade request).
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}

// resolveIdentity verifies the credential and resolves its subject to a
// live identity record. A deleted or unknown subject fails exactly like a
// bad token.
func (h *Handler) resolveIdentity(c *gin.Context) (*models.User, error) {
	subject, err := auth.ParseSubject([]byte(h.Cfg.JWTSecret), bearerToken(c))
	if err != nil {
		return nil, err
	}
	user, err := h.Store.FindUserByID(subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, auth.ErrInvalidToken
	}
	return user, nil
}

// Authenticate guards the REST surface.
func (h *Handler) Authenticate(c *gin.Context) {
	user, err := h.resolveIdentity(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Authentication required", err)
		return
	}
	c.Set(identityKey, user)
	c.Next()
}

// RequireAdmin sits behind Authenticate on admin-only routes.
func (h *Handler) RequireAdmin(c *gin.Context) {
	if !identity(c).IsAdmin() {
		respondError(c, http.StatusForbidden, "Admin access required", nil)
		return
	}
	c.Next()
}

func identity(c *gin.Context) *models.User {
	return c.MustGet(identityKey).(*models.User)
}
