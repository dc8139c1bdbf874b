package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ctxUserID is the gin context key holding the authenticated user id.
const ctxUserID = "user_id"

const (
	errMissingAuth = "missing Authorization header"
	errBadAuth     = "invalid Authorization header format"
	errBadToken    = "invalid or expired token"
)

// requireUser accepts "Authorization: Bearer <jwt>" and stores the token's
// user id under ctxUserID. The scheme is matched case-insensitively.
func (h *Handler) requireUser(c *gin.Context) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		h.abortUnauthorized(c, errMissingAuth, nil)
		return
	}

	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		h.abortUnauthorized(c, errBadAuth, nil)
		return
	}

	userID, err := h.services.Authorization.ParseToken(token)
	if err != nil {
		h.abortUnauthorized(c, errBadToken, err)
		return
	}

	c.Set(ctxUserID, userID)
	c.Next()
}

// currentUserID returns the id stored by requireUser.
func currentUserID(c *gin.Context) (int, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}
