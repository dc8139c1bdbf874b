package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"heating_profiles/internal/repository"
	"heating_profiles/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK      = "ok"
	statusDeleted = "deleted"
	statusStarted = "started"
	statusStopped = "stopped"

	errInvalidBodyPref = "invalid body: "
	errInvalidID       = "invalid id"
	errInternal        = "internal error"
)

// errorResponse is the body of every non-2xx JSON reply.
type errorResponse struct {
	Error string `json:"error" example:"invalid id"`
}

// badRequestErrors are service errors caused by the request content.
var badRequestErrors = []error{
	service.ErrInvalidUsername,
	service.ErrInvalidPassword,
	service.ErrInvalidZone,
	service.ErrInvalidController,
	service.ErrInvalidProfile,
	service.ErrInvalidTimeRange,
	service.ErrInvalidEventType,
	service.ErrInvalidLimit,
}

// conflictErrors are refused because of the current state of a record.
var conflictErrors = []error{
	service.ErrUsernameTaken,
	service.ErrAlreadyRunning,
	service.ErrNotRunning,
	service.ErrProfileInUse,
	service.ErrProfileOutOfLimits,
}

// statusForError maps service and repository errors to an HTTP status.
func statusForError(err error) int {
	if errors.Is(err, repository.ErrNotFound) {
		return http.StatusNotFound
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			return http.StatusConflict
		}
	}
	return http.StatusInternalServerError
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		h.log.Errorw(logKey, logFields(c, err, kv)...)
	}
	c.JSON(httpCode, errorResponse{Error: userMsg})
}

// respondServiceError writes client errors verbatim and hides internal ones.
func (h *Handler) respondServiceError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	code := statusForError(err)
	if code == http.StatusInternalServerError {
		h.logAndJSONError(c, code, errInternal, logKey, err, kv...)
		return
	}
	if h.log != nil {
		h.log.Infow(logKey, logFields(c, err, kv)...)
	}
	c.JSON(code, errorResponse{Error: err.Error()})
}

// abortUnauthorized stops the chain with a 401. err is only logged.
func (h *Handler) abortUnauthorized(c *gin.Context, userMsg string, err error) {
	if h.log != nil {
		h.log.Infow("auth_rejected", "path", c.FullPath(), "reason", userMsg, "err", err)
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: userMsg})
}

// logUserAction records a state change made through the API and who made it.
func (h *Handler) logUserAction(c *gin.Context, logKey string, kv ...interface{}) {
	if h.log == nil {
		return
	}
	uid, _ := currentUserID(c)
	h.log.Infow(logKey, append([]interface{}{"user_id", uid}, kv...)...)
}

// logFields prefixes kv with the error and, on authenticated routes, the user id.
func logFields(c *gin.Context, err error, kv []interface{}) []interface{} {
	fields := make([]interface{}, 0, len(kv)+4)
	fields = append(fields, "err", err)
	if uid, ok := currentUserID(c); ok {
		fields = append(fields, "user_id", uid)
	}
	return append(fields, kv...)
}

// intParam reads a positive integer path parameter and writes a 400 on failure.
func intParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: errInvalidID})
		return 0, false
	}
	return id, true
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}
