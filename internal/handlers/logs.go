package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"heating_profiles/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid         = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid           = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errControllerIDInvalid = "invalid controller_id"
	errLimitInvalid        = "invalid limit"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"

	defaultLogLimit = 500
	maxLogLimit     = 5000
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      List logs
// @Description  Filter logs by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'), type and controller. If 'to' is date-only, it is treated as end-of-day inclusive (23:59:59.999999999Z). Newest first.
// @Tags         logs
// @Produce      json
// @Param        from           query   string  false  "Start of range"  example(2025-08-01)
// @Param        to             query   string  false  "End of range. Date-only treated as end of day."  example(2025-08-31)
// @Param        type           query   string  false  "Event type"  Enums(START,STOP,PROFILE_COMPLETE,ERROR,TELEMETRY)
// @Param        controller_id  query   int     false  "Only events of this controller"
// @Param        limit          query   int     false  "Maximum number of events (default 500, max 5000)"
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/v1/logs [get]
// @Security     BearerAuth
func (h *Handler) getLogs(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		from time.Time
		to   time.Time
		err  error

		filter = service.LogFilter{Type: c.Query("type"), Limit: defaultLogLimit}
	)
	if qs := c.Query("from"); qs != "" {
		from, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: errFromInvalid})
			return
		}
	}
	// If the user didn't include a time component, treat "to" as the end of that day.
	if qs := c.Query("to"); qs != "" {
		to, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: errToInvalid})
			return
		}
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	if qs := c.Query("controller_id"); qs != "" {
		filter.ControllerID, err = strconv.Atoi(qs)
		if err != nil || filter.ControllerID <= 0 {
			c.JSON(http.StatusBadRequest, errorResponse{Error: errControllerIDInvalid})
			return
		}
	}
	if qs := c.Query("limit"); qs != "" {
		filter.Limit, err = strconv.Atoi(qs)
		if err != nil || filter.Limit <= 0 || filter.Limit > maxLogLimit {
			c.JSON(http.StatusBadRequest, errorResponse{Error: errLimitInvalid})
			return
		}
	}
	filter.From, filter.To = from, to

	events, err := h.services.EventLog.List(ctx, filter)
	if err != nil {
		h.respondServiceError(c, "logs_list_failed", err, "from", from, "to", to, "type", filter.Type)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

func parseQueryTime(s string) (time.Time, error) {
	// Try multiple accepted formats, normalizing to UTC.
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
