package handlers

import (
	"net/http"
	"strconv"

	"heating_profiles/internal/service"

	"github.com/gin-gonic/gin"
)

// ControllerRequest is the create payload for a controller.
type ControllerRequest struct {
	ZoneID   int     `json:"zone_id" binding:"required" example:"1"`
	Name     string  `json:"name" binding:"required" example:"Kiln A"`
	MinTempC float64 `json:"min_temp_c" example:"0"`
	MaxTempC float64 `json:"max_temp_c" example:"1300"`
}

// StartProfileRequest selects the profile to run.
type StartProfileRequest struct {
	ProfileID string `json:"profile_id" binding:"required" example:"6f1c3c52-6a55-4a53-9a86-4f0f7c1f2b10"`
}

// Respond with a status and include the controller state if available (best-effort).
func (h *Handler) respondWithStatusAndState(c *gin.Context, id int, status string) {
	resp := gin.H{"status": status}
	st, err := h.services.Monitoring.GetState(c.Request.Context(), id)
	if err == nil {
		resp["state"] = st
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Create controller
// @Tags         controllers
// @Accept       json
// @Produce      json
// @Param        body  body      ControllerRequest  true  "Controller"
// @Success      201   {object}  models.Controller
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/v1/controllers [post]
// @Security     BearerAuth
func (h *Handler) createController(c *gin.Context) {
	var req ControllerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: errInvalidBodyPref + err.Error()})
		return
	}
	ctrl, err := h.services.Controllers.Create(c.Request.Context(), service.ControllerParams{
		ZoneID:   req.ZoneID,
		Name:     req.Name,
		MinTempC: req.MinTempC,
		MaxTempC: req.MaxTempC,
	})
	if err != nil {
		h.respondServiceError(c, "controller_create_failed", err, "zone_id", req.ZoneID, "name", req.Name)
		return
	}
	c.JSON(http.StatusCreated, ctrl)
}

// @Summary      List controller states
// @Tags         controllers
// @Produce      json
// @Param        zone_id  query     int  false  "Only controllers of this zone"
// @Success      200      {array}   models.Controller
// @Failure      400      {object}  errorResponse
// @Router       /api/v1/controllers [get]
// @Security     BearerAuth
func (h *Handler) listControllers(c *gin.Context) {
	zoneID := 0
	if qs := c.Query("zone_id"); qs != "" {
		v, err := strconv.Atoi(qs)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid zone_id"})
			return
		}
		zoneID = v
	}
	states, err := h.services.Monitoring.ListStates(c.Request.Context(), zoneID)
	if err != nil {
		h.respondServiceError(c, "controller_list_failed", err, "zone_id", zoneID)
		return
	}
	c.JSON(http.StatusOK, states)
}

// @Summary      Get controller state
// @Tags         controllers
// @Produce      json
// @Param        id   path      int  true  "Controller ID"
// @Success      200  {object}  models.Controller
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/controllers/{id} [get]
// @Security     BearerAuth
func (h *Handler) getController(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	st, err := h.services.Monitoring.GetState(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, "controller_get_state_failed", err, "controller_id", id)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary      Delete controller
// @Tags         controllers
// @Produce      json
// @Param        id   path      int  true  "Controller ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/controllers/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteController(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	if err := h.services.Controllers.Delete(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, "controller_delete_failed", err, "controller_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusDeleted})
}

// @Summary      Start profile run
// @Description  The profile temperature range must lie within the controller limits.
// @Tags         controllers
// @Accept       json
// @Produce      json
// @Param        id    path      int                  true  "Controller ID"
// @Param        body  body      StartProfileRequest  true  "Profile to run"
// @Success      200   {object}  map[string]interface{}  "status, state"
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/v1/controllers/{id}/start [post]
// @Security     BearerAuth
func (h *Handler) startProfile(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	var req StartProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: errInvalidBodyPref + err.Error()})
		return
	}
	if err := h.services.Controllers.StartProfile(c.Request.Context(), id, req.ProfileID); err != nil {
		h.respondServiceError(c, "controller_start_failed", err, "controller_id", id, "profile_id", req.ProfileID)
		return
	}
	h.logUserAction(c, "controller_started", "controller_id", id, "profile_id", req.ProfileID)
	h.respondWithStatusAndState(c, id, statusStarted)
}

// @Summary      Stop profile run
// @Tags         controllers
// @Produce      json
// @Param        id   path      int  true  "Controller ID"
// @Success      200  {object}  map[string]interface{}  "status, state"
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /api/v1/controllers/{id}/stop [post]
// @Security     BearerAuth
func (h *Handler) stopController(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	if err := h.services.Controllers.Stop(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, "controller_stop_failed", err, "controller_id", id)
		return
	}
	h.logUserAction(c, "controller_stopped", "controller_id", id)
	h.respondWithStatusAndState(c, id, statusStopped)
}
