package handlers

import (
	"net/http"
	"strconv"

	"heating_profiles/internal/curve"
	"heating_profiles/internal/service"

	"github.com/gin-gonic/gin"
)

// ProfileRequest is the create/update payload for a heating profile. Points
// are in normalized space; omit them to start from the default quick ramp.
type ProfileRequest struct {
	Name            string               `json:"name" binding:"required" example:"Bisque"`
	Description     string               `json:"description,omitempty"`
	DurationMinutes float64              `json:"duration_minutes" example:"480"`
	MinTempC        float64              `json:"min_temp_c" example:"20"`
	MaxTempC        float64              `json:"max_temp_c" example:"1000"`
	Points          []curve.ControlPoint `json:"points,omitempty"`
}

func (r ProfileRequest) params() service.ProfileParams {
	return service.ProfileParams{
		Name:            r.Name,
		Description:     r.Description,
		DurationMinutes: r.DurationMinutes,
		MinTempC:        r.MinTempC,
		MaxTempC:        r.MaxTempC,
		Points:          r.Points,
	}
}

// @Summary      Create profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        body  body      ProfileRequest  true  "Profile"
// @Success      201   {object}  models.Profile
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/v1/profiles [post]
// @Security     BearerAuth
func (h *Handler) createProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: errInvalidBodyPref + err.Error()})
		return
	}
	p, err := h.services.Profiles.Create(c.Request.Context(), req.params())
	if err != nil {
		h.respondServiceError(c, "profile_create_failed", err, "name", req.Name)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary      List profiles
// @Tags         profiles
// @Produce      json
// @Success      200  {array}   models.Profile
// @Router       /api/v1/profiles [get]
// @Security     BearerAuth
func (h *Handler) listProfiles(c *gin.Context) {
	ps, err := h.services.Profiles.List(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, "profile_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, ps)
}

// @Summary      Get profile
// @Tags         profiles
// @Produce      json
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  models.Profile
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/profiles/{id} [get]
// @Security     BearerAuth
func (h *Handler) getProfile(c *gin.Context) {
	id := c.Param("id")
	p, err := h.services.Profiles.Get(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, "profile_get_failed", err, "profile_id", id)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Update profile
// @Description  Replaces all fields. Running controllers follow the new curve from their next tick.
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Profile ID"
// @Param        body  body      ProfileRequest  true  "Profile"
// @Success      200   {object}  models.Profile
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/v1/profiles/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateProfile(c *gin.Context) {
	id := c.Param("id")
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: errInvalidBodyPref + err.Error()})
		return
	}
	p, err := h.services.Profiles.Update(c.Request.Context(), id, req.params())
	if err != nil {
		h.respondServiceError(c, "profile_update_failed", err, "profile_id", id)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Delete profile
// @Tags         profiles
// @Produce      json
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /api/v1/profiles/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteProfile(c *gin.Context) {
	id := c.Param("id")
	if err := h.services.Profiles.Delete(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, "profile_delete_failed", err, "profile_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusDeleted})
}

// @Summary      Preview profile
// @Description  Tessellated curve in minutes and °C for charting.
// @Tags         profiles
// @Produce      json
// @Param        id       path      string  true   "Profile ID"
// @Param        density  query     number  false  "Samples per run (default 100)"
// @Success      200      {object}  map[string]interface{}  "count, points"
// @Failure      400      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /api/v1/profiles/{id}/preview [get]
// @Security     BearerAuth
func (h *Handler) previewProfile(c *gin.Context) {
	id := c.Param("id")
	density := 0.0
	if qs := c.Query("density"); qs != "" {
		v, err := strconv.ParseFloat(qs, 64)
		if err != nil || v < 0 || v > maxPreviewDensity {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid density"})
			return
		}
		density = v
	}
	pts, err := h.services.Profiles.Preview(c.Request.Context(), id, density)
	if err != nil {
		h.respondServiceError(c, "profile_preview_failed", err, "profile_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(pts), "points": pts})
}

const maxPreviewDensity = 10_000

// @Summary      Evaluate profile
// @Description  Target temperature after the given number of minutes into a run.
// @Tags         profiles
// @Produce      json
// @Param        id      path      string  true  "Profile ID"
// @Param        minute  query     number  true  "Elapsed minutes"
// @Success      200     {object}  map[string]number
// @Failure      400     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /api/v1/profiles/{id}/evaluate [get]
// @Security     BearerAuth
func (h *Handler) evaluateProfile(c *gin.Context) {
	id := c.Param("id")
	minute, err := strconv.ParseFloat(c.Query("minute"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid or missing minute"})
		return
	}
	temp, err := h.services.Profiles.Evaluate(c.Request.Context(), id, minute)
	if err != nil {
		h.respondServiceError(c, "profile_evaluate_failed", err, "profile_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"minute": minute, "temp_c": temp})
}
