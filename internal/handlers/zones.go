package handlers

import (
	"net/http"

	"heating_profiles/internal/service"

	"github.com/gin-gonic/gin"
)

// ZoneRequest is the create payload for a zone.
type ZoneRequest struct {
	Name        string `json:"name" binding:"required" example:"Kiln room"`
	Description string `json:"description,omitempty" example:"North wing, two electric kilns"`
}

// @Summary      Create zone
// @Tags         zones
// @Accept       json
// @Produce      json
// @Param        body  body      ZoneRequest  true  "Zone"
// @Success      201   {object}  models.Zone
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/v1/zones [post]
// @Security     BearerAuth
func (h *Handler) createZone(c *gin.Context) {
	var req ZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: errInvalidBodyPref + err.Error()})
		return
	}
	z, err := h.services.Zones.Create(c.Request.Context(), service.ZoneParams{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		h.respondServiceError(c, "zone_create_failed", err, "name", req.Name)
		return
	}
	c.JSON(http.StatusCreated, z)
}

// @Summary      List zones
// @Tags         zones
// @Produce      json
// @Success      200  {array}   models.Zone
// @Failure      401  {object}  errorResponse
// @Router       /api/v1/zones [get]
// @Security     BearerAuth
func (h *Handler) listZones(c *gin.Context) {
	zs, err := h.services.Zones.List(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, "zone_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, zs)
}

// @Summary      Get zone
// @Tags         zones
// @Produce      json
// @Param        id   path      int  true  "Zone ID"
// @Success      200  {object}  models.Zone
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/zones/{id} [get]
// @Security     BearerAuth
func (h *Handler) getZone(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	z, err := h.services.Zones.Get(c.Request.Context(), id)
	if err != nil {
		h.respondServiceError(c, "zone_get_failed", err, "zone_id", id)
		return
	}
	c.JSON(http.StatusOK, z)
}

// @Summary      Delete zone
// @Description  Deletes the zone and all of its controllers.
// @Tags         zones
// @Produce      json
// @Param        id   path      int  true  "Zone ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  errorResponse
// @Router       /api/v1/zones/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteZone(c *gin.Context) {
	id, ok := intParam(c, "id")
	if !ok {
		return
	}
	if err := h.services.Zones.Delete(c.Request.Context(), id); err != nil {
		h.respondServiceError(c, "zone_delete_failed", err, "zone_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusDeleted})
}
