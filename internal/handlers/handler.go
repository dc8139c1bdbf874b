package handlers

import (
	"heating_profiles/internal/logger"
	"heating_profiles/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// Controller state stream (HTTP upgrade) on the same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.requireUser)
	{
		h.registerZoneRoutes(api)
		h.registerControllerRoutes(api)
		h.registerProfileRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerZoneRoutes(api *gin.RouterGroup) {
	zones := api.Group("/zones")
	{
		zones.POST("", h.createZone)
		zones.GET("", h.listZones)
		zones.GET("/:id", h.getZone)
		zones.DELETE("/:id", h.deleteZone)
	}
}

func (h *Handler) registerControllerRoutes(api *gin.RouterGroup) {
	controllers := api.Group("/controllers")
	{
		controllers.POST("", h.createController)
		// Optional filter: ?zone_id=3
		controllers.GET("", h.listControllers)
		controllers.GET("/:id", h.getController)
		controllers.DELETE("/:id", h.deleteController)
		// Body example: {"profile_id":"6f1c..."}
		controllers.POST("/:id/start", h.startProfile)
		controllers.POST("/:id/stop", h.stopController)
	}
}

func (h *Handler) registerProfileRoutes(api *gin.RouterGroup) {
	profiles := api.Group("/profiles")
	{
		profiles.POST("", h.createProfile)
		profiles.GET("", h.listProfiles)
		profiles.GET("/:id", h.getProfile)
		profiles.PUT("/:id", h.updateProfile)
		profiles.DELETE("/:id", h.deleteProfile)
		profiles.GET("/:id/preview", h.previewProfile)
		profiles.GET("/:id/evaluate", h.evaluateProfile)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("", h.getLogs)
	}
}
