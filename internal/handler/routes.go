package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-pairing-api/internal/middleware"
	"github.com/noah-isme/tutor-pairing-api/internal/models"
)

// Handlers groups every API handler mounted by RegisterRoutes.
type Handlers struct {
	Schedules    *ScheduleHandler
	Availability *AvailabilityHandler
	Slots        *SlotHandler
	Profiles     *ProfileHandler
	Pairings     *PairingHandler
}

// RegisterRoutes mounts the API under group. auth must populate middleware.ContextUserKey.
func RegisterRoutes(group *gin.RouterGroup, h Handlers, auth gin.HandlerFunc, audit middleware.AuditWriter) {
	api := group.Group("", auth, middleware.WithResponseMeta())
	admin := middleware.RequireAdmin()

	schedules := api.Group("/schedules")
	schedules.GET("/me", h.Schedules.GetOwn)
	schedules.PUT("/me", h.Schedules.SaveOwn)
	schedules.DELETE("/me", h.Schedules.DeleteOwn)
	schedules.POST("/assignments", admin, h.Slots.Assign)
	schedules.DELETE("/assignments", admin, h.Slots.Release)
	schedules.GET("/:userId", middleware.RBAC(string(models.RoleSuperAdmin), string(models.RoleAdmin), middleware.RoleSelf), h.Schedules.GetForUser)

	api.GET("/availability/common", admin, h.Availability.Common)
	api.GET("/profiles/:userId/vector", admin, h.Profiles.Vector)

	pairings := api.Group("/pairings", admin)
	pairings.POST("/suggestions", h.Pairings.Suggest)
	pairings.POST("/suggestions/export", middleware.Audit(audit, models.AuditActionPairingExport, "pairing_suggestions"), h.Pairings.Export)

	programs := api.Group("/programs/:programId/pairings", admin)
	programs.GET("", h.Pairings.List)
	programs.POST("/confirm", h.Pairings.Confirm)
}
