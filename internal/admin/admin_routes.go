package admin

import (
	"github.com/gin-gonic/gin"

	"hostelpass/internal/authz"
	"hostelpass/internal/middleware"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	gate authz.Gate,
) {
	admins := r.Group("/admins")
	admins.Use(middleware.AuthMiddleware())
	{
		admins.GET("", middleware.Authorize(gate, authz.ResourceAdmins, authz.ActionRead), handler.GetAll)
		admins.GET("/:id", middleware.Authorize(gate, authz.ResourceAdmins, authz.ActionRead), handler.GetById)
		admins.GET("/:id/subordinates", middleware.Authorize(gate, authz.ResourceAdmins, authz.ActionRead), handler.GetSubordinates)
		admins.POST("", middleware.Authorize(gate, authz.ResourceAdmins, authz.ActionCreate), handler.Create)
		admins.PUT("/:id", middleware.Authorize(gate, authz.ResourceAdmins, authz.ActionUpdate), handler.Update)
		admins.DELETE("/:id", middleware.Authorize(gate, authz.ResourceAdmins, authz.ActionDelete), handler.Delete)
	}
}
