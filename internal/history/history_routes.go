package history

import (
	"github.com/gin-gonic/gin"

	"hostelpass/internal/authz"
	"hostelpass/internal/middleware"
	"hostelpass/internal/pass"
)

func routePath(kind pass.Kind) string {
	if kind == pass.KindOuting {
		return "/history/outings"
	}
	return "/history/leaves"
}

func RegisterRoutes(
	r *gin.RouterGroup,
	kind pass.Kind,
	handler *Handler,
	gate authz.Gate,
) {
	records := r.Group(routePath(kind))
	records.Use(middleware.AuthMiddleware())
	{
		records.GET("", middleware.Authorize(gate, authz.ResourceHistory, authz.ActionRead), handler.GetAll)
		records.GET("/:id", middleware.Authorize(gate, authz.ResourceHistory, authz.ActionRead), handler.GetById)
		records.GET("/student/:studentId", middleware.Authorize(gate, authz.ResourceHistory, authz.ActionRead), handler.GetByStudent)
	}
}
