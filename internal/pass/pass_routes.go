package pass

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"hostelpass/internal/authz"
	"hostelpass/internal/middleware"
)

func routePath(kind Kind) string {
	if kind == KindOuting {
		return "/outings"
	}
	return "/leaves"
}

func RegisterRoutes(
	r *gin.RouterGroup,
	kind Kind,
	handler *Handler,
	gate authz.Gate,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 && rdb[0] != nil {
		redisClient = rdb[0]
	}

	passes := r.Group(routePath(kind))
	passes.Use(middleware.AuthMiddleware())
	{
		passes.GET("", middleware.Authorize(gate, authz.ResourcePasses, authz.ActionRead), handler.GetAll)
		passes.GET("/pending", middleware.Authorize(gate, authz.ResourcePasses, authz.ActionDecide), handler.GetPending)
		passes.GET("/:id", middleware.Authorize(gate, authz.ResourcePasses, authz.ActionRead), handler.GetById)
		if redisClient != nil {
			passes.POST("",
				middleware.Idempotency(redisClient),
				middleware.Authorize(gate, authz.ResourcePasses, authz.ActionCreate),
				handler.Create,
			)
		} else {
			passes.POST("", middleware.Authorize(gate, authz.ResourcePasses, authz.ActionCreate), handler.Create)
		}
		passes.PATCH("/:id", middleware.Authorize(gate, authz.ResourcePasses, authz.ActionUpdate), handler.Update)
		passes.POST("/:id/decision", middleware.Authorize(gate, authz.ResourcePasses, authz.ActionDecide), handler.Decide)
		passes.POST("/:id/checkout", middleware.Authorize(gate, authz.ResourcePasses, authz.ActionRecord), handler.RecordDeparture)
		passes.POST("/:id/checkin", middleware.Authorize(gate, authz.ResourcePasses, authz.ActionRecord), handler.RecordReturn)
		passes.DELETE("/:id", middleware.Authorize(gate, authz.ResourcePasses, authz.ActionDelete), handler.Delete)
	}
}
