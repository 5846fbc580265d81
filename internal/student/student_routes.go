package student

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"hostelpass/internal/authz"
	"hostelpass/internal/middleware"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	gate authz.Gate,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 && rdb[0] != nil {
		redisClient = rdb[0]
	}

	students := r.Group("/students")
	students.Use(middleware.AuthMiddleware())
	{
		students.GET("", middleware.Authorize(gate, authz.ResourceStudents, authz.ActionRead), handler.GetAll)
		students.GET("/:id", middleware.Authorize(gate, authz.ResourceStudents, authz.ActionRead), handler.GetById)
		if redisClient != nil {
			students.POST("",
				middleware.Idempotency(redisClient),
				middleware.Authorize(gate, authz.ResourceStudents, authz.ActionCreate),
				handler.Create,
			)
		} else {
			students.POST("", middleware.Authorize(gate, authz.ResourceStudents, authz.ActionCreate), handler.Create)
		}
		students.POST("/bulk", middleware.Authorize(gate, authz.ResourceStudents, authz.ActionCreate), handler.BulkCreate)
		students.PUT("/:id", middleware.Authorize(gate, authz.ResourceStudents, authz.ActionUpdate), handler.Update)
		students.POST("/:id/image", middleware.Authorize(gate, authz.ResourceStudents, authz.ActionUpdate), handler.UploadImage)
		students.DELETE("/:id", middleware.Authorize(gate, authz.ResourceStudents, authz.ActionDelete), handler.Delete)
		students.POST("/:id/upgrade-year", middleware.Authorize(gate, authz.ResourceStudents, authz.ActionReset), handler.UpgradeYear)
		students.POST("/upgrade-year", middleware.Authorize(gate, authz.ResourceStudents, authz.ActionReset), handler.BulkUpgradeYear)
		students.POST("/reset-outing-quota", middleware.Authorize(gate, authz.ResourceStudents, authz.ActionReset), handler.ResetOutingQuota)
		students.POST("/reset-leave-quota", middleware.Authorize(gate, authz.ResourceStudents, authz.ActionReset), handler.ResetLeaveQuota)
	}
}
