package attendance

import (
	"go-hrm/internal/devapi/middleware"
	"go-hrm/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes mounts /attendance. rdb may be nil, which disables
// Idempotency-Key handling.
func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service, jwtSecret string, rdb *redis.Client) {
	self := rbac.Authorize(rbacService, rbac.ResourceAttendance, rbac.ActionSelf)

	mutate := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		chain := []gin.HandlerFunc{self}
		if rdb != nil {
			chain = append(chain, middleware.Idempotency(rdb))
		}
		return append(chain, handler)
	}

	attendances := r.Group("/attendance")
	attendances.Use(middleware.Auth(jwtSecret), middleware.RateLimitByUser(5, 20))
	{
		attendances.GET("/get_today_attendance_status", self, h.TodayStatus)
		attendances.POST("/checkin", mutate(h.CheckIn)...)
		attendances.POST("/checkout", mutate(h.CheckOut)...)
		attendances.GET("/get_attendance_list", self, h.History)
		attendances.GET("/get_all_user_attendance",
			rbac.Authorize(rbacService, rbac.ResourceAttendanceAll, rbac.ActionRead), h.AllUsers)
	}
}
