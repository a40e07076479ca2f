package rbac

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts /rbac behind the given auth middleware, which must
// set ContextRole.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlerFunc) {
	group := r.Group("/rbac")
	group.Use(auth)
	{
		group.POST("/enforce", handler.Enforce)
	}
}
