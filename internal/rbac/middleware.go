package rbac

import (
	"net/http"

	"go-hrm/internal/shared/apperror"
	"go-hrm/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// ContextRole is the gin context key the auth middleware stores the role under.
const ContextRole = "role"

// Authorize only lets the request through when the caller's role may perform
// action on resource.
func Authorize(service Service, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := c.Get(ContextRole)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Missing auth context")
			return
		}
		roleStr, _ := raw.(string)

		allowed, err := service.Enforce(EnforceRequest{
			Role:     ParseRole(roleStr),
			Resource: resource,
			Action:   action,
		})
		if err != nil {
			response.Abort(c, http.StatusInternalServerError, apperror.CodeInternalError, apperror.MsgGeneric)
			return
		}
		if !allowed {
			response.Abort(c, http.StatusForbidden, apperror.CodeForbidden, apperror.ErrForbidden.Message)
			return
		}
		c.Next()
	}
}
