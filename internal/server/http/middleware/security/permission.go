package security

import (
	"go-benchadmin/internal/service"

	"github.com/gin-gonic/gin"
)

// GrantKey 上下文键：当前请求的授权快照。
const GrantKey = "grant"

// Permission 中间件：为当前用户解析一次授权快照并放入上下文。
// 解析永不失败（断链降级为 Default），读接口照常放行，由 service 层
// 按快照过滤/拒绝。
func Permission(permSvc *service.PermissionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt64("user_id")
		grant := permSvc.Resolve(c.Request.Context(), uid)
		c.Set(GrantKey, grant)
		c.Next()
	}
}

// GrantFrom 取出授权快照；缺失时返回 Default（零权限）。
func GrantFrom(c *gin.Context) service.Grant {
	if v, ok := c.Get(GrantKey); ok {
		if g, ok2 := v.(service.Grant); ok2 {
			return g
		}
	}
	return service.DefaultGrant()
}
