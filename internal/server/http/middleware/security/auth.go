package security

import (
	"net/http"
	"strings"

	"go-benchadmin/internal/logging"
	"go-benchadmin/internal/security/jwt"
	"go-benchadmin/internal/util/retcode"
	"go-benchadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

// Auth 认证中间件：解析外部身份服务签发的 Bearer token，注入 user_id。
// 缺失/非法 token -> 401；token 合法但身份字段不可用 -> 400。
func Auth(j *jwt.Manager, lg *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(strings.ToLower(auth), "bearer ") {
			response.Fail(c, http.StatusUnauthorized, retcode.AUTH_ERROR, "missing token")
			c.Abort()
			return
		}
		token := strings.TrimSpace(auth[7:])
		claims, err := j.Parse(token)
		if err != nil {
			response.Fail(c, http.StatusUnauthorized, retcode.AUTH_ERROR, "invalid token")
			c.Abort()
			return
		}
		if claims.UserID <= 0 {
			response.Fail(c, http.StatusBadRequest, retcode.PARAM_INVALID, "malformed identity")
			c.Abort()
			return
		}
		c.Set("user_id", claims.UserID)
		c.Next()
	}
}
