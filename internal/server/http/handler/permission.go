package handler

import (
	sec "go-benchadmin/internal/server/http/middleware/security"
	"go-benchadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type PermissionHandler struct{ d Dependencies }

func NewPermissionHandler(d Dependencies) *PermissionHandler { return &PermissionHandler{d: d} }

// Get 返回调用者解析出的权限名（与平台集合），供前端决定界面能力。
func (h *PermissionHandler) Get(c *gin.Context) {
	grant := sec.GrantFrom(c)
	response.Success(c, gin.H{
		"permissionName": string(grant.Level),
		"platform_ids":   grant.PlatformIDs,
	})
}
