package handler

import (
	"net/http"

	sec "go-benchadmin/internal/server/http/middleware/security"
	"go-benchadmin/internal/util/retcode"
	"go-benchadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type SoftwareHandler struct{ d Dependencies }

func NewSoftwareHandler(d Dependencies) *SoftwareHandler { return &SoftwareHandler{d: d} }

func (h *SoftwareHandler) List(c *gin.Context) {
	list, err := h.d.Software.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

type softwareAssignBody struct {
	HostID     int64 `json:"host_id"`
	SoftwareID int64 `json:"software_id"`
}

func (h *SoftwareHandler) Assign(c *gin.Context) {
	var req softwareAssignBody
	if err := c.ShouldBindJSON(&req); err != nil || req.HostID <= 0 || req.SoftwareID <= 0 {
		response.Fail(c, http.StatusBadRequest, retcode.JSON_PARSE_FAIL, "invalid body")
		return
	}
	if err := h.d.Software.Assign(c.Request.Context(), sec.GrantFrom(c), req.HostID, req.SoftwareID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

func (h *SoftwareHandler) Unassign(c *gin.Context) {
	var req softwareAssignBody
	if err := c.ShouldBindJSON(&req); err != nil || req.HostID <= 0 || req.SoftwareID <= 0 {
		response.Fail(c, http.StatusBadRequest, retcode.JSON_PARSE_FAIL, "invalid body")
		return
	}
	if err := h.d.Software.Unassign(c.Request.Context(), sec.GrantFrom(c), req.HostID, req.SoftwareID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}
