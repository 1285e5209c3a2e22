package handler

import (
	"net/http"

	sec "go-benchadmin/internal/server/http/middleware/security"
	"go-benchadmin/internal/service"
	"go-benchadmin/internal/util/retcode"
	"go-benchadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type LicenseHandler struct{ d Dependencies }

func NewLicenseHandler(d Dependencies) *LicenseHandler { return &LicenseHandler{d: d} }

func (h *LicenseHandler) List(c *gin.Context) {
	list, err := h.d.License.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (h *LicenseHandler) Assign(c *gin.Context) {
	licenseID, ok := paramInt64(c, "id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, retcode.PARAM_INVALID, "invalid license id")
		return
	}
	var req struct {
		HostID *int64 `json:"host_id"`
		VMID   *int64 `json:"vm_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, retcode.JSON_PARSE_FAIL, "invalid body")
		return
	}
	err := h.d.License.Assign(c.Request.Context(), sec.GrantFrom(c), licenseID, service.AssignTarget{HostID: req.HostID, VMID: req.VMID})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}

func (h *LicenseHandler) Unassign(c *gin.Context) {
	licenseID, ok := paramInt64(c, "id")
	if !ok {
		response.Fail(c, http.StatusBadRequest, retcode.PARAM_INVALID, "invalid license id")
		return
	}
	if err := h.d.License.Unassign(c.Request.Context(), sec.GrantFrom(c), licenseID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}
