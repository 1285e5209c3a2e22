package handler

import (
	"net/http"

	"go-benchadmin/internal/service"
	"go-benchadmin/internal/util/retcode"
	sec "go-benchadmin/internal/server/http/middleware/security"
	"go-benchadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type ServerHandler struct{ d Dependencies }

func NewServerHandler(d Dependencies) *ServerHandler { return &ServerHandler{d: d} }

// serverBody POST/PUT 共用的请求体。
type serverBody struct {
	BenchName    string `json:"bench_name"`
	HostName     string `json:"host_name"`
	PlatformName string `json:"platform_name"`
	BenchType    string `json:"bench_type"`
	Info         string `json:"info"`
	ActiveUser   string `json:"active_user"`
	Offline      bool   `json:"offline"`
}

func (h *ServerHandler) List(c *gin.Context) {
	list, err := h.d.Server.List(c.Request.Context(), sec.GrantFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}

func (h *ServerHandler) Create(c *gin.Context) {
	var req serverBody
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, retcode.JSON_PARSE_FAIL, "invalid body")
		return
	}
	dto, err := h.d.Server.Create(c.Request.Context(), sec.GrantFrom(c), service.CreateServerParams{
		BenchName:    req.BenchName,
		HostName:     req.HostName,
		PlatformName: req.PlatformName,
		BenchType:    req.BenchType,
		Info:         req.Info,
		ActiveUser:   req.ActiveUser,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto)
}

func (h *ServerHandler) Update(c *gin.Context) {
	hostID, ok := paramInt64(c, "hostId")
	if !ok {
		response.Fail(c, http.StatusBadRequest, retcode.PARAM_INVALID, "invalid host id")
		return
	}
	var req serverBody
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, retcode.JSON_PARSE_FAIL, "invalid body")
		return
	}
	dto, err := h.d.Server.Update(c.Request.Context(), sec.GrantFrom(c), hostID, service.UpdateServerParams{
		BenchName:    req.BenchName,
		HostName:     req.HostName,
		PlatformName: req.PlatformName,
		BenchType:    req.BenchType,
		Info:         req.Info,
		ActiveUser:   req.ActiveUser,
		Offline:      req.Offline,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

func (h *ServerHandler) Delete(c *gin.Context) {
	hostID, ok := paramInt64(c, "hostId")
	if !ok {
		response.Fail(c, http.StatusBadRequest, retcode.PARAM_INVALID, "invalid host id")
		return
	}
	if err := h.d.Server.Delete(c.Request.Context(), sec.GrantFrom(c), hostID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"ok": true})
}
