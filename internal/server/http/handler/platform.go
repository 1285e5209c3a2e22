package handler

import (
	"go-benchadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type PlatformHandler struct{ d Dependencies }

func NewPlatformHandler(d Dependencies) *PlatformHandler { return &PlatformHandler{d: d} }

func (h *PlatformHandler) List(c *gin.Context) {
	list, err := h.d.Platform.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}
