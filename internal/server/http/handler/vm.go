package handler

import (
	"go-benchadmin/pkg/response"

	"github.com/gin-gonic/gin"
)

type VMHandler struct{ d Dependencies }

func NewVMHandler(d Dependencies) *VMHandler { return &VMHandler{d: d} }

func (h *VMHandler) List(c *gin.Context) {
	list, err := h.d.VM.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}
