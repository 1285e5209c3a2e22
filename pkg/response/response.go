package response

import (
	"net/http"

	"go-benchadmin/internal/pkg/apperr"
	"go-benchadmin/internal/util/retcode"

	"github.com/gin-gonic/gin"
)

type Body struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data"`
}

func JSON(c *gin.Context, status, code int, msg string, data interface{}) {
	c.JSON(status, Body{Code: code, Msg: msg, Data: data})
}

func Success(c *gin.Context, data interface{}) {
	JSON(c, http.StatusOK, retcode.SUCCESS, "success", data)
}

// Created 用于聚合创建成功 (201)。
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, retcode.SUCCESS, "success", data)
}

// Error maps a typed error (apperr) onto HTTP status + legacy business code.
// Internal detail is logged by the caller, not echoed here.
func Error(c *gin.Context, err error) {
	JSON(c, apperr.HTTPStatus(err), businessCode(err), apperr.Message(err), nil)
}

// Fail answers with an explicit status/business code for boundary errors that
// occur before a typed error exists (auth, body binding).
func Fail(c *gin.Context, status, code int, msg string) {
	JSON(c, status, code, msg, nil)
}

func businessCode(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return retcode.EMPTY_PARAMS
	case apperr.KindNotFound:
		return retcode.RECORD_NOT_FOUND
	case apperr.KindForbidden:
		return retcode.AUTH_ERROR
	case apperr.KindConflict:
		return retcode.DATA_EXISTS
	default:
		return retcode.EXCEPTION
	}
}
