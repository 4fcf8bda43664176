package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vishwanathak47/Employee-Duty-Management/internal/api/middleware"
	"github.com/vishwanathak47/Employee-Duty-Management/internal/service"
	pkgerrors "github.com/vishwanathak47/Employee-Duty-Management/pkg/errors"
	"github.com/vishwanathak47/Employee-Duty-Management/pkg/response"
)

// 响应体中的数字错误码
const (
	codeBadRequest   = 10001
	codeUnauthorized = 10002
	codeNotFound     = 20001
	codeConflict     = 30001
	codeLoginFailed  = 11001
	codeIntegrity    = 50001
	codeInternal     = 50000
)

// handleError 按错误分类写入统一响应。
// 存储与完整性错误只返回分类描述，不暴露底层信息；其余错误的稳定 Code 放在 details 中。
func handleError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrInvalidCredentials) {
		response.Error(c, http.StatusUnauthorized, codeLoginFailed, "邮箱或密码错误")
		return
	}

	e, ok := pkgerrors.As(err)
	if !ok {
		_ = c.Error(err)
		response.InternalError(c)
		return
	}

	switch e.Kind {
	case pkgerrors.KindValidation:
		response.ErrorWithDetails(c, http.StatusBadRequest, codeBadRequest, e.Message, e.Code)
	case pkgerrors.KindNotFound:
		response.ErrorWithDetails(c, http.StatusNotFound, codeNotFound, e.Message, e.Code)
	case pkgerrors.KindConflict:
		response.ErrorWithDetails(c, http.StatusConflict, codeConflict, e.Message, e.Code)
	case pkgerrors.KindIntegrity:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, codeIntegrity, e.Kind.Description())
	default:
		_ = c.Error(err)
		response.InternalError(c)
	}
}

// bindFailed 请求体或查询参数校验失败
func bindFailed(c *gin.Context, err error) {
	if middleware.IsBodyTooLarge(err) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
		return
	}
	response.ErrorWithDetails(c, http.StatusBadRequest, codeBadRequest, "参数校验失败", err.Error())
}
