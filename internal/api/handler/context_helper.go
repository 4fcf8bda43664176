package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/vishwanathak47/Employee-Duty-Management/internal/api/middleware"
	"github.com/vishwanathak47/Employee-Duty-Management/pkg/jwt"
	"github.com/vishwanathak47/Employee-Duty-Management/pkg/response"
)

// MustGetSupervisorID 从 Gin 上下文中安全提取 supervisor_id。
// 如果 JWT 中间件未正确注入，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetSupervisorID(c *gin.Context) (string, bool) {
	s := c.GetString(middleware.CtxSupervisorID)
	if s == "" {
		response.Unauthorized(c, codeUnauthorized, "未认证")
		return "", false
	}
	return s, true
}

// MustGetClaims 提取当前请求的 Token 声明（登出时用于拉黑 jti）
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(middleware.CtxClaims)
	if !exists {
		response.Unauthorized(c, codeUnauthorized, "未认证")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, codeUnauthorized, "未认证")
		return nil, false
	}
	return claims, true
}
