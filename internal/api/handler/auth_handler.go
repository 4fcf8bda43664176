package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/vishwanathak47/Employee-Duty-Management/internal/dto"
	"github.com/vishwanathak47/Employee-Duty-Management/internal/service"
	"github.com/vishwanathak47/Employee-Duty-Management/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Signup 主管注册
// POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.authSvc.Signup(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Created(c, result)
}

// Login 主管登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// Logout 登出：当前 Token 加入黑名单
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), claims); err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, nil)
}

// Me 当前主管信息
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	supervisorID, ok := MustGetSupervisorID(c)
	if !ok {
		return
	}

	result, err := h.authSvc.Me(c.Request.Context(), supervisorID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}

// UpdateTheme 修改界面主题
// PUT /api/v1/auth/theme
func (h *AuthHandler) UpdateTheme(c *gin.Context) {
	supervisorID, ok := MustGetSupervisorID(c)
	if !ok {
		return
	}

	var req dto.UpdateThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.authSvc.UpdateTheme(c.Request.Context(), supervisorID, req.Theme)
	if err != nil {
		handleError(c, err)
		return
	}

	response.OK(c, result)
}
