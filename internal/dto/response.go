package dto

// ── 认证模块响应 ──

// TokenResponse 登录 / 注册成功响应
type TokenResponse struct {
	AccessToken string             `json:"access_token"`
	ExpiresIn   int                `json:"expires_in"` // Access Token 有效期（秒）
	Supervisor  SupervisorResponse `json:"supervisor"`
}

// SupervisorResponse 主管信息响应（脱敏）
type SupervisorResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	ThemePreference string `json:"theme_preference"`
	CreatedAt       string `json:"created_at"`
}
