package dto

// ── 员工模块 DTO ──

// CreateEmployeeRequest 创建员工请求
type CreateEmployeeRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,max=50"`
	Name       string `json:"name"        binding:"required,max=100"`
	Gender     string `json:"gender"      binding:"required,oneof=Male Female"`
	PhotoURL   string `json:"photo_url"   binding:"omitempty,max=500"`
}

// UpdateEmployeeRequest 更新员工请求；nil 字段保持不变
type UpdateEmployeeRequest struct {
	EmployeeID *string `json:"employee_id" binding:"omitempty,min=1,max=50"`
	Name       *string `json:"name"        binding:"omitempty,min=1,max=100"`
	Gender     *string `json:"gender"      binding:"omitempty,oneof=Male Female"`
	PhotoURL   *string `json:"photo_url"   binding:"omitempty,max=500"`
	// TotalDutiesCount 管理员直接改写累计完成数
	TotalDutiesCount *int `json:"total_duties_count" binding:"omitempty,min=0"`
}

// ── 响应 ──

// MonthlyDutyItem 月度完成计数
type MonthlyDutyItem struct {
	MonthYear string `json:"month_year"`
	Count     int    `json:"count"`
}

// EmployeeResponse 员工详情响应
type EmployeeResponse struct {
	ID                string            `json:"id"`
	EmployeeID        string            `json:"employee_id"`
	Name              string            `json:"name"`
	Gender            string            `json:"gender"`
	PhotoURL          string            `json:"photo_url"`
	TotalDutiesCount  int               `json:"total_duties_count"`
	MonthlyDuties     []MonthlyDutyItem `json:"monthly_duties"`
	CurrentMonthCount int               `json:"current_month_count"`
	IsAvailable       bool              `json:"is_available"`
	CreatedAt         string            `json:"created_at"`
	UpdatedAt         string            `json:"updated_at"`
}
