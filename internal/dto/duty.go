package dto

// ── 值班模块 DTO ──

// ScheduleDutyItem 单条排班请求；字段缺失在业务层逐条报告，不在绑定阶段整体拒绝
type ScheduleDutyItem struct {
	EmployeeID  string `json:"employee_id"`
	Date        string `json:"date"`
	ShiftTime   string `json:"shift_time"`
	IsScheduled *bool  `json:"is_scheduled"` // 缺省为 true
}

// ScheduleDutiesRequest 批量排班请求
type ScheduleDutiesRequest struct {
	Duties []ScheduleDutyItem `json:"duties" binding:"required"`
}

// ListDutiesRequest 值班列表查询参数
type ListDutiesRequest struct {
	StartDate  string `form:"start_date"  binding:"omitempty,ymd"`
	EndDate    string `form:"end_date"    binding:"omitempty,ymd"`
	EmployeeID string `form:"employee_id"`
	ShiftTime  string `form:"shift_time"  binding:"omitempty,shift"`
	Completed  *bool  `form:"completed"`
}

// CalendarRequest 日历导出查询参数
type CalendarRequest struct {
	From string `form:"from" binding:"omitempty,ymd"`
	To   string `form:"to"   binding:"omitempty,ymd"`
}

// ── 响应 ──

// ScheduleItemError 排班批次中单条失败
type ScheduleItemError struct {
	Index      int    `json:"index"`
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	ShiftTime  string `json:"shift_time"`
	Kind       string `json:"kind"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// ScheduleDutiesResponse 批量排班结果
type ScheduleDutiesResponse struct {
	ProcessedCount        int                 `json:"processed_count"`
	CreatedOrUpdatedCount int                 `json:"created_or_updated_count"`
	ErrorCount            int                 `json:"error_count"`
	Records               []DutyResponse      `json:"records"`
	Errors                []ScheduleItemError `json:"errors"`
}

// EmployeeBrief 员工简要信息
type EmployeeBrief struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Gender     string `json:"gender"`
	PhotoURL   string `json:"photo_url"`
}

// DutyResponse 值班记录响应
type DutyResponse struct {
	ID          string         `json:"id"`
	EmployeeRef string         `json:"employee_ref"`
	Employee    *EmployeeBrief `json:"employee,omitempty"`
	Date        string         `json:"date"`
	ShiftTime   string         `json:"shift_time"`
	IsScheduled bool           `json:"is_scheduled"`
	IsCompleted bool           `json:"is_completed"`
	CompletedAt *string        `json:"completed_at,omitempty"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
}

// CompletedEmployee 完成值班后员工计数快照
type CompletedEmployee struct {
	ID               string `json:"id"`
	EmployeeID       string `json:"employee_id"`
	Name             string `json:"name"`
	TotalDutiesCount int    `json:"total_duties_count"`
	MonthlyCount     int    `json:"monthly_count"`
}

// CompleteDutyResponse 完成值班响应
type CompleteDutyResponse struct {
	Duty     DutyResponse      `json:"duty"`
	Employee CompletedEmployee `json:"employee"`
}

// ShiftEmployee 某班次已排班员工
type ShiftEmployee struct {
	DutyID      string `json:"duty_id"`
	ID          string `json:"id"`
	EmployeeID  string `json:"employee_id"`
	Name        string `json:"name"`
	Gender      string `json:"gender"`
	PhotoURL    string `json:"photo_url"`
	IsCompleted bool   `json:"is_completed"`
}

// ShiftStatus 单个班次的排班/完成统计
type ShiftStatus struct {
	Scheduled int             `json:"scheduled"`
	Completed int             `json:"completed"`
	Employees []ShiftEmployee `json:"employees"`
}

// DayStatusResponse 某日值班状态
type DayStatusResponse struct {
	Date           string                  `json:"date"`
	TotalScheduled int                     `json:"total_scheduled"`
	TotalCompleted int                     `json:"total_completed"`
	CompletionRate float64                 `json:"completion_rate"` // 百分比，保留一位小数
	Shifts         map[string]*ShiftStatus `json:"shifts"`
}
