package model

import "gorm.io/gorm"

// MonthlyDuty 员工月度完成计数，对应 employee_monthly_duties 表
// (employee_ref, month_year) 唯一，由完成值班时原子递增
type MonthlyDuty struct {
	MonthlyDutyID  string `gorm:"type:uuid;primaryKey"                                                                          json:"monthly_duty_id"`
	EmployeeRef    string `gorm:"type:uuid;not null;uniqueIndex:uk_monthly_duties_employee_month,priority:1"                   json:"employee_ref"`
	MonthYear      string `gorm:"type:varchar(7);not null;uniqueIndex:uk_monthly_duties_employee_month,priority:2;index:idx_monthly_duties_month" json:"month_year"` // MM-YYYY
	CompletedCount int    `gorm:"not null;default:0"                                                                            json:"count"`
	BaseModel
}

// TableName 指定表名
func (MonthlyDuty) TableName() string { return "employee_monthly_duties" }

// BeforeCreate 补齐主键
func (m *MonthlyDuty) BeforeCreate(_ *gorm.DB) error {
	if m.MonthlyDutyID == "" {
		m.MonthlyDutyID = newID()
	}
	return nil
}
