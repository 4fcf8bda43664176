package model

import "gorm.io/gorm"

// Gender 员工性别
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// Valid 是否为合法取值
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Employee 员工表，对应 employees 表
//
// 月度完成计数不内嵌，见 MonthlyDuty。
type Employee struct {
	ID               string `gorm:"type:uuid;primaryKey"                                          json:"id"`
	EmployeeID       string `gorm:"type:varchar(50);not null;uniqueIndex:uk_employees_employee_id" json:"employee_id"` // 外部编号
	Name             string `gorm:"type:varchar(100);not null"                                    json:"name"`
	Gender           Gender `gorm:"type:varchar(10);not null"                                     json:"gender"`
	PhotoURL         string `gorm:"type:varchar(500);not null;default:''"                         json:"photo_url"`
	TotalDutiesCount int    `gorm:"not null;default:0"                                            json:"total_duties_count"`
	Version          int    `gorm:"not null;default:1"                                            json:"version"`
	BaseModel
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }

// BeforeCreate 补齐主键与版本号
func (e *Employee) BeforeCreate(_ *gorm.DB) error {
	if e.ID == "" {
		e.ID = newID()
	}
	if e.Version == 0 {
		e.Version = 1
	}
	return nil
}
