package model

import "gorm.io/gorm"

// Supervisor 主管账号表，对应 supervisors 表
type Supervisor struct {
	SupervisorID    string `gorm:"type:uuid;primaryKey"                                json:"supervisor_id"`
	Name            string `gorm:"type:varchar(100);not null"                          json:"name"`
	Email           string `gorm:"type:varchar(255);not null;uniqueIndex:uk_supervisors_email" json:"email"`
	PasswordHash    string `gorm:"type:varchar(255);not null"                          json:"-"`
	ThemePreference string `gorm:"type:varchar(10);not null"                           json:"theme_preference"` // light | dark
	BaseModel
}

// TableName 指定表名
func (Supervisor) TableName() string { return "supervisors" }

// BeforeCreate 补齐主键与默认主题
func (s *Supervisor) BeforeCreate(_ *gorm.DB) error {
	if s.SupervisorID == "" {
		s.SupervisorID = newID()
	}
	if s.ThemePreference == "" {
		s.ThemePreference = "light"
	}
	return nil
}
