package model

import (
	"time"

	"gorm.io/gorm"
)

// ShiftTime 班次（封闭枚举）
type ShiftTime string

const (
	ShiftMorning ShiftTime = "6am-2pm"
	ShiftEvening ShiftTime = "2pm-10pm"
	ShiftGeneral ShiftTime = "9am-6pm"
)

// Shifts 按声明顺序排列的全部班次，排序与报表列均以此为准
var Shifts = []ShiftTime{ShiftMorning, ShiftEvening, ShiftGeneral}

// shiftWindows 班次起止小时（固定时区）
var shiftWindows = map[ShiftTime][2]int{
	ShiftMorning: {6, 14},
	ShiftEvening: {14, 22},
	ShiftGeneral: {9, 18},
}

// Valid 是否为已知班次
func (s ShiftTime) Valid() bool {
	_, ok := shiftWindows[s]
	return ok
}

// Rank 班次在声明顺序中的位置，未知班次返回 -1
func (s ShiftTime) Rank() int {
	for i, v := range Shifts {
		if v == s {
			return i
		}
	}
	return -1
}

// Window 返回班次起止小时
func (s ShiftTime) Window() (startHour, endHour int) {
	w := shiftWindows[s]
	return w[0], w[1]
}

// Duty 值班记录表，对应 duties 表
// 自然键 (employee_ref, duty_date, shift_time) 唯一
type Duty struct {
	DutyID      string     `gorm:"type:uuid;primaryKey"                                                                                    json:"duty_id"`
	EmployeeRef string     `gorm:"type:uuid;not null;uniqueIndex:uk_duties_natural_key,priority:1"                                        json:"employee_ref"`
	DutyDate    string     `gorm:"type:varchar(10);not null;uniqueIndex:uk_duties_natural_key,priority:2;index:idx_duties_date_shift,priority:1" json:"duty_date"` // 规范日期键 YYYY-MM-DD
	ShiftTime   ShiftTime  `gorm:"type:varchar(10);not null;uniqueIndex:uk_duties_natural_key,priority:3;index:idx_duties_date_shift,priority:2" json:"shift_time"`
	IsScheduled bool       `gorm:"not null"                                                                                                json:"is_scheduled"`
	IsCompleted bool       `gorm:"not null;default:false"                                                                                  json:"is_completed"` // 单向：一经完成不再回退
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Version     int        `gorm:"not null;default:1"                                                                                      json:"version"`
	BaseModel

	// 关联（不拥有；员工删除后为 nil）
	Employee *Employee `gorm:"foreignKey:EmployeeRef;references:ID" json:"employee,omitempty"`
}

// TableName 指定表名
func (Duty) TableName() string { return "duties" }

// BeforeCreate 补齐主键与版本号
func (d *Duty) BeforeCreate(_ *gorm.DB) error {
	if d.DutyID == "" {
		d.DutyID = newID()
	}
	if d.Version == 0 {
		d.Version = 1
	}
	return nil
}
