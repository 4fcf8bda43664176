package service

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/vishwanathak47/Employee-Duty-Management/internal/model"
	"github.com/vishwanathak47/Employee-Duty-Management/pkg/timeutil"
)

// ReportInput 月报构建输入
type ReportInput struct {
	MonthYear string
	Duties    []model.Duty     // 当月值班，需预加载 Employee
	Employees []model.Employee // 全部员工
	// MonthlyCounts 员工主键 → 当月完成计数
	MonthlyCounts map[string]int
}

// ScheduleRow "Duty Schedule" 行
type ScheduleRow struct {
	Date         string // DD/MM/YYYY
	Day          string // 星期英文全称
	EmployeeID   string
	EmployeeName string
	Gender       string
	ShiftTime    string
	Scheduled    string // Yes / No
	Completed    string
}

// EmployeeSummaryRow "Employee Summary" 行
type EmployeeSummaryRow struct {
	EmployeeID     string
	Name           string
	Gender         string
	TotalDuties    int
	MonthlyDuties  int
	CompletionRate string // 如 "60.0%"
}

// ShiftSummaryRow "Shift Summary" 行；Shifts 与 model.Shifts 顺序一致，取值 "完成/排班"
type ShiftSummaryRow struct {
	Date           string
	Shifts         []string
	TotalScheduled int
	TotalCompleted int
}

// MonthlyReport 月报三张表的数据
type MonthlyReport struct {
	MonthYear string
	Schedule  []ScheduleRow
	Employees []EmployeeSummaryRow
	Shifts    []ShiftSummaryRow
}

// Filename 导出文件名
func (r *MonthlyReport) Filename() string {
	return fmt.Sprintf("Duty_Report_%s.xlsx", r.MonthYear)
}

type shiftTally struct {
	scheduled, completed int
}

// BuildMonthlyReport 纯函数：由当月值班与员工计数生成三张表。
// 员工已删除的值班不计入；出现未知班次时返回 ErrUnknownShift。
func BuildMonthlyReport(in ReportInput) (*MonthlyReport, error) {
	duties := make([]model.Duty, 0, len(in.Duties))
	for _, d := range in.Duties {
		if !d.ShiftTime.Valid() {
			return nil, ErrUnknownShift
		}
		if d.Employee == nil {
			continue
		}
		duties = append(duties, d)
	}
	sort.SliceStable(duties, func(i, j int) bool {
		if duties[i].DutyDate != duties[j].DutyDate {
			return duties[i].DutyDate < duties[j].DutyDate
		}
		return duties[i].ShiftTime.Rank() < duties[j].ShiftTime.Rank()
	})

	report := &MonthlyReport{
		MonthYear: in.MonthYear,
		Schedule:  make([]ScheduleRow, 0, len(duties)),
		Employees: make([]EmployeeSummaryRow, 0, len(in.Employees)),
		Shifts:    make([]ShiftSummaryRow, 0),
	}

	scheduledByEmployee := make(map[string]int)
	days := make([]string, 0)
	byDay := make(map[string][]shiftTally)

	for _, d := range duties {
		dateLabel, dayName, err := dayLabels(d.DutyDate)
		if err != nil {
			return nil, ErrCorruptDutyDate.Wrap(err)
		}
		report.Schedule = append(report.Schedule, ScheduleRow{
			Date:         dateLabel,
			Day:          dayName,
			EmployeeID:   d.Employee.EmployeeID,
			EmployeeName: d.Employee.Name,
			Gender:       string(d.Employee.Gender),
			ShiftTime:    string(d.ShiftTime),
			Scheduled:    yesNo(d.IsScheduled),
			Completed:    yesNo(d.IsCompleted),
		})

		if d.IsScheduled {
			scheduledByEmployee[d.EmployeeRef]++
		}

		tallies, ok := byDay[d.DutyDate]
		if !ok {
			tallies = make([]shiftTally, len(model.Shifts))
			days = append(days, d.DutyDate) // duties 已按日期升序
		}
		rank := d.ShiftTime.Rank()
		if d.IsScheduled {
			tallies[rank].scheduled++
		}
		if d.IsCompleted {
			tallies[rank].completed++
		}
		byDay[d.DutyDate] = tallies
	}

	// 员工汇总按员工编号升序
	employees := make([]model.Employee, len(in.Employees))
	copy(employees, in.Employees)
	sort.SliceStable(employees, func(i, j int) bool {
		return employees[i].EmployeeID < employees[j].EmployeeID
	})
	for _, e := range employees {
		monthly := in.MonthlyCounts[e.ID]
		report.Employees = append(report.Employees, EmployeeSummaryRow{
			EmployeeID:     e.EmployeeID,
			Name:           e.Name,
			Gender:         string(e.Gender),
			TotalDuties:    e.TotalDutiesCount,
			MonthlyDuties:  monthly,
			CompletionRate: percentage(monthly, scheduledByEmployee[e.ID]).StringFixed(1) + "%",
		})
	}

	for _, day := range days {
		dateLabel, _, _ := dayLabels(day)
		row := ShiftSummaryRow{Date: dateLabel, Shifts: make([]string, 0, len(model.Shifts))}
		for _, t := range byDay[day] {
			row.Shifts = append(row.Shifts, strconv.Itoa(t.completed)+"/"+strconv.Itoa(t.scheduled))
			row.TotalScheduled += t.scheduled
			row.TotalCompleted += t.completed
		}
		report.Shifts = append(report.Shifts, row)
	}

	return report, nil
}

func dayLabels(dayKey string) (date, weekday string, err error) {
	t, err := time.Parse(timeutil.DayLayout, dayKey)
	if err != nil {
		return "", "", err
	}
	return t.Format("02/01/2006"), t.Weekday().String(), nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
