package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/vishwanathak47/Employee-Duty-Management/internal/model"
)

func reportEmployee(ref, employeeID, name string, total int) model.Employee {
	return model.Employee{ID: ref, EmployeeID: employeeID, Name: name, Gender: model.GenderFemale, TotalDutiesCount: total}
}

func reportDuty(emp *model.Employee, day string, shift model.ShiftTime, scheduled, completed bool) model.Duty {
	return model.Duty{
		DutyID:      fmt.Sprintf("%s-%s-%s", emp.EmployeeID, day, shift),
		EmployeeRef: emp.ID,
		DutyDate:    day,
		ShiftTime:   shift,
		IsScheduled: scheduled,
		IsCompleted: completed,
		Employee:    emp,
	}
}

func TestBuildMonthlyReport_CompletionRate(t *testing.T) {
	e1 := reportEmployee("ref-1", "E1", "Asha", 10)
	idle := reportEmployee("ref-2", "E0", "Idle", 0)

	var duties []model.Duty
	for day := 1; day <= 5; day++ {
		duties = append(duties, reportDuty(&e1, fmt.Sprintf("2024-03-%02d", day), model.ShiftMorning, true, day <= 3))
	}

	report, err := BuildMonthlyReport(ReportInput{
		MonthYear:     "03-2024",
		Duties:        duties,
		Employees:     []model.Employee{e1, idle},
		MonthlyCounts: map[string]int{"ref-1": 3},
	})
	require.NoError(t, err)

	want := []EmployeeSummaryRow{
		{EmployeeID: "E0", Name: "Idle", Gender: "Female", TotalDuties: 0, MonthlyDuties: 0, CompletionRate: "0.0%"},
		{EmployeeID: "E1", Name: "Asha", Gender: "Female", TotalDuties: 10, MonthlyDuties: 3, CompletionRate: "60.0%"},
	}
	if diff := cmp.Diff(want, report.Employees); diff != "" {
		t.Errorf("员工汇总不符 (-want +got):\n%s", diff)
	}
	assert.Equal(t, "Duty_Report_03-2024.xlsx", report.Filename())
}

func TestBuildMonthlyReport_ScheduleAndShiftSummary(t *testing.T) {
	a := reportEmployee("ref-a", "A", "Anil", 0)
	b := reportEmployee("ref-b", "B", "Bela", 0)

	report, err := BuildMonthlyReport(ReportInput{
		MonthYear: "03-2024",
		Duties: []model.Duty{
			reportDuty(&a, "2024-03-10", model.ShiftGeneral, true, false),
			reportDuty(&b, "2024-03-02", model.ShiftEvening, true, true),
			reportDuty(&a, "2024-03-02", model.ShiftMorning, true, false),
			reportDuty(&b, "2024-03-10", model.ShiftMorning, false, false),
		},
		Employees: []model.Employee{b, a},
	})
	require.NoError(t, err)

	wantSchedule := []ScheduleRow{
		{Date: "02/03/2024", Day: "Saturday", EmployeeID: "A", EmployeeName: "Anil", Gender: "Female", ShiftTime: "6am-2pm", Scheduled: "Yes", Completed: "No"},
		{Date: "02/03/2024", Day: "Saturday", EmployeeID: "B", EmployeeName: "Bela", Gender: "Female", ShiftTime: "2pm-10pm", Scheduled: "Yes", Completed: "Yes"},
		{Date: "10/03/2024", Day: "Sunday", EmployeeID: "B", EmployeeName: "Bela", Gender: "Female", ShiftTime: "6am-2pm", Scheduled: "No", Completed: "No"},
		{Date: "10/03/2024", Day: "Sunday", EmployeeID: "A", EmployeeName: "Anil", Gender: "Female", ShiftTime: "9am-6pm", Scheduled: "Yes", Completed: "No"},
	}
	if diff := cmp.Diff(wantSchedule, report.Schedule); diff != "" {
		t.Errorf("值班明细不符 (-want +got):\n%s", diff)
	}

	wantShifts := []ShiftSummaryRow{
		{Date: "02/03/2024", Shifts: []string{"0/1", "1/1", "0/0"}, TotalScheduled: 2, TotalCompleted: 1},
		{Date: "10/03/2024", Shifts: []string{"0/0", "0/0", "0/1"}, TotalScheduled: 1, TotalCompleted: 0},
	}
	if diff := cmp.Diff(wantShifts, report.Shifts); diff != "" {
		t.Errorf("班次汇总不符 (-want +got):\n%s", diff)
	}

	assert.Equal(t, "A", report.Employees[0].EmployeeID, "按员工编号升序")
}

func TestBuildMonthlyReport_SkipsDanglingAndRejectsUnknownShift(t *testing.T) {
	a := reportEmployee("ref-a", "A", "Anil", 0)
	dangling := model.Duty{DutyID: "x", EmployeeRef: "gone", DutyDate: "2024-03-02", ShiftTime: model.ShiftMorning, IsScheduled: true}

	report, err := BuildMonthlyReport(ReportInput{
		MonthYear: "03-2024",
		Duties:    []model.Duty{dangling, reportDuty(&a, "2024-03-02", model.ShiftMorning, true, false)},
		Employees: []model.Employee{a},
	})
	require.NoError(t, err)
	assert.Len(t, report.Schedule, 1)

	bad := reportDuty(&a, "2024-03-03", "overnight", true, false)
	_, err = BuildMonthlyReport(ReportInput{MonthYear: "03-2024", Duties: []model.Duty{bad}})
	assert.True(t, errors.Is(err, ErrUnknownShift))
}

func TestRenderWorkbook_Sheets(t *testing.T) {
	a := reportEmployee("ref-a", "A", "Anil", 1)
	report, err := BuildMonthlyReport(ReportInput{
		MonthYear:     "03-2024",
		Duties:        []model.Duty{reportDuty(&a, "2024-03-02", model.ShiftMorning, true, true)},
		Employees:     []model.Employee{a},
		MonthlyCounts: map[string]int{"ref-a": 1},
	})
	require.NoError(t, err)

	buf, err := RenderWorkbook(report)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Duty Schedule", "Employee Summary", "Shift Summary"}, f.GetSheetList())

	header, err := f.GetCellValue("Shift Summary", "B1")
	require.NoError(t, err)
	assert.Equal(t, "6am-2pm", header)

	rate, err := f.GetCellValue("Employee Summary", "F2")
	require.NoError(t, err)
	assert.Equal(t, "100.0%", rate)

	day, err := f.GetCellValue("Duty Schedule", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Saturday", day)
}

func TestReportService_ExportMonthlyReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addEmployee(t, "E1")

	var ids []string
	for day := 1; day <= 5; day++ {
		ids = append(ids, f.schedule(t, "E1", fmt.Sprintf("2024-03-%02d", day), model.ShiftMorning))
	}
	// 4 月的值班不计入 3 月
	f.schedule(t, "E1", "2024-04-01", model.ShiftMorning)
	for _, id := range ids[:3] {
		_, err := f.dutyService().CompleteDuty(ctx, id)
		require.NoError(t, err)
	}

	svc := NewReportService(f.repo, f.norm, zap.NewNop())

	report, err := svc.BuildMonthlyReport(ctx, "03-2024")
	require.NoError(t, err)
	assert.Len(t, report.Schedule, 5)
	require.Len(t, report.Employees, 1)
	assert.Equal(t, "60.0%", report.Employees[0].CompletionRate)
	assert.Equal(t, 3, report.Employees[0].MonthlyDuties)

	buf, name, err := svc.ExportMonthlyReport(ctx, "03-2024")
	require.NoError(t, err)
	assert.Equal(t, "Duty_Report_03-2024.xlsx", name)
	assert.Positive(t, buf.Len())

	_, _, err = svc.ExportMonthlyReport(ctx, "2024-03")
	assert.True(t, errors.Is(err, ErrInvalidMonth))
}
