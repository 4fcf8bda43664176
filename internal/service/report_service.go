package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vishwanathak47/Employee-Duty-Management/internal/model"
	"github.com/vishwanathak47/Employee-Duty-Management/internal/repository"
	pkgerrors "github.com/vishwanathak47/Employee-Duty-Management/pkg/errors"
	"github.com/vishwanathak47/Employee-Duty-Management/pkg/timeutil"
)

// ── 报表模块业务错误 ──

var (
	ErrInvalidMonth       = pkgerrors.New(pkgerrors.KindValidation, "InvalidMonth", "月份格式无效，应为 MM-YYYY")
	ErrReportGenerateFail = pkgerrors.New(pkgerrors.KindStore, "ReportGenerateFailed", "生成 Excel 文件失败")
)

const (
	sheetSchedule = "Duty Schedule"
	sheetEmployee = "Employee Summary"
	sheetShift    = "Shift Summary"

	headerFill = "#E6E6FA"
)

// ReportService 月度报表业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ReportService interface {
	// BuildMonthlyReport 并发加载当月数据并生成报表行
	BuildMonthlyReport(ctx context.Context, monthYear string) (*MonthlyReport, error)
	// ExportMonthlyReport 生成 .xlsx，返回内容与建议文件名
	ExportMonthlyReport(ctx context.Context, monthYear string) (*bytes.Buffer, string, error)
}

type reportService struct {
	repo   *repository.Repository
	norm   *timeutil.Normalizer
	logger *zap.Logger
}

// NewReportService 创建 ReportService 实例
func NewReportService(repo *repository.Repository, norm *timeutil.Normalizer, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, norm: norm, logger: logger}
}

// ────────────────────── BuildMonthlyReport ──────────────────────

func (s *reportService) BuildMonthlyReport(ctx context.Context, monthYear string) (*MonthlyReport, error) {
	month, err := s.norm.ParseMonth(monthYear)
	if err != nil {
		return nil, ErrInvalidMonth.Wrap(err)
	}

	var (
		duties    []model.Duty
		employees []model.Employee
		monthly   []model.MonthlyDuty
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		duties, err = s.repo.Duty.ListByRange(gctx, month.FirstDayKey(), month.LastDayKey())
		return err
	})
	g.Go(func() error {
		var err error
		employees, err = s.repo.Employee.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		monthly, err = s.repo.MonthlyDuty.ListByMonth(gctx, month.Bucket)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("加载月报数据失败", zap.String("month", monthYear), zap.Error(err))
		return nil, pkgerrors.Store(err)
	}

	counts := make(map[string]int, len(monthly))
	for _, m := range monthly {
		counts[m.EmployeeRef] = m.CompletedCount
	}

	report, err := BuildMonthlyReport(ReportInput{
		MonthYear:     month.Bucket,
		Duties:        duties,
		Employees:     employees,
		MonthlyCounts: counts,
	})
	if err != nil {
		s.logger.Error("构建月报失败", zap.String("month", monthYear), zap.Error(err))
		return nil, err
	}
	return report, nil
}

// ────────────────────── ExportMonthlyReport ──────────────────────

func (s *reportService) ExportMonthlyReport(ctx context.Context, monthYear string) (*bytes.Buffer, string, error) {
	report, err := s.BuildMonthlyReport(ctx, monthYear)
	if err != nil {
		return nil, "", err
	}

	buf, err := RenderWorkbook(report)
	if err != nil {
		s.logger.Error("写入 Excel 失败", zap.String("month", monthYear), zap.Error(err))
		return nil, "", ErrReportGenerateFail.Wrap(err)
	}
	return buf, report.Filename(), nil
}

// ═══════════════════════════════════════════════════════════
// RenderWorkbook 将月报渲染为 Excel
// ═══════════════════════════════════════════════════════════
//
// 三个 Sheet，首行为加粗表头、淡紫色填充：
//   - Duty Schedule：逐条值班
//   - Employee Summary：员工累计 / 当月完成数 / 完成率
//   - Shift Summary：逐日各班次 完成/排班

func RenderWorkbook(report *MonthlyReport) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	// Duty Schedule
	scheduleRows := make([][]interface{}, 0, len(report.Schedule))
	for _, r := range report.Schedule {
		scheduleRows = append(scheduleRows, []interface{}{
			r.Date, r.Day, r.EmployeeID, r.EmployeeName, r.Gender, r.ShiftTime, r.Scheduled, r.Completed,
		})
	}
	if err := writeSheet(f, sheetSchedule, headerStyle,
		[]string{"Date", "Day", "Employee ID", "Employee Name", "Gender", "Shift Time", "Scheduled", "Completed"},
		[]float64{12, 10, 15, 20, 10, 15, 12, 12},
		scheduleRows,
	); err != nil {
		return nil, err
	}

	// Employee Summary
	employeeRows := make([][]interface{}, 0, len(report.Employees))
	for _, r := range report.Employees {
		employeeRows = append(employeeRows, []interface{}{
			r.EmployeeID, r.Name, r.Gender, r.TotalDuties, r.MonthlyDuties, r.CompletionRate,
		})
	}
	if err := writeSheet(f, sheetEmployee, headerStyle,
		[]string{"Employee ID", "Employee Name", "Gender", "Total Duties", "Monthly Duties", "Completion Rate"},
		[]float64{15, 20, 10, 15, 15, 18},
		employeeRows,
	); err != nil {
		return nil, err
	}

	// Shift Summary
	shiftHeader := []string{"Date"}
	shiftWidths := []float64{12}
	for _, shift := range model.Shifts {
		shiftHeader = append(shiftHeader, string(shift))
		shiftWidths = append(shiftWidths, 15)
	}
	shiftHeader = append(shiftHeader, "Total Scheduled", "Total Completed")
	shiftWidths = append(shiftWidths, 18, 18)

	shiftRows := make([][]interface{}, 0, len(report.Shifts))
	for _, r := range report.Shifts {
		row := []interface{}{r.Date}
		for _, v := range r.Shifts {
			row = append(row, v)
		}
		row = append(row, r.TotalScheduled, r.TotalCompleted)
		shiftRows = append(shiftRows, row)
	}
	if err := writeSheet(f, sheetShift, headerStyle, shiftHeader, shiftWidths, shiftRows); err != nil {
		return nil, err
	}

	// 删除默认 Sheet1
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	if idx, err := f.GetSheetIndex(sheetSchedule); err == nil {
		f.SetActiveSheet(idx)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func writeSheet(f *excelize.File, name string, headerStyle int, header []string, widths []float64, rows [][]interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}

	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(name, col, col, w); err != nil {
			return err
		}
	}

	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &headerRow); err != nil {
		return err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	if err := f.SetCellStyle(name, "A1", fmt.Sprintf("%s1", lastCol), headerStyle); err != nil {
		return err
	}

	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(name, cell, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}
