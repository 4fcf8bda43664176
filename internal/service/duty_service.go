package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vishwanathak47/Employee-Duty-Management/internal/dto"
	"github.com/vishwanathak47/Employee-Duty-Management/internal/model"
	"github.com/vishwanathak47/Employee-Duty-Management/internal/repository"
	pkgerrors "github.com/vishwanathak47/Employee-Duty-Management/pkg/errors"
	"github.com/vishwanathak47/Employee-Duty-Management/pkg/metrics"
	"github.com/vishwanathak47/Employee-Duty-Management/pkg/timeutil"
)

// ── 值班模块业务错误 ──

var (
	ErrEmptyBatch       = pkgerrors.New(pkgerrors.KindValidation, "EmptyBatch", "排班列表不能为空")
	ErrMissingField     = pkgerrors.New(pkgerrors.KindValidation, "MissingField", "缺少必填字段: employee_id, date, shift_time")
	ErrInvalidShift     = pkgerrors.New(pkgerrors.KindValidation, "InvalidShift", "班次无效，可选值: 6am-2pm, 2pm-10pm, 9am-6pm")
	ErrInvalidDate      = pkgerrors.New(pkgerrors.KindValidation, "InvalidDate", "日期格式无效，应为 YYYY-MM-DD")
	ErrDutyNotFound     = pkgerrors.New(pkgerrors.KindNotFound, "DutyNotFound", "值班记录不存在")
	ErrAlreadyCompleted = pkgerrors.New(pkgerrors.KindConflict, "AlreadyCompleted", "该值班已完成")
	ErrCorruptDutyDate  = pkgerrors.New(pkgerrors.KindIntegrity, "CorruptDutyDate", "值班日期数据异常")
)

// DutyService 排班与完成业务接口
type DutyService interface {
	// ScheduleDuties 按顺序逐条排班，单条失败不影响其余条目
	ScheduleDuties(ctx context.Context, items []dto.ScheduleDutyItem) (*dto.ScheduleDutiesResponse, error)
	// CompleteDuty 标记完成并在同一事务内递增员工累计与月度计数
	CompleteDuty(ctx context.Context, dutyID string) (*dto.CompleteDutyResponse, error)
}

type dutyService struct {
	repo    *repository.Repository
	norm    *timeutil.Normalizer
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewDutyService 创建 DutyService 实例
func NewDutyService(repo *repository.Repository, norm *timeutil.Normalizer, m *metrics.Metrics, logger *zap.Logger) DutyService {
	return &dutyService{repo: repo, norm: norm, metrics: m, logger: logger, now: time.Now}
}

// ────────────────────── ScheduleDuties ──────────────────────

func (s *dutyService) ScheduleDuties(ctx context.Context, items []dto.ScheduleDutyItem) (*dto.ScheduleDutiesResponse, error) {
	if len(items) == 0 {
		return nil, ErrEmptyBatch
	}

	resp := &dto.ScheduleDutiesResponse{
		ProcessedCount: len(items),
		Records:        make([]dto.DutyResponse, 0, len(items)),
		Errors:         make([]dto.ScheduleItemError, 0),
	}

	for i, item := range items {
		duty, err := s.scheduleOne(ctx, item)
		if err != nil {
			resp.Errors = append(resp.Errors, toScheduleItemError(i, item, err))
			continue
		}
		resp.Records = append(resp.Records, toDutyResponse(duty))
	}

	resp.CreatedOrUpdatedCount = len(resp.Records)
	resp.ErrorCount = len(resp.Errors)
	s.metrics.ObserveSchedule(resp.CreatedOrUpdatedCount, resp.ErrorCount)

	s.logger.Info("批量排班完成",
		zap.Int("processed", resp.ProcessedCount),
		zap.Int("succeeded", resp.CreatedOrUpdatedCount),
		zap.Int("failed", resp.ErrorCount),
	)
	return resp, nil
}

// scheduleOne 校验顺序：必填 → 班次 → 员工 → 日期
func (s *dutyService) scheduleOne(ctx context.Context, item dto.ScheduleDutyItem) (*model.Duty, error) {
	if strings.TrimSpace(item.EmployeeID) == "" || strings.TrimSpace(item.Date) == "" || strings.TrimSpace(item.ShiftTime) == "" {
		return nil, ErrMissingField
	}

	shift := model.ShiftTime(item.ShiftTime)
	if !shift.Valid() {
		return nil, ErrInvalidShift
	}

	employee, err := s.repo.Employee.GetByEmployeeID(ctx, item.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.String("employee_id", item.EmployeeID), zap.Error(err))
		return nil, pkgerrors.Store(err)
	}

	day, err := s.norm.CanonicalDay(item.Date)
	if err != nil {
		return nil, ErrInvalidDate.Wrap(err)
	}

	scheduled := true
	if item.IsScheduled != nil {
		scheduled = *item.IsScheduled
	}

	duty, err := s.upsertDuty(ctx, employee.ID, day, shift, scheduled)
	if err != nil {
		return nil, err
	}
	duty.Employee = employee
	return duty, nil
}

// upsertDuty 按自然键查找：存在则原地更新排班标记，否则创建。
// 创建时遇到并发插入导致的唯一键冲突，按更新重试一次。
func (s *dutyService) upsertDuty(ctx context.Context, employeeRef, day string, shift model.ShiftTime, scheduled bool) (*model.Duty, error) {
	existing, err := s.repo.Duty.GetByNaturalKey(ctx, employeeRef, day, shift)
	if err == nil {
		return existing, s.setScheduled(ctx, existing, scheduled)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询值班记录失败", zap.Error(err))
		return nil, pkgerrors.Store(err)
	}

	duty := &model.Duty{
		EmployeeRef: employeeRef,
		DutyDate:    day,
		ShiftTime:   shift,
		IsScheduled: scheduled,
	}
	err = s.repo.Duty.Create(ctx, duty)
	if err == nil {
		return duty, nil
	}
	if !repository.IsDuplicateKey(err) {
		s.logger.Error("创建值班记录失败", zap.Error(err))
		return nil, pkgerrors.Store(err)
	}

	existing, err = s.repo.Duty.GetByNaturalKey(ctx, employeeRef, day, shift)
	if err != nil {
		s.logger.Error("重试查询值班记录失败", zap.Error(err))
		return nil, pkgerrors.Store(err)
	}
	return existing, s.setScheduled(ctx, existing, scheduled)
}

func (s *dutyService) setScheduled(ctx context.Context, duty *model.Duty, scheduled bool) error {
	duty.IsScheduled = scheduled
	if err := s.repo.Duty.Update(ctx, duty); err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("更新值班记录失败", zap.String("duty_id", duty.DutyID), zap.Error(err))
		}
		return pkgerrors.Store(err)
	}
	return nil
}

func toScheduleItemError(index int, item dto.ScheduleDutyItem, err error) dto.ScheduleItemError {
	out := dto.ScheduleItemError{
		Index:      index,
		EmployeeID: item.EmployeeID,
		Date:       item.Date,
		ShiftTime:  item.ShiftTime,
	}
	e, ok := pkgerrors.As(err)
	if !ok {
		e = pkgerrors.ErrStore
	}
	out.Kind = string(e.Kind)
	out.Code = e.Code
	out.Message = e.Message
	if e.Kind == pkgerrors.KindStore || e.Kind == pkgerrors.KindIntegrity {
		out.Message = e.Kind.Description()
	}
	return out
}

// ────────────────────── CompleteDuty ──────────────────────

func (s *dutyService) CompleteDuty(ctx context.Context, dutyID string) (*dto.CompleteDutyResponse, error) {
	if _, err := uuid.Parse(dutyID); err != nil {
		return nil, ErrDutyNotFound
	}

	var resp *dto.CompleteDutyResponse
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		duty, err := tx.Duty.GetByID(ctx, dutyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDutyNotFound
			}
			return pkgerrors.Store(err)
		}
		if duty.IsCompleted {
			return ErrAlreadyCompleted
		}

		month, err := s.norm.MonthBucketOfDay(duty.DutyDate)
		if err != nil {
			return ErrCorruptDutyDate.Wrap(err)
		}

		// 条件更新：并发完成时只有一方成功
		at := s.now()
		rows, err := tx.Duty.MarkCompleted(ctx, duty.DutyID, at)
		if err != nil {
			return pkgerrors.Store(err)
		}
		if rows == 0 {
			return ErrAlreadyCompleted
		}

		rows, err = tx.Employee.IncrementTotal(ctx, duty.EmployeeRef)
		if err != nil {
			return pkgerrors.Store(err)
		}
		if rows == 0 {
			return ErrEmployeeNotFound
		}
		if err := tx.MonthlyDuty.Increment(ctx, duty.EmployeeRef, month); err != nil {
			return pkgerrors.Store(err)
		}

		employee, err := tx.Employee.GetByID(ctx, duty.EmployeeRef)
		if err != nil {
			return pkgerrors.Store(err)
		}
		monthly, err := tx.MonthlyDuty.Get(ctx, duty.EmployeeRef, month)
		if err != nil {
			return pkgerrors.Store(err)
		}

		duty.IsCompleted = true
		duty.CompletedAt = &at
		duty.Version++
		duty.Employee = employee

		resp = &dto.CompleteDutyResponse{
			Duty: toDutyResponse(duty),
			Employee: dto.CompletedEmployee{
				ID:               employee.ID,
				EmployeeID:       employee.EmployeeID,
				Name:             employee.Name,
				TotalDutiesCount: employee.TotalDutiesCount,
				MonthlyCount:     monthly.CompletedCount,
			},
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyCompleted):
			s.metrics.IncCompletionConflict()
		case pkgerrors.KindOf(err) == pkgerrors.KindStore:
			s.logger.Error("完成值班失败", zap.String("duty_id", dutyID), zap.Error(err))
		}
		return nil, err
	}

	s.metrics.IncCompleted()
	s.logger.Info("值班已完成",
		zap.String("duty_id", dutyID),
		zap.String("employee_id", resp.Employee.EmployeeID),
		zap.Int("total", resp.Employee.TotalDutiesCount),
		zap.Int("monthly", resp.Employee.MonthlyCount),
	)
	return resp, nil
}
