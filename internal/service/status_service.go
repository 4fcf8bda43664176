package service

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vishwanathak47/Employee-Duty-Management/internal/dto"
	"github.com/vishwanathak47/Employee-Duty-Management/internal/model"
	"github.com/vishwanathak47/Employee-Duty-Management/internal/repository"
	pkgerrors "github.com/vishwanathak47/Employee-Duty-Management/pkg/errors"
	"github.com/vishwanathak47/Employee-Duty-Management/pkg/timeutil"
)

// ErrUnknownShift 存储中出现枚举外的班次
var ErrUnknownShift = pkgerrors.New(pkgerrors.KindIntegrity, "UnknownShift", "值班记录中存在未知班次")

// StatusService 值班状态查询接口（只读）
type StatusService interface {
	GetDayStatus(ctx context.Context, date string) (*dto.DayStatusResponse, error)
	ListDuties(ctx context.Context, req *dto.ListDutiesRequest) ([]dto.DutyResponse, error)
}

type statusService struct {
	repo   *repository.Repository
	norm   *timeutil.Normalizer
	logger *zap.Logger
}

// NewStatusService 创建 StatusService 实例
func NewStatusService(repo *repository.Repository, norm *timeutil.Normalizer, logger *zap.Logger) StatusService {
	return &statusService{repo: repo, norm: norm, logger: logger}
}

// ────────────────────── GetDayStatus ──────────────────────

func (s *statusService) GetDayStatus(ctx context.Context, date string) (*dto.DayStatusResponse, error) {
	day, err := s.norm.CanonicalDay(date)
	if err != nil {
		return nil, ErrInvalidDate.Wrap(err)
	}

	duties, err := s.repo.Duty.ListByDay(ctx, day)
	if err != nil {
		s.logger.Error("查询当日值班失败", zap.String("date", day), zap.Error(err))
		return nil, pkgerrors.Store(err)
	}

	shifts := make(map[string]*dto.ShiftStatus, len(model.Shifts))
	for _, shift := range model.Shifts {
		shifts[string(shift)] = &dto.ShiftStatus{Employees: []dto.ShiftEmployee{}}
	}

	resp := &dto.DayStatusResponse{Date: day, Shifts: shifts}
	for i := range duties {
		d := &duties[i]
		if !d.ShiftTime.Valid() {
			s.logger.Error("值班记录班次异常", zap.String("duty_id", d.DutyID), zap.String("shift", string(d.ShiftTime)))
			return nil, ErrUnknownShift
		}
		if d.Employee == nil {
			continue // 员工已删除
		}

		st := shifts[string(d.ShiftTime)]
		if d.IsScheduled {
			st.Scheduled++
			st.Employees = append(st.Employees, dto.ShiftEmployee{
				DutyID:      d.DutyID,
				ID:          d.Employee.ID,
				EmployeeID:  d.Employee.EmployeeID,
				Name:        d.Employee.Name,
				Gender:      string(d.Employee.Gender),
				PhotoURL:    d.Employee.PhotoURL,
				IsCompleted: d.IsCompleted,
			})
		}
		if d.IsCompleted {
			st.Completed++
		}
	}

	for _, st := range shifts {
		resp.TotalScheduled += st.Scheduled
		resp.TotalCompleted += st.Completed
	}
	resp.CompletionRate = percentage(resp.TotalCompleted, resp.TotalScheduled).InexactFloat64()

	return resp, nil
}

// ────────────────────── ListDuties ──────────────────────

// ListDuties 按日期倒序、同日按班次声明顺序返回
func (s *statusService) ListDuties(ctx context.Context, req *dto.ListDutiesRequest) ([]dto.DutyResponse, error) {
	var filter repository.DutyFilter

	if req.StartDate != "" {
		day, err := s.norm.CanonicalDay(req.StartDate)
		if err != nil {
			return nil, ErrInvalidDate.Wrap(err)
		}
		filter.DateFrom = day
	}
	if req.EndDate != "" {
		day, err := s.norm.CanonicalDay(req.EndDate)
		if err != nil {
			return nil, ErrInvalidDate.Wrap(err)
		}
		filter.DateTo = day
	}
	if req.ShiftTime != "" {
		shift := model.ShiftTime(req.ShiftTime)
		if !shift.Valid() {
			return nil, ErrInvalidShift
		}
		filter.ShiftTime = shift
	}
	filter.Completed = req.Completed

	if req.EmployeeID != "" {
		employee, err := s.repo.Employee.GetByEmployeeID(ctx, req.EmployeeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return []dto.DutyResponse{}, nil
			}
			s.logger.Error("查询员工失败", zap.String("employee_id", req.EmployeeID), zap.Error(err))
			return nil, pkgerrors.Store(err)
		}
		filter.EmployeeRef = employee.ID
	}

	duties, err := s.repo.Duty.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询值班列表失败", zap.Error(err))
		return nil, pkgerrors.Store(err)
	}

	kept := make([]model.Duty, 0, len(duties))
	for _, d := range duties {
		if !d.ShiftTime.Valid() {
			return nil, ErrUnknownShift
		}
		if d.Employee == nil {
			continue
		}
		kept = append(kept, d)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].DutyDate != kept[j].DutyDate {
			return kept[i].DutyDate > kept[j].DutyDate
		}
		return kept[i].ShiftTime.Rank() < kept[j].ShiftTime.Rank()
	})

	result := make([]dto.DutyResponse, 0, len(kept))
	for i := range kept {
		result = append(result, toDutyResponse(&kept[i]))
	}
	return result, nil
}
