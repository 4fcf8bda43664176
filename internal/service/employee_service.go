package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vishwanathak47/Employee-Duty-Management/internal/dto"
	"github.com/vishwanathak47/Employee-Duty-Management/internal/model"
	"github.com/vishwanathak47/Employee-Duty-Management/internal/repository"
	pkgerrors "github.com/vishwanathak47/Employee-Duty-Management/pkg/errors"
	"github.com/vishwanathak47/Employee-Duty-Management/pkg/timeutil"
)

// ── 员工模块业务错误 ──

var (
	ErrEmployeeNotFound = pkgerrors.New(pkgerrors.KindNotFound, "EmployeeNotFound", "员工不存在")
	ErrEmployeeIDExists = pkgerrors.New(pkgerrors.KindConflict, "EmployeeIDExists", "员工编号已存在")
)

// EmployeeService 员工台账业务接口
type EmployeeService interface {
	Create(ctx context.Context, req *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (*dto.EmployeeResponse, error)
	// List 可排班员工在前，其余按员工编号升序
	List(ctx context.Context) ([]dto.EmployeeResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error)
	// Delete 删除员工及其月度计数，值班记录保留
	Delete(ctx context.Context, id string) error
}

type employeeService struct {
	repo      *repository.Repository
	norm      *timeutil.Normalizer
	threshold int
	logger    *zap.Logger
}

// NewEmployeeService 创建 EmployeeService 实例
// threshold 为当月完成数上限，低于该值视为可排班
func NewEmployeeService(repo *repository.Repository, norm *timeutil.Normalizer, threshold int, logger *zap.Logger) EmployeeService {
	return &employeeService{repo: repo, norm: norm, threshold: threshold, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *employeeService) Create(ctx context.Context, req *dto.CreateEmployeeRequest) (*dto.EmployeeResponse, error) {
	employeeID := strings.TrimSpace(req.EmployeeID)

	existing, err := s.repo.Employee.GetByEmployeeID(ctx, employeeID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询员工失败", zap.Error(err))
		return nil, pkgerrors.Store(err)
	}
	if existing != nil {
		return nil, ErrEmployeeIDExists
	}

	employee := &model.Employee{
		EmployeeID: employeeID,
		Name:       strings.TrimSpace(req.Name),
		Gender:     model.Gender(req.Gender),
		PhotoURL:   req.PhotoURL,
	}
	if err := s.repo.Employee.Create(ctx, employee); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, ErrEmployeeIDExists
		}
		s.logger.Error("创建员工失败", zap.Error(err))
		return nil, pkgerrors.Store(err)
	}

	s.logger.Info("员工已创建", zap.String("employee_id", employee.EmployeeID))
	return s.toEmployeeResponse(employee, nil), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *employeeService) GetByID(ctx context.Context, id string) (*dto.EmployeeResponse, error) {
	employee, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	monthly, err := s.repo.MonthlyDuty.ListByEmployee(ctx, employee.ID)
	if err != nil {
		s.logger.Error("查询月度计数失败", zap.String("id", id), zap.Error(err))
		return nil, pkgerrors.Store(err)
	}
	return s.toEmployeeResponse(employee, monthly), nil
}

// ────────────────────── List ──────────────────────

func (s *employeeService) List(ctx context.Context) ([]dto.EmployeeResponse, error) {
	employees, err := s.repo.Employee.List(ctx)
	if err != nil {
		s.logger.Error("列出员工失败", zap.Error(err))
		return nil, pkgerrors.Store(err)
	}

	// 批量查询月度计数，避免 N+1
	refs := make([]string, 0, len(employees))
	for _, e := range employees {
		refs = append(refs, e.ID)
	}
	rows, err := s.repo.MonthlyDuty.ListByEmployees(ctx, refs)
	if err != nil {
		s.logger.Error("批量查询月度计数失败", zap.Error(err))
		return nil, pkgerrors.Store(err)
	}
	byEmployee := make(map[string][]model.MonthlyDuty, len(employees))
	for _, r := range rows {
		byEmployee[r.EmployeeRef] = append(byEmployee[r.EmployeeRef], r)
	}

	result := make([]dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		result = append(result, *s.toEmployeeResponse(&employees[i], byEmployee[employees[i].ID]))
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].IsAvailable != result[j].IsAvailable {
			return result[i].IsAvailable
		}
		return result[i].EmployeeID < result[j].EmployeeID
	})
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *employeeService) Update(ctx context.Context, id string, req *dto.UpdateEmployeeRequest) (*dto.EmployeeResponse, error) {
	employee, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	// 改编号需重新校验唯一性
	if req.EmployeeID != nil {
		newID := strings.TrimSpace(*req.EmployeeID)
		if newID != "" && newID != employee.EmployeeID {
			other, err := s.repo.Employee.GetByEmployeeID(ctx, newID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Error("查询员工失败", zap.Error(err))
				return nil, pkgerrors.Store(err)
			}
			if other != nil {
				return nil, ErrEmployeeIDExists
			}
			employee.EmployeeID = newID
		}
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		employee.Name = strings.TrimSpace(*req.Name)
	}
	if req.Gender != nil && *req.Gender != "" {
		employee.Gender = model.Gender(*req.Gender)
	}
	if req.PhotoURL != nil {
		employee.PhotoURL = *req.PhotoURL
	}
	if req.TotalDutiesCount != nil {
		s.logger.Warn("管理员改写累计完成数",
			zap.String("employee_id", employee.EmployeeID),
			zap.Int("from", employee.TotalDutiesCount),
			zap.Int("to", *req.TotalDutiesCount),
		)
		employee.TotalDutiesCount = *req.TotalDutiesCount
	}

	if err := s.repo.Employee.Update(ctx, employee); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, ErrEmployeeIDExists
		}
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("更新员工失败", zap.String("id", id), zap.Error(err))
		}
		return nil, pkgerrors.Store(err)
	}

	monthly, err := s.repo.MonthlyDuty.ListByEmployee(ctx, employee.ID)
	if err != nil {
		s.logger.Error("查询月度计数失败", zap.String("id", id), zap.Error(err))
		return nil, pkgerrors.Store(err)
	}
	return s.toEmployeeResponse(employee, monthly), nil
}

// ────────────────────── Delete ──────────────────────

func (s *employeeService) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrEmployeeNotFound
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.MonthlyDuty.DeleteByEmployee(ctx, id); err != nil {
			return pkgerrors.Store(err)
		}
		rows, err := tx.Employee.Delete(ctx, id)
		if err != nil {
			return pkgerrors.Store(err)
		}
		if rows == 0 {
			return ErrEmployeeNotFound
		}
		return nil
	})
	if err != nil {
		if pkgerrors.KindOf(err) == pkgerrors.KindStore {
			s.logger.Error("删除员工失败", zap.String("id", id), zap.Error(err))
		}
		return err
	}

	s.logger.Info("员工已删除", zap.String("id", id))
	return nil
}

// ── 辅助函数 ──

func (s *employeeService) load(ctx context.Context, id string) (*model.Employee, error) {
	return loadEmployee(ctx, s.repo, s.logger, id)
}

// loadEmployee 按主键加载员工；非法主键视为不存在
func loadEmployee(ctx context.Context, repo *repository.Repository, logger *zap.Logger, id string) (*model.Employee, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrEmployeeNotFound
	}
	employee, err := repo.Employee.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		logger.Error("查询员工失败", zap.String("id", id), zap.Error(err))
		return nil, pkgerrors.Store(err)
	}
	return employee, nil
}

func (s *employeeService) toEmployeeResponse(e *model.Employee, monthly []model.MonthlyDuty) *dto.EmployeeResponse {
	current := s.norm.CurrentMonth()
	resp := &dto.EmployeeResponse{
		ID:               e.ID,
		EmployeeID:       e.EmployeeID,
		Name:             e.Name,
		Gender:           string(e.Gender),
		PhotoURL:         e.PhotoURL,
		TotalDutiesCount: e.TotalDutiesCount,
		MonthlyDuties:    make([]dto.MonthlyDutyItem, 0, len(monthly)),
		CreatedAt:        formatTime(e.CreatedAt),
		UpdatedAt:        formatTime(e.UpdatedAt),
	}
	for _, m := range monthly {
		resp.MonthlyDuties = append(resp.MonthlyDuties, dto.MonthlyDutyItem{MonthYear: m.MonthYear, Count: m.CompletedCount})
		if m.MonthYear == current {
			resp.CurrentMonthCount = m.CompletedCount
		}
	}
	resp.IsAvailable = resp.CurrentMonthCount < s.threshold
	return resp
}
