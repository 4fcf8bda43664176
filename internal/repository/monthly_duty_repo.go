package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vishwanathak47/Employee-Duty-Management/internal/model"
)

// MonthlyDutyRepository 月度完成计数数据访问接口
type MonthlyDutyRepository interface {
	// Increment 对 (employeeRef, monthYear) 计数原子 +1，不存在则以 1 插入
	Increment(ctx context.Context, employeeRef, monthYear string) error
	Get(ctx context.Context, employeeRef, monthYear string) (*model.MonthlyDuty, error)
	ListByEmployee(ctx context.Context, employeeRef string) ([]model.MonthlyDuty, error)
	ListByMonth(ctx context.Context, monthYear string) ([]model.MonthlyDuty, error)
	ListByEmployees(ctx context.Context, employeeRefs []string) ([]model.MonthlyDuty, error)
	DeleteByEmployee(ctx context.Context, employeeRef string) error
}

type monthlyDutyRepo struct {
	db *gorm.DB
}

// NewMonthlyDutyRepo 创建 MonthlyDutyRepository 实例
func NewMonthlyDutyRepo(db *gorm.DB) MonthlyDutyRepository {
	return &monthlyDutyRepo{db: db}
}

func (r *monthlyDutyRepo) Increment(ctx context.Context, employeeRef, monthYear string) error {
	row := model.MonthlyDuty{
		EmployeeRef:    employeeRef,
		MonthYear:      monthYear,
		CompletedCount: 1,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "employee_ref"}, {Name: "month_year"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"completed_count": gorm.Expr("employee_monthly_duties.completed_count + 1"),
				"updated_at":      gorm.Expr("excluded.updated_at"),
			}),
		}).
		Create(&row).Error
}

func (r *monthlyDutyRepo) Get(ctx context.Context, employeeRef, monthYear string) (*model.MonthlyDuty, error) {
	var md model.MonthlyDuty
	err := r.db.WithContext(ctx).
		Where("employee_ref = ? AND month_year = ?", employeeRef, monthYear).
		First(&md).Error
	if err != nil {
		return nil, err
	}
	return &md, nil
}

// ListByEmployee 按插入顺序返回
func (r *monthlyDutyRepo) ListByEmployee(ctx context.Context, employeeRef string) ([]model.MonthlyDuty, error) {
	var rows []model.MonthlyDuty
	err := r.db.WithContext(ctx).
		Where("employee_ref = ?", employeeRef).
		Order("created_at ASC, month_year ASC").
		Find(&rows).Error
	return rows, err
}

func (r *monthlyDutyRepo) ListByMonth(ctx context.Context, monthYear string) ([]model.MonthlyDuty, error) {
	var rows []model.MonthlyDuty
	err := r.db.WithContext(ctx).
		Where("month_year = ?", monthYear).
		Find(&rows).Error
	return rows, err
}

// ListByEmployees 批量查询，组内按插入顺序
func (r *monthlyDutyRepo) ListByEmployees(ctx context.Context, employeeRefs []string) ([]model.MonthlyDuty, error) {
	if len(employeeRefs) == 0 {
		return nil, nil
	}
	var rows []model.MonthlyDuty
	err := r.db.WithContext(ctx).
		Where("employee_ref IN ?", employeeRefs).
		Order("created_at ASC, month_year ASC").
		Find(&rows).Error
	return rows, err
}

func (r *monthlyDutyRepo) DeleteByEmployee(ctx context.Context, employeeRef string) error {
	return r.db.WithContext(ctx).
		Where("employee_ref = ?", employeeRef).
		Delete(&model.MonthlyDuty{}).Error
}
