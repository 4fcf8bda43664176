package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/vishwanathak47/Employee-Duty-Management/internal/model"
	pkgerrors "github.com/vishwanathak47/Employee-Duty-Management/pkg/errors"
)

// EmployeeRepository 员工数据访问接口
type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*model.Employee, error)
	List(ctx context.Context) ([]model.Employee, error)
	Update(ctx context.Context, employee *model.Employee) error
	// IncrementTotal 原子递增累计完成数，返回受影响行数（0 表示员工不存在）
	IncrementTotal(ctx context.Context, id string) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type employeeRepo struct {
	db *gorm.DB
}

// NewEmployeeRepo 创建 EmployeeRepository 实例
func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) Create(ctx context.Context, employee *model.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *employeeRepo) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepo) GetByEmployeeID(ctx context.Context, employeeID string) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepo) List(ctx context.Context) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.WithContext(ctx).
		Order("employee_id ASC").
		Find(&employees).Error
	return employees, err
}

// Update 乐观锁更新：version 不匹配时返回 ErrOptimisticLock
func (r *employeeRepo) Update(ctx context.Context, employee *model.Employee) error {
	oldVersion := employee.Version
	result := r.db.WithContext(ctx).
		Model(&model.Employee{}).
		Where("id = ? AND version = ?", employee.ID, oldVersion).
		Updates(map[string]interface{}{
			"employee_id":        employee.EmployeeID,
			"name":               employee.Name,
			"gender":             employee.Gender,
			"photo_url":          employee.PhotoURL,
			"total_duties_count": employee.TotalDutiesCount,
			"version":            oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	employee.Version = oldVersion + 1
	return nil
}

func (r *employeeRepo) IncrementTotal(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Employee{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_duties_count": gorm.Expr("total_duties_count + 1"),
			"version":            gorm.Expr("version + 1"),
		})
	return result.RowsAffected, result.Error
}

func (r *employeeRepo) Delete(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Employee{})
	return result.RowsAffected, result.Error
}
