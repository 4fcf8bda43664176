package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/vishwanathak47/Employee-Duty-Management/internal/model"
	pkgerrors "github.com/vishwanathak47/Employee-Duty-Management/pkg/errors"
)

// DutyFilter 值班列表查询条件；日期均为规范日期键，闭区间
type DutyFilter struct {
	DateFrom    string
	DateTo      string
	EmployeeRef string
	ShiftTime   model.ShiftTime
	Completed   *bool
}

// DutyRepository 值班记录数据访问接口
type DutyRepository interface {
	Create(ctx context.Context, duty *model.Duty) error
	GetByID(ctx context.Context, id string) (*model.Duty, error)
	GetByNaturalKey(ctx context.Context, employeeRef, dutyDate string, shift model.ShiftTime) (*model.Duty, error)
	Update(ctx context.Context, duty *model.Duty) error
	// MarkCompleted 条件更新 is_completed false → true，返回受影响行数（0 表示已完成或不存在）
	MarkCompleted(ctx context.Context, id string, at time.Time) (int64, error)
	ListByDay(ctx context.Context, dutyDate string) ([]model.Duty, error)
	ListByRange(ctx context.Context, from, to string) ([]model.Duty, error)
	List(ctx context.Context, filter DutyFilter) ([]model.Duty, error)
}

type dutyRepo struct {
	db *gorm.DB
}

// NewDutyRepo 创建 DutyRepository 实例
func NewDutyRepo(db *gorm.DB) DutyRepository {
	return &dutyRepo{db: db}
}

func (r *dutyRepo) Create(ctx context.Context, duty *model.Duty) error {
	return r.db.WithContext(ctx).Create(duty).Error
}

func (r *dutyRepo) GetByID(ctx context.Context, id string) (*model.Duty, error) {
	var duty model.Duty
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("duty_id = ?", id).
		First(&duty).Error
	if err != nil {
		return nil, err
	}
	return &duty, nil
}

func (r *dutyRepo) GetByNaturalKey(ctx context.Context, employeeRef, dutyDate string, shift model.ShiftTime) (*model.Duty, error) {
	var duty model.Duty
	err := r.db.WithContext(ctx).
		Where("employee_ref = ? AND duty_date = ? AND shift_time = ?", employeeRef, dutyDate, shift).
		First(&duty).Error
	if err != nil {
		return nil, err
	}
	return &duty, nil
}

// Update 乐观锁更新排班标记；完成状态只经 MarkCompleted 修改
func (r *dutyRepo) Update(ctx context.Context, duty *model.Duty) error {
	oldVersion := duty.Version
	result := r.db.WithContext(ctx).
		Model(&model.Duty{}).
		Where("duty_id = ? AND version = ?", duty.DutyID, oldVersion).
		Updates(map[string]interface{}{
			"is_scheduled": duty.IsScheduled,
			"version":      oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	duty.Version = oldVersion + 1
	return nil
}

func (r *dutyRepo) MarkCompleted(ctx context.Context, id string, at time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Duty{}).
		Where("duty_id = ? AND is_completed = ?", id, false).
		Updates(map[string]interface{}{
			"is_completed": true,
			"completed_at": at,
			"version":      gorm.Expr("version + 1"),
		})
	return result.RowsAffected, result.Error
}

func (r *dutyRepo) ListByDay(ctx context.Context, dutyDate string) ([]model.Duty, error) {
	var duties []model.Duty
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("duty_date = ?", dutyDate).
		Order("created_at ASC").
		Find(&duties).Error
	return duties, err
}

func (r *dutyRepo) ListByRange(ctx context.Context, from, to string) ([]model.Duty, error) {
	var duties []model.Duty
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Where("duty_date BETWEEN ? AND ?", from, to).
		Order("duty_date ASC, created_at ASC").
		Find(&duties).Error
	return duties, err
}

func (r *dutyRepo) List(ctx context.Context, filter DutyFilter) ([]model.Duty, error) {
	db := r.db.WithContext(ctx).Model(&model.Duty{})

	if filter.DateFrom != "" {
		db = db.Where("duty_date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		db = db.Where("duty_date <= ?", filter.DateTo)
	}
	if filter.EmployeeRef != "" {
		db = db.Where("employee_ref = ?", filter.EmployeeRef)
	}
	if filter.ShiftTime != "" {
		db = db.Where("shift_time = ?", filter.ShiftTime)
	}
	if filter.Completed != nil {
		db = db.Where("is_completed = ?", *filter.Completed)
	}

	var duties []model.Duty
	err := db.Preload("Employee").
		Order("duty_date DESC").
		Find(&duties).Error
	return duties, err
}
