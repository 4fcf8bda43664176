package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/vishwanathak47/Employee-Duty-Management/internal/model"
)

// SupervisorRepository 主管账号数据访问接口
type SupervisorRepository interface {
	Create(ctx context.Context, supervisor *model.Supervisor) error
	GetByID(ctx context.Context, id string) (*model.Supervisor, error)
	GetByEmail(ctx context.Context, email string) (*model.Supervisor, error)
	UpdateTheme(ctx context.Context, id, theme string) error
}

type supervisorRepo struct {
	db *gorm.DB
}

// NewSupervisorRepo 创建 SupervisorRepository 实例
func NewSupervisorRepo(db *gorm.DB) SupervisorRepository {
	return &supervisorRepo{db: db}
}

func (r *supervisorRepo) Create(ctx context.Context, supervisor *model.Supervisor) error {
	return r.db.WithContext(ctx).Create(supervisor).Error
}

func (r *supervisorRepo) GetByID(ctx context.Context, id string) (*model.Supervisor, error) {
	var s model.Supervisor
	err := r.db.WithContext(ctx).
		Where("supervisor_id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *supervisorRepo) GetByEmail(ctx context.Context, email string) (*model.Supervisor, error) {
	var s model.Supervisor
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *supervisorRepo) UpdateTheme(ctx context.Context, id, theme string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Supervisor{}).
		Where("supervisor_id = ?", id).
		Update("theme_preference", theme)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
