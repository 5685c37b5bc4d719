package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mamunbiswass/school-management/internal/model"
)

// SchoolRepository 学校信息数据访问接口
type SchoolRepository interface {
	GetFirst(ctx context.Context) (*model.School, error)
	GetByID(ctx context.Context, id int64) (*model.School, error)
	Create(ctx context.Context, school *model.School) error
	Update(ctx context.Context, school *model.School) error
}

type schoolRepo struct {
	db *gorm.DB
}

// NewSchoolRepo 创建 SchoolRepository 实例
func NewSchoolRepo(db *gorm.DB) SchoolRepository {
	return &schoolRepo{db: db}
}

// GetFirst 单例语义：按 id 取第一行
func (r *schoolRepo) GetFirst(ctx context.Context) (*model.School, error) {
	var school model.School
	err := r.db.WithContext(ctx).Order("id ASC").First(&school).Error
	if err != nil {
		return nil, err
	}
	return &school, nil
}

func (r *schoolRepo) GetByID(ctx context.Context, id int64) (*model.School, error) {
	var school model.School
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&school).Error
	if err != nil {
		return nil, err
	}
	return &school, nil
}

func (r *schoolRepo) Create(ctx context.Context, school *model.School) error {
	return r.db.WithContext(ctx).Create(school).Error
}

func (r *schoolRepo) Update(ctx context.Context, school *model.School) error {
	return r.db.WithContext(ctx).Save(school).Error
}
