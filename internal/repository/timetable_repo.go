package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mamunbiswass/school-management/internal/model"
)

// TimetableRepository 课表节次数据访问接口
type TimetableRepository interface {
	Create(ctx context.Context, period *model.TimetablePeriod) error
	GetByID(ctx context.Context, id int64) (*model.TimetablePeriod, error)
	// ListByClass 按周一至周六、开始时间升序
	ListByClass(ctx context.Context, classID int64) ([]model.TimetablePeriod, error)
	ListByClassAndDay(ctx context.Context, classID int64, day string) ([]model.TimetablePeriod, error)
	Update(ctx context.Context, period *model.TimetablePeriod) error
	Delete(ctx context.Context, id int64) error
}

type timetableRepo struct {
	db *gorm.DB
}

// NewTimetableRepo 创建 TimetableRepository 实例
func NewTimetableRepo(db *gorm.DB) TimetableRepository {
	return &timetableRepo{db: db}
}

func (r *timetableRepo) Create(ctx context.Context, period *model.TimetablePeriod) error {
	return r.db.WithContext(ctx).Omit("Class", "Subject", "Teacher").Create(period).Error
}

func (r *timetableRepo) GetByID(ctx context.Context, id int64) (*model.TimetablePeriod, error) {
	var period model.TimetablePeriod
	err := r.db.WithContext(ctx).
		Preload("Class").
		Preload("Subject").
		Preload("Teacher").
		Where("id = ?", id).
		First(&period).Error
	if err != nil {
		return nil, err
	}
	return &period, nil
}

func (r *timetableRepo) ListByClass(ctx context.Context, classID int64) ([]model.TimetablePeriod, error) {
	var periods []model.TimetablePeriod
	err := r.db.WithContext(ctx).
		Preload("Class").
		Preload("Subject").
		Preload("Teacher").
		Where("class_id = ?", classID).
		Order(model.DayOrderSQL("day")).
		Order("start_time ASC").
		Find(&periods).Error
	return periods, err
}

func (r *timetableRepo) ListByClassAndDay(ctx context.Context, classID int64, day string) ([]model.TimetablePeriod, error) {
	var periods []model.TimetablePeriod
	err := r.db.WithContext(ctx).
		Where("class_id = ? AND day = ?", classID, day).
		Order("start_time ASC").
		Find(&periods).Error
	return periods, err
}

func (r *timetableRepo) Update(ctx context.Context, period *model.TimetablePeriod) error {
	return r.db.WithContext(ctx).Omit("Class", "Subject", "Teacher").Save(period).Error
}

func (r *timetableRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.TimetablePeriod{}).Error
}
