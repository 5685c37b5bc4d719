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
)

// ── 科目模块业务错误 ──

var (
	ErrSubjectNotFound      = errors.New("科目不存在")
	ErrSubjectClassNotFound = errors.New("科目所属班级不存在")
)

// SubjectService 科目业务接口
type SubjectService interface {
	Create(ctx context.Context, req *dto.CreateSubjectRequest) (*dto.SubjectResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.SubjectResponse, error)
	List(ctx context.Context) ([]dto.SubjectResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateSubjectRequest) (*dto.SubjectResponse, error)
	Delete(ctx context.Context, id int64) error
}

type subjectService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSubjectService 创建 SubjectService 实例
func NewSubjectService(repo *repository.Repository, logger *zap.Logger) SubjectService {
	return &subjectService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *subjectService) Create(ctx context.Context, req *dto.CreateSubjectRequest) (*dto.SubjectResponse, error) {
	class, err := s.resolveClass(ctx, req.ClassName, req.Section)
	if err != nil {
		return nil, err
	}

	subject := &model.Subject{
		Name:    strings.TrimSpace(req.Name),
		Code:    strings.TrimSpace(req.Code),
		ClassID: class.ID,
		Teacher: strings.TrimSpace(req.Teacher),
	}
	if err := s.repo.Subject.Create(ctx, subject); err != nil {
		s.logger.Error("创建科目失败", zap.Error(err))
		return nil, err
	}
	subject.Class = class

	return toSubjectResponse(subject), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *subjectService) GetByID(ctx context.Context, id int64) (*dto.SubjectResponse, error) {
	subject, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSubjectResponse(subject), nil
}

// ────────────────────── List ──────────────────────

func (s *subjectService) List(ctx context.Context) ([]dto.SubjectResponse, error) {
	subjects, err := s.repo.Subject.List(ctx)
	if err != nil {
		s.logger.Error("列出科目失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SubjectResponse, 0, len(subjects))
	for i := range subjects {
		result = append(result, *toSubjectResponse(&subjects[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *subjectService) Update(ctx context.Context, id int64, req *dto.UpdateSubjectRequest) (*dto.SubjectResponse, error) {
	subject, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ClassName != nil || req.Section != nil {
		name, section := "", ""
		if subject.Class != nil {
			name, section = subject.Class.Name, subject.Class.Section
		}
		if req.ClassName != nil {
			name = *req.ClassName
		}
		if req.Section != nil {
			section = *req.Section
		}
		class, err := s.resolveClass(ctx, name, section)
		if err != nil {
			return nil, err
		}
		subject.ClassID = class.ID
		subject.Class = class
	}
	if req.Name != nil {
		subject.Name = strings.TrimSpace(*req.Name)
	}
	if req.Code != nil {
		subject.Code = strings.TrimSpace(*req.Code)
	}
	if req.Teacher != nil {
		subject.Teacher = strings.TrimSpace(*req.Teacher)
	}

	if err := s.repo.Subject.Update(ctx, subject); err != nil {
		s.logger.Error("更新科目失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return toSubjectResponse(subject), nil
}

// ────────────────────── Delete ──────────────────────

func (s *subjectService) Delete(ctx context.Context, id int64) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Subject.Delete(ctx, id); err != nil {
		s.logger.Error("删除科目失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *subjectService) get(ctx context.Context, id int64) (*model.Subject, error) {
	subject, err := s.repo.Subject.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		s.logger.Error("查询科目失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return subject, nil
}

func (s *subjectService) resolveClass(ctx context.Context, name, section string) (*model.Class, error) {
	class, err := resolveClass(ctx, s.repo, name, section)
	if err != nil {
		if errors.Is(err, ErrClassNotFound) {
			return nil, ErrSubjectClassNotFound
		}
		s.logger.Error("查询班级失败", zap.String("class", name), zap.Error(err))
		return nil, err
	}
	return class, nil
}

func toSubjectResponse(sub *model.Subject) *dto.SubjectResponse {
	resp := &dto.SubjectResponse{
		ID:      sub.ID,
		Name:    sub.Name,
		Code:    sub.Code,
		ClassID: sub.ClassID,
		Teacher: sub.Teacher,
	}
	if sub.Class != nil {
		resp.ClassName = sub.Class.Name
		resp.Section = sub.Class.Section
	}
	return resp
}
