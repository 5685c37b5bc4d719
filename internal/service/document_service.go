package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mamunbiswass/school-management/config"
	"github.com/mamunbiswass/school-management/internal/document"
	"github.com/mamunbiswass/school-management/internal/dto"
	"github.com/mamunbiswass/school-management/internal/model"
	"github.com/mamunbiswass/school-management/internal/repository"
	"github.com/mamunbiswass/school-management/pkg/storage"
)

// ── 文档模块业务错误 ──

var (
	ErrDocumentKindInvalid = errors.New("不支持的文档类型")
	ErrDocumentNoStudents  = errors.New("没有可生成学生证的学生")
)

// DocumentRenderer 文档渲染器
type DocumentRenderer interface {
	Render(ctx context.Context, kind document.Kind, school document.School, student document.Student, mode document.Mode) (*document.Result, error)
	RenderIDCards(ctx context.Context, school document.School, students []document.Student, mode document.Mode) (*document.Result, error)
}

// DocumentService 入学登记表 / 学生证业务接口
type DocumentService interface {
	RenderStudent(ctx context.Context, studentID int64, kind string, req *dto.DocumentRequest) (*dto.FileResult, error)
	RenderAllIDCards(ctx context.Context, req *dto.DocumentRequest) (*dto.FileResult, error)
}

type documentService struct {
	repo        *repository.Repository
	renderer    DocumentRenderer
	defaultName string
	logger      *zap.Logger
}

// NewDocumentService 创建 DocumentService 实例
func NewDocumentService(cfg *config.Config, repo *repository.Repository, renderer DocumentRenderer, logger *zap.Logger) DocumentService {
	return &documentService{repo: repo, renderer: renderer, defaultName: cfg.School.DefaultName, logger: logger}
}

// ────────────────────── RenderStudent ──────────────────────

func (s *documentService) RenderStudent(ctx context.Context, studentID int64, kind string, req *dto.DocumentRequest) (*dto.FileResult, error) {
	k, err := document.ParseKind(kind)
	if err != nil {
		return nil, ErrDocumentKindInvalid
	}

	student, err := s.repo.Student.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.Int64("id", studentID), zap.Error(err))
		return nil, err
	}

	school, err := s.school(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.renderer.Render(ctx, k, school, toDocumentStudent(student), document.ParseMode(req.Mode))
	if err != nil {
		s.logger.Error("生成文档失败",
			zap.Int64("student_id", studentID),
			zap.String("kind", kind),
			zap.Error(err),
		)
		return nil, err
	}
	return toFileResult(res), nil
}

// ────────────────────── RenderAllIDCards ──────────────────────

func (s *documentService) RenderAllIDCards(ctx context.Context, req *dto.DocumentRequest) (*dto.FileResult, error) {
	students, err := s.repo.Student.List(ctx, repository.StudentFilter{})
	if err != nil {
		s.logger.Error("列出学生失败", zap.Error(err))
		return nil, err
	}
	if len(students) == 0 {
		return nil, ErrDocumentNoStudents
	}

	school, err := s.school(ctx)
	if err != nil {
		return nil, err
	}

	list := make([]document.Student, 0, len(students))
	for i := range students {
		list = append(list, toDocumentStudent(&students[i]))
	}

	res, err := s.renderer.RenderIDCards(ctx, school, list, document.ParseMode(req.Mode))
	if err != nil {
		s.logger.Error("批量生成学生证失败", zap.Int("students", len(list)), zap.Error(err))
		return nil, err
	}
	return toFileResult(res), nil
}

// ── 内部辅助方法 ──

// school 未录入学校信息时以默认名称渲染
func (s *documentService) school(ctx context.Context) (document.School, error) {
	school, err := s.repo.School.GetFirst(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return document.School{Name: s.defaultName}, nil
		}
		s.logger.Error("查询学校信息失败", zap.Error(err))
		return document.School{}, err
	}
	return document.School{
		Name:      school.Name,
		Address:   school.Address,
		Phone:     school.Phone,
		Email:     school.Email,
		Principal: school.Principal,
		Logo:      storage.NormalizePath(derefString(school.Logo)),
	}, nil
}

func toDocumentStudent(st *model.Student) document.Student {
	out := document.Student{
		AdmissionNo:      st.AdmissionNo,
		UID:              st.UID,
		Name:             st.Name,
		Gender:           st.Gender,
		DOB:              st.DOB,
		Address:          st.Address,
		Roll:             st.Roll,
		Father:           st.Father,
		Mother:           st.Mother,
		Phone:            st.Phone,
		Email:            st.Email,
		BloodGroup:       st.BloodGroup,
		EmergencyContact: st.EmergencyContact,
		HealthInfo:       st.HealthInfo,
		Caste:            st.Caste,
		Religion:         st.Religion,
		MotherTongue:     st.MotherTongue,
		Hobbies:          st.Hobbies,
		Photo:            storage.NormalizePath(derefString(st.Photo)),
		AdmittedAt:       st.CreatedAt,
	}
	if st.Class != nil {
		out.ClassName = st.Class.Name
		out.Section = st.Class.Section
	}
	return out
}

func toFileResult(res *document.Result) *dto.FileResult {
	return &dto.FileResult{
		Filename:    res.Filename,
		ContentType: "application/pdf",
		Data:        res.Data,
		Inline:      res.Inline,
	}
}
