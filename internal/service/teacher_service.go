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

// ── 教师模块业务错误 ──

var (
	ErrTeacherNotFound = errors.New("教师不存在")
)

// TeacherService 教师业务接口
type TeacherService interface {
	Create(ctx context.Context, req *dto.CreateTeacherRequest) (*dto.TeacherResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.TeacherResponse, error)
	List(ctx context.Context) ([]dto.TeacherResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateTeacherRequest) (*dto.TeacherResponse, error)
	Delete(ctx context.Context, id int64) error
}

type teacherService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTeacherService 创建 TeacherService 实例
func NewTeacherService(repo *repository.Repository, logger *zap.Logger) TeacherService {
	return &teacherService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *teacherService) Create(ctx context.Context, req *dto.CreateTeacherRequest) (*dto.TeacherResponse, error) {
	dob, err := parseDate(req.DOB)
	if err != nil {
		return nil, err
	}
	joining, err := parseDate(req.JoiningDate)
	if err != nil {
		return nil, err
	}

	teacher := &model.Teacher{
		Name:             strings.TrimSpace(req.Name),
		DOB:              dob,
		Gender:           req.Gender,
		Aadhaar:          req.Aadhaar,
		Phone:            req.Phone,
		AltPhone:         req.AltPhone,
		Email:            req.Email,
		Address:          req.Address,
		EmployeeID:       req.EmployeeID,
		Subject:          req.Subject,
		Qualification:    req.Qualification,
		Designation:      req.Designation,
		Department:       req.Department,
		JoiningDate:      joining,
		Salary:           req.Salary,
		ClassAssignment:  req.ClassAssignment,
		Experience:       req.Experience,
		HealthInfo:       req.HealthInfo,
		EmergencyContact: req.EmergencyContact,
	}

	if err := s.repo.Teacher.Create(ctx, teacher); err != nil {
		s.logger.Error("创建教师失败", zap.Error(err))
		return nil, err
	}
	return toTeacherResponse(teacher), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *teacherService) GetByID(ctx context.Context, id int64) (*dto.TeacherResponse, error) {
	teacher, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTeacherResponse(teacher), nil
}

// ────────────────────── List ──────────────────────

func (s *teacherService) List(ctx context.Context) ([]dto.TeacherResponse, error) {
	teachers, err := s.repo.Teacher.List(ctx)
	if err != nil {
		s.logger.Error("列出教师失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TeacherResponse, 0, len(teachers))
	for i := range teachers {
		result = append(result, *toTeacherResponse(&teachers[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────
//
// 只写入请求中出现的字段，列名固定在下方白名单中

func (s *teacherService) Update(ctx context.Context, id int64, req *dto.UpdateTeacherRequest) (*dto.TeacherResponse, error) {
	if _, err := s.get(ctx, id); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	setString := func(col string, v *string) {
		if v != nil {
			fields[col] = strings.TrimSpace(*v)
		}
	}
	setString("name", req.Name)
	setString("gender", req.Gender)
	setString("aadhaar", req.Aadhaar)
	setString("phone", req.Phone)
	setString("alt_phone", req.AltPhone)
	setString("email", req.Email)
	setString("address", req.Address)
	setString("employee_id", req.EmployeeID)
	setString("subject", req.Subject)
	setString("qualification", req.Qualification)
	setString("designation", req.Designation)
	setString("department", req.Department)
	setString("class_assignment", req.ClassAssignment)
	setString("experience", req.Experience)
	setString("health_info", req.HealthInfo)
	setString("emergency_contact", req.EmergencyContact)

	if req.DOB != nil {
		dob, err := parseDate(*req.DOB)
		if err != nil {
			return nil, err
		}
		fields["dob"] = dob
	}
	if req.JoiningDate != nil {
		joining, err := parseDate(*req.JoiningDate)
		if err != nil {
			return nil, err
		}
		fields["joining_date"] = joining
	}
	if req.Salary != nil {
		fields["salary"] = *req.Salary
	}

	if err := s.repo.Teacher.Update(ctx, id, fields); err != nil {
		s.logger.Error("更新教师失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// ────────────────────── Delete ──────────────────────

func (s *teacherService) Delete(ctx context.Context, id int64) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	// 课表中引用该教师的节次由外键置空
	if err := s.repo.Teacher.Delete(ctx, id); err != nil {
		s.logger.Error("删除教师失败", zap.Int64("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *teacherService) get(ctx context.Context, id int64) (*model.Teacher, error) {
	teacher, err := s.repo.Teacher.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		s.logger.Error("查询教师失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return teacher, nil
}

func toTeacherResponse(t *model.Teacher) *dto.TeacherResponse {
	return &dto.TeacherResponse{
		ID:               t.ID,
		Name:             t.Name,
		DOB:              formatDate(t.DOB),
		Gender:           t.Gender,
		Aadhaar:          t.Aadhaar,
		Phone:            t.Phone,
		AltPhone:         t.AltPhone,
		Email:            t.Email,
		Address:          t.Address,
		EmployeeID:       t.EmployeeID,
		Subject:          t.Subject,
		Qualification:    t.Qualification,
		Designation:      t.Designation,
		Department:       t.Department,
		JoiningDate:      formatDate(t.JoiningDate),
		Salary:           t.Salary,
		ClassAssignment:  t.ClassAssignment,
		Experience:       t.Experience,
		HealthInfo:       t.HealthInfo,
		EmergencyContact: t.EmergencyContact,
		CreatedAt:        t.CreatedAt.Format(timeFormat),
	}
}
