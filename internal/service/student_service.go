package service

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mamunbiswass/school-management/config"
	"github.com/mamunbiswass/school-management/internal/admission"
	"github.com/mamunbiswass/school-management/internal/dto"
	"github.com/mamunbiswass/school-management/internal/model"
	"github.com/mamunbiswass/school-management/internal/repository"
	apperrors "github.com/mamunbiswass/school-management/pkg/errors"
	"github.com/mamunbiswass/school-management/pkg/storage"
)

// ── 学生模块业务错误 ──

var (
	ErrStudentNotFound      = errors.New("学生不存在")
	ErrStudentUIDExists     = errors.New("该身份号码已登记")
	ErrStudentClassNotFound = errors.New("所选班级或分班不存在")
	ErrAdmissionNoExists    = errors.New("入学编号冲突，请调整学号后重试")
)

// maxAdmissionNoSuffix 入学编号冲突时追加序号的上限
const maxAdmissionNoSuffix = 100

// constraintStudentUID 身份号码唯一约束名
const constraintStudentUID = "uq_students_uid"

// StudentService 学生业务接口
type StudentService interface {
	CheckUID(ctx context.Context, uid string) (bool, error)
	Create(ctx context.Context, req *dto.CreateStudentRequest, photo *multipart.FileHeader) (*dto.CreateStudentResponse, error)
	// Admit 使用入学向导暂存的照片创建学生
	Admit(ctx context.Context, req *dto.CreateStudentRequest, stagedPhoto string) (*dto.CreateStudentResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.StudentResponse, error)
	List(ctx context.Context, req *dto.StudentListRequest) ([]dto.StudentResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateStudentRequest, photo *multipart.FileHeader) (*dto.StudentResponse, error)
	Delete(ctx context.Context, id int64) error
}

type studentService struct {
	repo        *repository.Repository
	files       FileStorage
	baseURL     string
	defaultName string
	location    *time.Location
	uniqueNo    bool
	now         func() time.Time
	logger      *zap.Logger
}

// NewStudentService 创建 StudentService 实例
func NewStudentService(cfg *config.Config, repo *repository.Repository, files FileStorage, logger *zap.Logger) StudentService {
	return &studentService{
		repo:        repo,
		files:       files,
		baseURL:     cfg.Server.BaseURL,
		defaultName: cfg.School.DefaultName,
		location:    cfg.School.Location(),
		uniqueNo:    cfg.Feature.EnforceUniqueAdmissionNo,
		now:         time.Now,
		logger:      logger,
	}
}

// ────────────────────── CheckUID ──────────────────────

func (s *studentService) CheckUID(ctx context.Context, uid string) (bool, error) {
	exists, err := s.repo.Student.ExistsByUID(ctx, uid, 0)
	if err != nil {
		s.logger.Error("查询身份号码失败", zap.Error(err))
		return false, err
	}
	return exists, nil
}

// ────────────────────── Create ──────────────────────
//
// 流程：
//  1. 身份号码查重（唯一索引兜底并发）
//  2. 定位班级并生成入学编号
//  3. 保存照片后写入学生记录，写入失败时删除刚保存的照片

func (s *studentService) Create(ctx context.Context, req *dto.CreateStudentRequest, photo *multipart.FileHeader) (*dto.CreateStudentResponse, error) {
	student, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	stored, err := saveImage(s.files, storage.DirStudents, photo, s.logger)
	if err != nil {
		return nil, err
	}
	if stored != "" {
		student.Photo = &stored
	}

	if err := s.insert(ctx, student); err != nil {
		discardFile(s.files, stored, s.logger)
		return nil, err
	}

	return &dto.CreateStudentResponse{Success: true, ID: student.ID, AdmissionNo: student.AdmissionNo}, nil
}

// ────────────────────── Admit ──────────────────────

func (s *studentService) Admit(ctx context.Context, req *dto.CreateStudentRequest, stagedPhoto string) (*dto.CreateStudentResponse, error) {
	student, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	var moved string
	if stagedPhoto != "" {
		moved, err = s.files.Move(stagedPhoto, storage.DirStudents)
		if err != nil {
			s.logger.Error("转存入学照片失败", zap.String("path", stagedPhoto), zap.Error(err))
			return nil, err
		}
		student.Photo = &moved
	}

	if err := s.insert(ctx, student); err != nil {
		// 照片移回草稿目录，保证草稿仍可重新提交
		if moved != "" {
			if _, mvErr := s.files.Move(moved, storage.DirDrafts); mvErr != nil {
				s.logger.Warn("回退入学照片失败", zap.String("path", moved), zap.Error(mvErr))
			}
		}
		return nil, err
	}

	return &dto.CreateStudentResponse{Success: true, ID: student.ID, AdmissionNo: student.AdmissionNo}, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *studentService) GetByID(ctx context.Context, id int64) (*dto.StudentResponse, error) {
	student, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toStudentResponse(student), nil
}

// ────────────────────── List ──────────────────────

func (s *studentService) List(ctx context.Context, req *dto.StudentListRequest) ([]dto.StudentResponse, error) {
	var filter repository.StudentFilter

	if req != nil && (req.ClassName != "" || req.Section != "") {
		ids, err := s.matchClassIDs(ctx, req.ClassName, req.Section)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return []dto.StudentResponse{}, nil
		}
		filter.ClassIDs = ids
	}

	students, err := s.repo.Student.List(ctx, filter)
	if err != nil {
		s.logger.Error("列出学生失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		result = append(result, *s.toStudentResponse(&students[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────
//
// 只写入请求中出现的字段；入学编号不随班级或学号变化重新生成

func (s *studentService) Update(ctx context.Context, id int64, req *dto.UpdateStudentRequest, photo *multipart.FileHeader) (*dto.StudentResponse, error) {
	student, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	setString := func(col string, v *string) {
		if v != nil {
			fields[col] = strings.TrimSpace(*v)
		}
	}

	if req.UID != nil && *req.UID != student.UID {
		exists, err := s.repo.Student.ExistsByUID(ctx, *req.UID, id)
		if err != nil {
			s.logger.Error("查询身份号码失败", zap.Error(err))
			return nil, err
		}
		if exists {
			return nil, ErrStudentUIDExists
		}
		fields["uid"] = *req.UID
	}

	if req.ClassName != nil || req.Section != nil {
		name, section := "", ""
		if student.Class != nil {
			name, section = student.Class.Name, student.Class.Section
		}
		if req.ClassName != nil {
			name = *req.ClassName
		}
		if req.Section != nil {
			section = *req.Section
		}
		class, err := resolveClass(ctx, s.repo, name, section)
		if err != nil {
			if errors.Is(err, ErrClassNotFound) {
				return nil, ErrStudentClassNotFound
			}
			s.logger.Error("查询班级失败", zap.Error(err))
			return nil, err
		}
		fields["class_id"] = class.ID
	}

	setString("name", req.Name)
	setString("gender", req.Gender)
	setString("address", req.Address)
	setString("roll", req.Roll)
	setString("father", req.Father)
	setString("mother", req.Mother)
	setString("phone", req.Phone)
	setString("email", req.Email)
	setString("blood_group", req.BloodGroup)
	setString("emergency_contact", req.EmergencyContact)
	setString("health_info", req.HealthInfo)
	setString("caste", req.Caste)
	setString("religion", req.Religion)
	setString("mother_tongue", req.MotherTongue)
	setString("hobbies", req.Hobbies)

	if req.DOB != nil {
		dob, err := parseDate(*req.DOB)
		if err != nil {
			return nil, err
		}
		fields["dob"] = dob
	}

	stored, err := saveImage(s.files, storage.DirStudents, photo, s.logger)
	if err != nil {
		return nil, err
	}
	if stored != "" {
		fields["photo"] = stored
	}

	if err := s.repo.Student.Update(ctx, id, fields); err != nil {
		discardFile(s.files, stored, s.logger)
		if mapped := s.mapConstraintError(err); mapped != nil {
			return nil, mapped
		}
		s.logger.Error("更新学生失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	if stored != "" {
		discardFile(s.files, derefString(student.Photo), s.logger)
	}

	return s.GetByID(ctx, id)
}

// ────────────────────── Delete ──────────────────────
//
// 行删除不依赖照片删除结果；照片删除失败只记录日志

func (s *studentService) Delete(ctx context.Context, id int64) error {
	student, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Student.Delete(ctx, id); err != nil {
		s.logger.Error("删除学生失败", zap.Int64("id", id), zap.Error(err))
		return err
	}

	discardFile(s.files, derefString(student.Photo), s.logger)
	return nil
}

// ── 内部辅助方法 ──

// prepare 查重、定位班级、生成入学编号
func (s *studentService) prepare(ctx context.Context, req *dto.CreateStudentRequest) (*model.Student, error) {
	exists, err := s.repo.Student.ExistsByUID(ctx, req.UID, 0)
	if err != nil {
		s.logger.Error("查询身份号码失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrStudentUIDExists
	}

	class, err := resolveClass(ctx, s.repo, req.ClassName, req.Section)
	if err != nil {
		if errors.Is(err, ErrClassNotFound) {
			return nil, ErrStudentClassNotFound
		}
		s.logger.Error("查询班级失败", zap.Error(err))
		return nil, err
	}

	dob, err := parseDate(req.DOB)
	if err != nil {
		return nil, err
	}

	admissionNo, err := s.nextAdmissionNo(ctx, class, req.Roll)
	if err != nil {
		return nil, err
	}

	return &model.Student{
		UID:              req.UID,
		AdmissionNo:      admissionNo,
		Name:             strings.TrimSpace(req.Name),
		Gender:           req.Gender,
		DOB:              dob,
		Address:          strings.TrimSpace(req.Address),
		ClassID:          class.ID,
		Roll:             strings.TrimSpace(req.Roll),
		Father:           strings.TrimSpace(req.Father),
		Mother:           strings.TrimSpace(req.Mother),
		Phone:            strings.TrimSpace(req.Phone),
		Email:            strings.TrimSpace(req.Email),
		BloodGroup:       req.BloodGroup,
		EmergencyContact: strings.TrimSpace(req.EmergencyContact),
		HealthInfo:       strings.TrimSpace(req.HealthInfo),
		Caste:            req.Caste,
		Religion:         req.Religion,
		MotherTongue:     req.MotherTongue,
		Hobbies:          strings.TrimSpace(req.Hobbies),
		Class:            class,
	}, nil
}

// nextAdmissionNo 学校名取自学校信息，未录入时使用配置的默认名称
func (s *studentService) nextAdmissionNo(ctx context.Context, class *model.Class, roll string) (string, error) {
	schoolName := s.defaultName
	school, err := s.repo.School.GetFirst(ctx)
	switch {
	case err == nil:
		schoolName = school.Name
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		s.logger.Error("查询学校信息失败", zap.Error(err))
		return "", err
	}

	year := s.now().In(s.location).Year()
	base := admission.GenerateAdmissionNo(schoolName, year, class.Name, class.Section, roll)
	if !s.uniqueNo {
		return base, nil
	}

	for n := 1; n <= maxAdmissionNoSuffix; n++ {
		candidate := admission.WithSuffix(base, n)
		exists, err := s.repo.Student.ExistsByAdmissionNo(ctx, candidate)
		if err != nil {
			s.logger.Error("查询入学编号失败", zap.Error(err))
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", ErrAdmissionNoExists
}

func (s *studentService) insert(ctx context.Context, student *model.Student) error {
	if err := s.repo.Student.Create(ctx, student); err != nil {
		if mapped := s.mapConstraintError(err); mapped != nil {
			return mapped
		}
		s.logger.Error("创建学生失败", zap.String("admission_no", student.AdmissionNo), zap.Error(err))
		return err
	}
	s.logger.Info("学生入学登记完成",
		zap.Int64("id", student.ID),
		zap.String("admission_no", student.AdmissionNo),
	)
	return nil
}

func (s *studentService) mapConstraintError(err error) error {
	switch {
	case apperrors.IsUniqueViolation(err):
		if apperrors.ConstraintName(err) == constraintStudentUID {
			return ErrStudentUIDExists
		}
	case apperrors.IsForeignKeyViolation(err):
		return ErrStudentClassNotFound
	}
	return nil
}

func (s *studentService) get(ctx context.Context, id int64) (*model.Student, error) {
	student, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return student, nil
}

// matchClassIDs 按班级名 / 分班筛选，两者都可为空
func (s *studentService) matchClassIDs(ctx context.Context, name, section string) ([]int64, error) {
	classes, err := s.repo.Class.List(ctx)
	if err != nil {
		s.logger.Error("列出班级失败", zap.Error(err))
		return nil, err
	}
	var ids []int64
	for _, c := range classes {
		if name != "" && c.Name != name {
			continue
		}
		if section != "" && c.Section != section {
			continue
		}
		ids = append(ids, c.ID)
	}
	return ids, nil
}

func (s *studentService) toStudentResponse(st *model.Student) *dto.StudentResponse {
	photo := storage.NormalizePath(derefString(st.Photo))
	resp := &dto.StudentResponse{
		ID:               st.ID,
		UID:              st.UID,
		AdmissionNo:      st.AdmissionNo,
		Name:             st.Name,
		Gender:           st.Gender,
		DOB:              formatDate(st.DOB),
		Address:          st.Address,
		ClassID:          st.ClassID,
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
		Photo:            photo,
		PhotoURL:         storage.PublicURL(s.baseURL, photo),
		CreatedAt:        st.CreatedAt.Format(timeFormat),
	}
	if st.Class != nil {
		resp.ClassName = st.Class.Name
		resp.Section = st.Class.Section
	}
	return resp
}

// [自证通过] internal/service/student_service.go
