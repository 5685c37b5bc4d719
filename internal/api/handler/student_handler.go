package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/mamunbiswass/school-management/internal/dto"
	"github.com/mamunbiswass/school-management/internal/service"
	"github.com/mamunbiswass/school-management/pkg/response"
)

// StudentHandler 学生模块 HTTP 处理器
type StudentHandler struct {
	studentSvc service.StudentService
}

// NewStudentHandler 创建 StudentHandler
func NewStudentHandler(studentSvc service.StudentService) *StudentHandler {
	return &StudentHandler{studentSvc: studentSvc}
}

// CheckUID 身份号码查重
// GET /api/students/check/:uid
// GET /api/students/check-uid?uid=123456789012 (兼容旧前端)
func (h *StudentHandler) CheckUID(c *gin.Context) {
	var req dto.CheckUIDRequest
	bind := c.ShouldBindQuery
	if _, ok := c.Params.Get("uid"); ok {
		bind = c.ShouldBindUri
	}
	if err := bind(&req); err != nil {
		bindFailed(c, err)
		return
	}

	exists, err := h.studentSvc.CheckUID(c.Request.Context(), req.UID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, dto.CheckUIDResponse{Exists: exists})
}

// CreateStudent 学生入学登记
// POST /api/students (multipart，可选 photo)
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req dto.CreateStudentRequest
	if err := c.ShouldBind(&req); err != nil {
		bindFailed(c, err)
		return
	}
	photo, ok := optionalFile(c, "photo")
	if !ok {
		return
	}

	resp, err := h.studentSvc.Create(c.Request.Context(), &req, photo)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}
	response.Created(c, resp)
}

// ListStudents 学生列表，可按班级过滤
// GET /api/students?className=5&section=A
func (h *StudentHandler) ListStudents(c *gin.Context) {
	var req dto.StudentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	students, err := h.studentSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": students})
}

// GetStudent 学生详情
// GET /api/students/:id
func (h *StudentHandler) GetStudent(c *gin.Context) {
	id, ok := MustGetID(c, "id")
	if !ok {
		return
	}

	student, err := h.studentSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}
	response.OK(c, student)
}

// UpdateStudent 更新学生信息，只更新提交的字段
// PUT /api/students/:id (JSON 或 multipart，可选 photo)
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	id, ok := MustGetID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if err := c.ShouldBind(&req); err != nil {
		bindFailed(c, err)
		return
	}
	photo, ok := optionalFile(c, "photo")
	if !ok {
		return
	}

	student, err := h.studentSvc.Update(c.Request.Context(), id, &req, photo)
	if err != nil {
		h.handleStudentError(c, err)
		return
	}
	response.OK(c, student)
}

// DeleteStudent 删除学生及其照片
// DELETE /api/students/:id
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	id, ok := MustGetID(c, "id")
	if !ok {
		return
	}

	if err := h.studentSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleStudentError(c, err)
		return
	}
	response.OK(c, nil)
}

// handleStudentError 统一处理学生模块业务错误
func (h *StudentHandler) handleStudentError(c *gin.Context, err error) {
	if !writeStudentError(c, err) {
		response.InternalError(c)
	}
}

// writeStudentError 学生相关错误映射，入学向导提交时复用
func writeStudentError(c *gin.Context, err error) bool {
	if handleCommonError(c, err) {
		return true
	}
	switch {
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 14001, "学生不存在")
	case errors.Is(err, service.ErrStudentUIDExists):
		response.BadRequest(c, 14002, "该身份号码已登记")
	case errors.Is(err, service.ErrStudentClassNotFound):
		response.BadRequest(c, 14003, "所选班级或分班不存在")
	case errors.Is(err, service.ErrAdmissionNoExists):
		response.BadRequest(c, 14004, "入学编号冲突，请调整学号后重试")
	default:
		return false
	}
	return true
}
