package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/mamunbiswass/school-management/internal/dto"
	"github.com/mamunbiswass/school-management/internal/service"
	"github.com/mamunbiswass/school-management/pkg/response"
)

// SchoolHandler 学校信息 HTTP 处理器
type SchoolHandler struct {
	schoolSvc service.SchoolService
}

// NewSchoolHandler 创建 SchoolHandler
func NewSchoolHandler(schoolSvc service.SchoolService) *SchoolHandler {
	return &SchoolHandler{schoolSvc: schoolSvc}
}

// GetSchool 获取学校信息
// GET /api/school
func (h *SchoolHandler) GetSchool(c *gin.Context) {
	school, err := h.schoolSvc.Get(c.Request.Context())
	if err != nil {
		h.handleSchoolError(c, err)
		return
	}
	response.OK(c, school)
}

// CreateSchool 录入学校信息
// POST /api/school (multipart，可选 logo)
func (h *SchoolHandler) CreateSchool(c *gin.Context) {
	var req dto.SaveSchoolRequest
	if err := c.ShouldBind(&req); err != nil {
		bindFailed(c, err)
		return
	}
	logo, ok := optionalFile(c, "logo")
	if !ok {
		return
	}

	school, err := h.schoolSvc.Create(c.Request.Context(), &req, logo)
	if err != nil {
		h.handleSchoolError(c, err)
		return
	}
	response.Created(c, school)
}

// UpdateSchool 更新学校信息
// PUT /api/school/:id (multipart，可选 logo)
func (h *SchoolHandler) UpdateSchool(c *gin.Context) {
	id, ok := MustGetID(c, "id")
	if !ok {
		return
	}

	var req dto.SaveSchoolRequest
	if err := c.ShouldBind(&req); err != nil {
		bindFailed(c, err)
		return
	}
	logo, ok := optionalFile(c, "logo")
	if !ok {
		return
	}

	school, err := h.schoolSvc.Update(c.Request.Context(), id, &req, logo)
	if err != nil {
		h.handleSchoolError(c, err)
		return
	}
	response.OK(c, school)
}

// handleSchoolError 统一处理学校模块业务错误
func (h *SchoolHandler) handleSchoolError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrSchoolNotFound):
		response.NotFound(c, 11001, "尚未录入学校信息")
	case errors.Is(err, service.ErrSchoolExists):
		response.BadRequest(c, 11002, "学校信息已存在，请直接修改")
	default:
		response.InternalError(c)
	}
}
