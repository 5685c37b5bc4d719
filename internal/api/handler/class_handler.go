package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/mamunbiswass/school-management/internal/dto"
	"github.com/mamunbiswass/school-management/internal/service"
	"github.com/mamunbiswass/school-management/pkg/response"
)

// ClassHandler 班级模块 HTTP 处理器
type ClassHandler struct {
	classSvc service.ClassService
}

// NewClassHandler 创建 ClassHandler
func NewClassHandler(classSvc service.ClassService) *ClassHandler {
	return &ClassHandler{classSvc: classSvc}
}

// ListClasses 获取班级列表
// GET /api/classes
func (h *ClassHandler) ListClasses(c *gin.Context) {
	classes, err := h.classSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": classes})
}

// ListSections 获取班级名下的分班
// GET /api/classes/sections?name=5
func (h *ClassHandler) ListSections(c *gin.Context) {
	var req dto.SectionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	sections, err := h.classSvc.ListSections(c.Request.Context(), req.Name)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": sections})
}

// GetClass 获取班级详情
// GET /api/classes/:id
func (h *ClassHandler) GetClass(c *gin.Context) {
	id, ok := MustGetID(c, "id")
	if !ok {
		return
	}

	class, err := h.classSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleClassError(c, err)
		return
	}
	response.OK(c, class)
}

// CreateClass 创建班级
// POST /api/classes
func (h *ClassHandler) CreateClass(c *gin.Context) {
	var req dto.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	class, err := h.classSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleClassError(c, err)
		return
	}
	response.Created(c, class)
}

// UpdateClass 更新班级
// PUT /api/classes/:id
func (h *ClassHandler) UpdateClass(c *gin.Context) {
	id, ok := MustGetID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	class, err := h.classSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleClassError(c, err)
		return
	}
	response.OK(c, class)
}

// DeleteClass 删除班级
// DELETE /api/classes/:id
func (h *ClassHandler) DeleteClass(c *gin.Context) {
	id, ok := MustGetID(c, "id")
	if !ok {
		return
	}

	if err := h.classSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleClassError(c, err)
		return
	}
	response.OK(c, nil)
}

// handleClassError 统一处理班级模块业务错误
func (h *ClassHandler) handleClassError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrClassNotFound):
		response.NotFound(c, 12001, "班级不存在")
	case errors.Is(err, service.ErrClassExists):
		response.BadRequest(c, 12002, "该班级与分班已存在")
	case errors.Is(err, service.ErrClassInUse):
		response.BadRequest(c, 12003, "班级下仍有学生、科目或课表，无法删除")
	default:
		response.InternalError(c)
	}
}
