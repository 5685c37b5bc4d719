package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/mamunbiswass/school-management/internal/dto"
	"github.com/mamunbiswass/school-management/internal/service"
	"github.com/mamunbiswass/school-management/pkg/response"
)

// TimetableHandler 课表模块 HTTP 处理器
type TimetableHandler struct {
	timetableSvc service.TimetableService
}

// NewTimetableHandler 创建 TimetableHandler
func NewTimetableHandler(timetableSvc service.TimetableService) *TimetableHandler {
	return &TimetableHandler{timetableSvc: timetableSvc}
}

// GetPeriods 获取班级课表，按 Monday..Saturday、开始时间排序
// GET /api/timetable/:className/:section
func (h *TimetableHandler) GetPeriods(c *gin.Context) {
	className, ok := MustGetParam(c, "className")
	if !ok {
		return
	}
	section, ok := MustGetParam(c, "section")
	if !ok {
		return
	}

	periods, err := h.timetableSvc.GetPeriods(c.Request.Context(), className, section)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}
	response.OK(c, gin.H{"list": periods})
}

// AddPeriod 新增节次
// POST /api/timetable
func (h *TimetableHandler) AddPeriod(c *gin.Context) {
	var req dto.CreatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	period, err := h.timetableSvc.AddPeriod(c.Request.Context(), &req)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}
	response.Created(c, period)
}

// UpdatePeriod 更新节次
// PUT /api/timetable/:id
func (h *TimetableHandler) UpdatePeriod(c *gin.Context) {
	id, ok := MustGetID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdatePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	period, err := h.timetableSvc.UpdatePeriod(c.Request.Context(), id, &req)
	if err != nil {
		h.handleTimetableError(c, err)
		return
	}
	response.OK(c, period)
}

// DeletePeriod 删除节次
// DELETE /api/timetable/:id
func (h *TimetableHandler) DeletePeriod(c *gin.Context) {
	id, ok := MustGetID(c, "id")
	if !ok {
		return
	}

	if err := h.timetableSvc.DeletePeriod(c.Request.Context(), id); err != nil {
		h.handleTimetableError(c, err)
		return
	}
	response.OK(c, nil)
}

// handleTimetableError 统一处理课表模块业务错误
func (h *TimetableHandler) handleTimetableError(c *gin.Context, err error) {
	if !writeTimetableError(c, err) {
		response.InternalError(c)
	}
}

func writeTimetableError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, service.ErrTimetableEmpty):
		response.NotFound(c, 15001, "该班级暂无课表")
	case errors.Is(err, service.ErrPeriodNotFound):
		response.NotFound(c, 15002, "课表节次不存在")
	case errors.Is(err, service.ErrPeriodInvalidRange):
		response.BadRequest(c, 15003, "结束时间必须晚于开始时间")
	case errors.Is(err, service.ErrPeriodOverlap):
		response.BadRequest(c, 15004, "与同一天已有节次时间重叠")
	case errors.Is(err, service.ErrPeriodSubjectNotFound):
		response.BadRequest(c, 15005, "科目不存在")
	case errors.Is(err, service.ErrPeriodTeacherNotFound):
		response.BadRequest(c, 15006, "教师不存在")
	case errors.Is(err, service.ErrTimetableClassNotFound):
		response.BadRequest(c, 15007, "班级或分班不存在")
	case errors.Is(err, service.ErrPeriodInvalidDay):
		response.BadRequest(c, 15008, "星期必须为 Monday 至 Saturday")
	default:
		return false
	}
	return true
}
