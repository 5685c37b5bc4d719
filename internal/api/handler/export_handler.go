package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/mamunbiswass/school-management/internal/dto"
	"github.com/mamunbiswass/school-management/internal/service"
	"github.com/mamunbiswass/school-management/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportStudents 导出学生名册
// GET /api/export/students?className=&section=
func (h *ExportHandler) ExportStudents(c *gin.Context) {
	var req dto.StudentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	file, err := h.exportSvc.ExportStudents(c.Request.Context(), &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	response.File(c, file.ContentType, file.Filename, file.Data, false)
}

// ExportTimetable 导出班级课表
// GET /api/timetable/:className/:section/export?format=xlsx|ics&from=2024-06-17
func (h *ExportHandler) ExportTimetable(c *gin.Context) {
	h.exportTimetable(c, "")
}

// ExportTimetableAs 固定导出格式，用于 export.xlsx / export.ics 路由
// GET /api/timetable/:className/:section/export.ics?from=2024-06-17
func (h *ExportHandler) ExportTimetableAs(format string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.exportTimetable(c, format)
	}
}

// exportTimetable format 非空时覆盖查询参数
func (h *ExportHandler) exportTimetable(c *gin.Context, format string) {
	className, ok := MustGetParam(c, "className")
	if !ok {
		return
	}
	section, ok := MustGetParam(c, "section")
	if !ok {
		return
	}

	var req dto.TimetableExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}
	if format != "" {
		req.Format = format
	}

	file, err := h.exportSvc.ExportTimetable(c.Request.Context(), className, section, &req)
	if err != nil {
		h.handleExportError(c, err)
		return
	}
	response.File(c, file.ContentType, file.Filename, file.Data, false)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	if handleCommonError(c, err) || writeTimetableError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrExportNoStudents):
		response.NotFound(c, 18002, "没有符合条件的学生")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
