package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamunbiswass/school-management/internal/document"
	"github.com/mamunbiswass/school-management/internal/dto"
	"github.com/mamunbiswass/school-management/internal/service"
	"github.com/mamunbiswass/school-management/pkg/response"
)

// DocumentHandler 入学登记表 / 学生证 PDF 处理器
type DocumentHandler struct {
	documentSvc service.DocumentService
}

// NewDocumentHandler 创建 DocumentHandler
func NewDocumentHandler(documentSvc service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentSvc: documentSvc}
}

// RenderStudent 生成单个学生的文档
// GET /api/students/:id/documents/:kind?mode=download|print
// kind: admission-form | id-card
func (h *DocumentHandler) RenderStudent(c *gin.Context) {
	id, ok := MustGetID(c, "id")
	if !ok {
		return
	}
	kind, ok := MustGetParam(c, "kind")
	if !ok {
		return
	}

	var req dto.DocumentRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	file, err := h.documentSvc.RenderStudent(c.Request.Context(), id, kind, &req)
	if err != nil {
		h.handleDocumentError(c, err)
		return
	}
	response.File(c, file.ContentType, file.Filename, file.Data, file.Inline)
}

// RenderAllIDCards 全部学生证拼版到 A4
// GET /api/documents/id-cards?mode=download|print
func (h *DocumentHandler) RenderAllIDCards(c *gin.Context) {
	var req dto.DocumentRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	file, err := h.documentSvc.RenderAllIDCards(c.Request.Context(), &req)
	if err != nil {
		h.handleDocumentError(c, err)
		return
	}
	response.File(c, file.ContentType, file.Filename, file.Data, file.Inline)
}

func (h *DocumentHandler) handleDocumentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDocumentKindInvalid):
		response.BadRequest(c, 18001, "不支持的文档类型，可选 admission-form / id-card")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 14001, "学生不存在")
	case errors.Is(err, service.ErrDocumentNoStudents):
		response.NotFound(c, 18003, "没有可生成学生证的学生")
	case errors.Is(err, document.ErrContentOverflow):
		response.Error(c, http.StatusInternalServerError, 18004, "文档内容超出最大页数")
	default:
		response.InternalError(c)
	}
}
