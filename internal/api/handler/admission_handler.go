package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mamunbiswass/school-management/internal/admission"
	"github.com/mamunbiswass/school-management/internal/dto"
	"github.com/mamunbiswass/school-management/internal/service"
	"github.com/mamunbiswass/school-management/pkg/response"
)

// AdmissionHandler 入学向导 HTTP 处理器
// 草稿状态全部保存在服务端，前端只负责展示 state
type AdmissionHandler struct {
	admissionSvc service.AdmissionService
}

// NewAdmissionHandler 创建 AdmissionHandler
func NewAdmissionHandler(admissionSvc service.AdmissionService) *AdmissionHandler {
	return &AdmissionHandler{admissionSvc: admissionSvc}
}

// CreateDraft 开始新的入学登记
// POST /api/admissions/drafts
func (h *AdmissionHandler) CreateDraft(c *gin.Context) {
	draft, err := h.admissionSvc.CreateDraft(c.Request.Context())
	if err != nil {
		h.handleAdmissionError(c, err)
		return
	}
	response.Created(c, draft)
}

// GetDraft GET /api/admissions/drafts/:id
func (h *AdmissionHandler) GetDraft(c *gin.Context) {
	id, ok := MustGetParam(c, "id")
	if !ok {
		return
	}

	draft, err := h.admissionSvc.GetDraft(c.Request.Context(), id)
	if err != nil {
		h.handleAdmissionError(c, err)
		return
	}
	response.OK(c, draft)
}

// ChangeFields 修改表单字段
// PATCH /api/admissions/drafts/:id/fields
func (h *AdmissionHandler) ChangeFields(c *gin.Context) {
	id, ok := MustGetParam(c, "id")
	if !ok {
		return
	}

	var req dto.ChangeFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	draft, err := h.admissionSvc.ChangeFields(c.Request.Context(), id, &req)
	if err != nil {
		h.handleAdmissionError(c, err)
		return
	}
	response.OK(c, draft)
}

// AttachPhoto 上传照片并生成预览
// POST /api/admissions/drafts/:id/photo (multipart, photo)
func (h *AdmissionHandler) AttachPhoto(c *gin.Context) {
	id, ok := MustGetParam(c, "id")
	if !ok {
		return
	}
	photo, ok := optionalFile(c, "photo")
	if !ok {
		return
	}
	if photo == nil {
		response.BadRequest(c, 10001, "请选择照片")
		return
	}

	draft, err := h.admissionSvc.AttachPhoto(c.Request.Context(), id, photo)
	if err != nil {
		h.handleAdmissionError(c, err)
		return
	}
	response.OK(c, draft)
}

// Next POST /api/admissions/drafts/:id/next
func (h *AdmissionHandler) Next(c *gin.Context) {
	id, ok := MustGetParam(c, "id")
	if !ok {
		return
	}

	draft, err := h.admissionSvc.Next(c.Request.Context(), id)
	if err != nil {
		h.handleAdmissionError(c, err)
		return
	}
	response.OK(c, draft)
}

// Back POST /api/admissions/drafts/:id/back
func (h *AdmissionHandler) Back(c *gin.Context) {
	id, ok := MustGetParam(c, "id")
	if !ok {
		return
	}

	draft, err := h.admissionSvc.Back(c.Request.Context(), id)
	if err != nil {
		h.handleAdmissionError(c, err)
		return
	}
	response.OK(c, draft)
}

// ScanQR 合并 Aadhaar 二维码内容
// POST /api/admissions/drafts/:id/qr
func (h *AdmissionHandler) ScanQR(c *gin.Context) {
	id, ok := MustGetParam(c, "id")
	if !ok {
		return
	}

	var req dto.ScanQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	draft, err := h.admissionSvc.ScanQR(c.Request.Context(), id, &req)
	if err != nil {
		h.handleAdmissionError(c, err)
		return
	}
	response.OK(c, draft)
}

// Submit 最后一步提交，成功后草稿回到第一步
// POST /api/admissions/drafts/:id/submit
func (h *AdmissionHandler) Submit(c *gin.Context) {
	id, ok := MustGetParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.admissionSvc.Submit(c.Request.Context(), id)
	if err != nil {
		h.handleAdmissionError(c, err)
		return
	}
	response.Created(c, resp)
}

// Discard 放弃草稿
// DELETE /api/admissions/drafts/:id
func (h *AdmissionHandler) Discard(c *gin.Context) {
	id, ok := MustGetParam(c, "id")
	if !ok {
		return
	}

	if err := h.admissionSvc.Discard(c.Request.Context(), id); err != nil {
		h.handleAdmissionError(c, err)
		return
	}
	response.OK(c, nil)
}

// handleAdmissionError 统一处理入学向导错误
func (h *AdmissionHandler) handleAdmissionError(c *gin.Context, err error) {
	var fieldErr *admission.FieldError
	if errors.As(err, &fieldErr) {
		response.ErrorWithDetails(c, http.StatusBadRequest, 19002, "请完善当前步骤的必填项", strings.Join(fieldErr.Fields, ", "))
		return
	}
	if writeStudentError(c, err) {
		return
	}

	switch {
	case errors.Is(err, service.ErrDraftNotFound):
		response.NotFound(c, 19001, "入学草稿不存在或已过期")
	case errors.Is(err, admission.ErrUIDExists):
		response.BadRequest(c, 19003, "该身份号码已登记，无法重复入学")
	case errors.Is(err, admission.ErrFirstStep),
		errors.Is(err, admission.ErrLastStep),
		errors.Is(err, admission.ErrNotFinalStep):
		response.BadRequest(c, 19004, err.Error())
	case errors.Is(err, admission.ErrInvalidQR):
		response.BadRequest(c, 19005, "无效的 Aadhaar 二维码，表单未修改")
	case errors.Is(err, admission.ErrUnknownField),
		errors.Is(err, admission.ErrUnknownAction):
		response.BadRequest(c, 19006, err.Error())
	default:
		response.InternalError(c)
	}
}
