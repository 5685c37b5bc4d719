package dto

import "github.com/mamunbiswass/school-management/internal/admission"

// ── 入学向导 DTO ──

// ChangeFieldsRequest 修改草稿字段，值为空字符串表示清除
type ChangeFieldsRequest struct {
	Fields map[string]string `json:"fields" binding:"required,min=1"`
}

// ScanQRRequest 提交二维码原始内容
type ScanQRRequest struct {
	Payload string `json:"payload" binding:"required,max=8192"`
}

// AdmissionDraftResponse 草稿响应
type AdmissionDraftResponse struct {
	ID        string          `json:"id"`
	State     admission.State `json:"state"`
	ExpiresAt string          `json:"expires_at"`
}

// AdmissionSubmitResponse 提交响应
type AdmissionSubmitResponse struct {
	Student CreateStudentResponse  `json:"student"`
	Draft   AdmissionDraftResponse `json:"draft"`
}
