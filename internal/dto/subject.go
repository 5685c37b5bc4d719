package dto

// ── 科目模块 DTO ──

// CreateSubjectRequest 创建科目请求，班级按 (class_name, section) 定位
type CreateSubjectRequest struct {
	Name      string `json:"name"       binding:"required,max=100"`
	Code      string `json:"code"       binding:"omitempty,max=30"`
	ClassName string `json:"class_name" binding:"required,max=50"`
	Section   string `json:"section"    binding:"required,max=10"`
	Teacher   string `json:"teacher"    binding:"omitempty,max=100"`
}

// UpdateSubjectRequest 更新科目请求
type UpdateSubjectRequest struct {
	Name      *string `json:"name"       binding:"omitempty,min=1,max=100"`
	Code      *string `json:"code"       binding:"omitempty,max=30"`
	ClassName *string `json:"class_name" binding:"omitempty,min=1,max=50"`
	Section   *string `json:"section"    binding:"omitempty,min=1,max=10"`
	Teacher   *string `json:"teacher"    binding:"omitempty,max=100"`
}

// SubjectResponse 科目信息响应
type SubjectResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	ClassID   int64  `json:"class_id"`
	ClassName string `json:"class_name"`
	Section   string `json:"section"`
	Teacher   string `json:"teacher"`
}
