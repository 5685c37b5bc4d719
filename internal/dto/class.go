package dto

// ── 班级模块 DTO ──

// CreateClassRequest 创建班级请求
type CreateClassRequest struct {
	Name    string `json:"name"    binding:"required,max=50"`
	Section string `json:"section" binding:"omitempty,max=10"` // 为空时默认 A
	Teacher string `json:"teacher" binding:"omitempty,max=100"`
}

// UpdateClassRequest 更新班级请求
type UpdateClassRequest struct {
	Name    *string `json:"name"    binding:"omitempty,min=1,max=50"`
	Section *string `json:"section" binding:"omitempty,min=1,max=10"`
	Teacher *string `json:"teacher" binding:"omitempty,max=100"`
}

// SectionListRequest 分班查询参数
type SectionListRequest struct {
	Name string `form:"name" binding:"required"`
}

// ClassResponse 班级信息响应
type ClassResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Section   string `json:"section"`
	Teacher   string `json:"teacher"`
	CreatedAt string `json:"created_at"`
}
