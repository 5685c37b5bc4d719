package dto

// ── 学校信息 DTO ──

// SaveSchoolRequest 创建/更新学校信息请求（multipart 表单，logo 为可选文件）
type SaveSchoolRequest struct {
	Name      string `form:"name"      json:"name"      binding:"required,max=200"`
	Address   string `form:"address"   json:"address"   binding:"omitempty,max=500"`
	Phone     string `form:"phone"     json:"phone"     binding:"omitempty,max=30"`
	Email     string `form:"email"     json:"email"     binding:"omitempty,email,max=100"`
	Principal string `form:"principal" json:"principal" binding:"omitempty,max=100"`
}

// SchoolResponse 学校信息响应
type SchoolResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Principal string `json:"principal"`
	Logo      string `json:"logo,omitempty"`
	LogoURL   string `json:"logo_url,omitempty"`
	UpdatedAt string `json:"updated_at"`
}
