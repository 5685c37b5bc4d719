package dto

// ── 文档 DTO ──

// DocumentRequest 文档输出参数
type DocumentRequest struct {
	Mode string `form:"mode" binding:"omitempty,oneof=download print"`
}

// FileResult 生成的二进制文件
type FileResult struct {
	Filename    string
	ContentType string
	Data        []byte
	Inline      bool
}
