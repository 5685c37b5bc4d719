package dto

// ── 行政区划 DTO ──

// BlockListRequest 查询 block 列表
type BlockListRequest struct {
	District string `form:"district" binding:"required"`
}

// VillageListRequest 查询 village 列表
type VillageListRequest struct {
	District string `form:"district" binding:"required"`
	Block    string `form:"block"    binding:"required"`
}

// LocationImportResponse 导入结果
type LocationImportResponse struct {
	TotalRows int `json:"total_rows"`
	Imported  int `json:"imported"`
	Skipped   int `json:"skipped"`
}
