package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamunbiswass/school-management/internal/dto"
	"github.com/mamunbiswass/school-management/internal/service"
	"github.com/mamunbiswass/school-management/pkg/response"
)

// LocationHandler 行政区划级联查询处理器
type LocationHandler struct {
	locationSvc service.LocationService
}

// NewLocationHandler 创建 LocationHandler
func NewLocationHandler(locationSvc service.LocationService) *LocationHandler {
	return &LocationHandler{locationSvc: locationSvc}
}

// ListDistricts GET /api/location/districts
func (h *LocationHandler) ListDistricts(c *gin.Context) {
	districts, err := h.locationSvc.ListDistricts(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": districts})
}

// ListBlocks GET /api/location/blocks?district=
func (h *LocationHandler) ListBlocks(c *gin.Context) {
	var req dto.BlockListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	blocks, err := h.locationSvc.ListBlocks(c.Request.Context(), req.District)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": blocks})
}

// ListVillages GET /api/location/villages?district=&block=
func (h *LocationHandler) ListVillages(c *gin.Context) {
	var req dto.VillageListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindFailed(c, err)
		return
	}

	villages, err := h.locationSvc.ListVillages(c.Request.Context(), req.District, req.Block)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": villages})
}

// ImportLocations 从 xlsx 导入行政区划
// POST /api/location/import (multipart, file)
func (h *LocationHandler) ImportLocations(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			response.BadRequest(c, 10001, "请上传 xlsx 文件")
			return
		}
		response.BadRequest(c, 10002, "上传文件读取失败")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, 10002, "上传文件读取失败")
		return
	}
	defer f.Close()

	resp, err := h.locationSvc.Import(c.Request.Context(), f)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLocationImportInvalid):
			response.BadRequest(c, 16001, "导入文件格式无效，需要包含 District / Block / Village 列的 xlsx")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, resp)
}
