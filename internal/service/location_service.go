package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mamunbiswass/school-management/internal/dto"
	"github.com/mamunbiswass/school-management/internal/model"
	"github.com/mamunbiswass/school-management/internal/repository"
)

// ── 行政区划模块业务错误 ──

var (
	ErrLocationImportInvalid = errors.New("导入文件格式无效，需要包含 District / Block / Village 列的 xlsx")
)

// LocationService 行政区划业务接口
type LocationService interface {
	ListDistricts(ctx context.Context) ([]string, error)
	ListBlocks(ctx context.Context, district string) ([]string, error)
	ListVillages(ctx context.Context, district, block string) ([]string, error)
	// Import 从 xlsx 导入，已存在的行跳过
	Import(ctx context.Context, r io.Reader) (*dto.LocationImportResponse, error)
}

type locationService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLocationService 创建 LocationService 实例
func NewLocationService(repo *repository.Repository, logger *zap.Logger) LocationService {
	return &locationService{repo: repo, logger: logger}
}

// ────────────────────── 级联查询 ──────────────────────

func (s *locationService) ListDistricts(ctx context.Context) ([]string, error) {
	districts, err := s.repo.Location.ListDistricts(ctx)
	if err != nil {
		s.logger.Error("查询 district 失败", zap.Error(err))
		return nil, err
	}
	return nonNil(districts), nil
}

func (s *locationService) ListBlocks(ctx context.Context, district string) ([]string, error) {
	blocks, err := s.repo.Location.ListBlocks(ctx, strings.TrimSpace(district))
	if err != nil {
		s.logger.Error("查询 block 失败", zap.String("district", district), zap.Error(err))
		return nil, err
	}
	return nonNil(blocks), nil
}

func (s *locationService) ListVillages(ctx context.Context, district, block string) ([]string, error) {
	villages, err := s.repo.Location.ListVillages(ctx, strings.TrimSpace(district), strings.TrimSpace(block))
	if err != nil {
		s.logger.Error("查询 village 失败",
			zap.String("district", district),
			zap.String("block", block),
			zap.Error(err),
		)
		return nil, err
	}
	return nonNil(villages), nil
}

// ═══════════════════════════════════════════════════════════
// Import: 从 Excel 导入行政区划
// ═══════════════════════════════════════════════════════════
//
// 输入格式：
//   - 第一个 Sheet，首行为表头，列顺序不限（不区分大小写）
//   - 任一列为空的行计为跳过；文件内重复行与库中已存在的行也计为跳过

func (s *locationService) Import(ctx context.Context, r io.Reader) (*dto.LocationImportResponse, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLocationImportInvalid, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrLocationImportInvalid
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLocationImportInvalid, err)
	}
	if len(rows) == 0 {
		return nil, ErrLocationImportInvalid
	}

	cols, ok := locationColumns(rows[0])
	if !ok {
		return nil, ErrLocationImportInvalid
	}

	result := &dto.LocationImportResponse{TotalRows: len(rows) - 1}
	seen := make(map[model.Location]bool)
	locations := make([]model.Location, 0, len(rows))
	for _, row := range rows[1:] {
		loc := model.Location{
			District: cellAt(row, cols[0]),
			Block:    cellAt(row, cols[1]),
			Village:  cellAt(row, cols[2]),
		}
		if loc.District == "" || loc.Block == "" || loc.Village == "" || seen[loc] {
			result.Skipped++
			continue
		}
		seen[loc] = true
		locations = append(locations, loc)
	}

	inserted, err := s.repo.Location.BatchInsert(ctx, locations)
	if err != nil {
		s.logger.Error("导入行政区划失败", zap.Int("rows", len(locations)), zap.Error(err))
		return nil, err
	}
	result.Imported = int(inserted)
	result.Skipped += len(locations) - int(inserted)

	s.logger.Info("行政区划导入完成",
		zap.Int("total", result.TotalRows),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

// ── 辅助函数 ──

// locationColumns 返回 district / block / village 所在列下标
func locationColumns(header []string) ([3]int, bool) {
	cols := [3]int{-1, -1, -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "district":
			cols[0] = i
		case "block":
			cols[1] = i
		case "village":
			cols[2] = i
		}
	}
	return cols, cols[0] >= 0 && cols[1] >= 0 && cols[2] >= 0
}

func cellAt(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
