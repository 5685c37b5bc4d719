package document

import (
	"fmt"
	"image"
)

// Paginate 将光栅图按页高纵向切分为 ceil(h/pageHeight) 页
// 除最后一页外均为整页高度，切片与原图共享像素
func Paginate(raster *image.RGBA, pageHeightPx int) ([]*image.RGBA, error) {
	if pageHeightPx <= 0 {
		return nil, fmt.Errorf("页高必须大于 0: %d", pageHeightPx)
	}
	b := raster.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("内容为空，无法分页")
	}

	count := (b.Dy() + pageHeightPx - 1) / pageHeightPx
	pages := make([]*image.RGBA, 0, count)
	for i := 0; i < count; i++ {
		top := b.Min.Y + i*pageHeightPx
		bottom := top + pageHeightPx
		if bottom > b.Max.Y {
			bottom = b.Max.Y
		}
		pages = append(pages, raster.SubImage(image.Rect(b.Min.X, top, b.Max.X, bottom)).(*image.RGBA))
	}
	return pages, nil
}
