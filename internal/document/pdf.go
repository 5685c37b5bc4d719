package document

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

// placement 光栅图在每页上的左上角位置（毫米）
type placement struct {
	X float64
	Y float64
}

// assemblePDF 每页放置一张切片，打印模式下嵌入自动打印脚本
func assemblePDF(pages []*image.RGBA, place placement, pxPerMM float64, mode Mode, title string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreator("school-management", true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	for i, page := range pages {
		var buf bytes.Buffer
		if err := png.Encode(&buf, page); err != nil {
			return nil, fmt.Errorf("编码第 %d 页失败: %w", i+1, err)
		}

		name := "page-" + strconv.Itoa(i)
		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		pdf.RegisterImageOptionsReader(name, opts, &buf)

		b := page.Bounds()
		pdf.AddPage()
		pdf.ImageOptions(name, place.X, place.Y,
			float64(b.Dx())/pxPerMM, float64(b.Dy())/pxPerMM,
			false, opts, 0, "")
	}

	if mode == ModePrint {
		pdf.SetJavascript("print(true);")
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("生成 PDF 失败: %w", err)
	}
	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("输出 PDF 失败: %w", err)
	}
	return out.Bytes(), nil
}
