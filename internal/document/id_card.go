package document

import (
	"fmt"
	"image"
	"image/draw"
	"time"

	"github.com/skip2/go-qrcode"
)

// 学生证尺寸（CR80，毫米）
const (
	cardWidthMM  = 85.6
	cardHeightMM = 54.0

	sheetCols  = 2
	sheetRows  = 4
	sheetGapMM = 8.0
)

// drawIDCard 绘制单张学生证
func drawIDCard(pxPerMM float64, fs *faceSet, assets assetSet, school School, st Student) (*image.RGBA, error) {
	return drawCard(pxPerMM, fs, assets[assetLogo], assets[assetPhoto], school, st)
}

func drawCard(pxPerMM float64, fs *faceSet, logo, photo image.Image, school School, st Student) (*image.RGBA, error) {
	c := newCanvas(cardWidthMM, cardHeightMM, pxPerMM)

	// ── 抬头色带 ──
	c.fillRect(0, 0, cardWidthMM, 12, colorBrand)
	c.logo(logo, fs.tiny, 2, 1.5, 9, 9)
	c.text(fs.label, 13, 5.8, c.fitText(fs.label, school.Name, cardWidthMM-15), colorWhite)
	c.text(fs.tiny, 13, 9.6, "STUDENT IDENTITY CARD", colorBand)

	// ── 照片 ──
	c.photo(photo, fs.tiny, 3, 15, 20, 25, "PHOTO")
	c.strokeRect(3, 15, 20, 25, 0.25, colorRule)

	// ── 信息 ──
	textX, textW := 26.0, 40.0
	y := 18.0
	c.text(fs.label, textX, y, c.fitText(fs.label, st.Name, textW), colorInk)
	y += 4.2
	lines := []string{
		"Class: " + classLabel(st.ClassName, st.Section),
		"Roll: " + dash(st.Roll),
		"Adm. No: " + dash(st.AdmissionNo),
		"DOB: " + dash(formatDOB(st.DOB)),
		"Blood Group: " + bloodGroup(st.BloodGroup),
		"Phone: " + dash(st.Phone),
	}
	for _, l := range lines {
		c.text(fs.small, textX, y, c.fitText(fs.small, l, textW), colorInk)
		y += 3.6
	}

	// ── 二维码 ──
	qrX, qrY, qrSize := 68.5, 17.0, 14.0
	if st.AdmissionNo != "" {
		q, err := qrcode.New(st.AdmissionNo, qrcode.Medium)
		if err != nil {
			return nil, fmt.Errorf("生成二维码失败: %w", err)
		}
		q.DisableBorder = true
		size := c.px(qrSize)
		c.paste(q.Image(size), qrX, qrY)
	} else {
		c.photo(nil, fs.tiny, qrX, qrY, qrSize, qrSize, "QR")
	}

	// ── 底栏 ──
	c.fillRect(0, cardHeightMM-6, cardWidthMM, 6, colorBand)
	footer := "If found, please return to " + school.Name
	c.textCentered(fs.tiny, 0, cardWidthMM, cardHeightMM-2, c.fitText(fs.tiny, footer, cardWidthMM-4), colorInk)

	c.strokeRect(0, 0, cardWidthMM, cardHeightMM, 0.3, colorRule)
	return c.img, nil
}

// drawIDCardSheet 每页 2 列 × 4 行排版全部学生证
// 画布高度为页数的整数倍，保证分页恰好落在页边界
func drawIDCardSheet(pxPerMM float64, fs *faceSet, assets assetSet, school School, students []Student) (*image.RGBA, error) {
	perPage := sheetCols * sheetRows
	pageCount := (len(students) + perPage - 1) / perPage
	pageW := mmToPx(PageWidthMM, pxPerMM)
	pageH := mmToPx(PageHeightMM, pxPerMM)

	sheet := image.NewRGBA(image.Rect(0, 0, pageW, pageH*pageCount))
	draw.Draw(sheet, sheet.Bounds(), image.NewUniform(colorWhite), image.Point{}, draw.Src)

	marginX := (PageWidthMM - sheetCols*cardWidthMM - (sheetCols-1)*sheetGapMM) / 2
	marginY := (PageHeightMM - sheetRows*cardHeightMM - (sheetRows-1)*sheetGapMM) / 2

	for i, st := range students {
		card, err := drawCard(pxPerMM, fs, assets[assetLogo], assets[photoKey(i)], school, st)
		if err != nil {
			return nil, err
		}
		page, slot := i/perPage, i%perPage
		col, row := slot%sheetCols, slot/sheetCols
		x := mmToPx(marginX+float64(col)*(cardWidthMM+sheetGapMM), pxPerMM)
		y := page*pageH + mmToPx(marginY+float64(row)*(cardHeightMM+sheetGapMM), pxPerMM)
		b := card.Bounds()
		draw.Draw(sheet, b.Add(image.Pt(x, y)), card, b.Min, draw.Src)
	}
	return sheet, nil
}

func classLabel(name, section string) string {
	switch {
	case name == "":
		return "-"
	case section == "":
		return name
	}
	return name + " - " + section
}

func bloodGroup(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func formatDOB(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}
