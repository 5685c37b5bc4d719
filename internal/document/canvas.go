package document

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

var (
	colorWhite   = color.RGBA{0xff, 0xff, 0xff, 0xff}
	colorInk     = color.RGBA{0x1f, 0x29, 0x37, 0xff}
	colorMuted   = color.RGBA{0x6b, 0x72, 0x80, 0xff}
	colorRule    = color.RGBA{0xd1, 0xd5, 0xdb, 0xff}
	colorBrand   = color.RGBA{0x1e, 0x40, 0xaf, 0xff}
	colorBand    = color.RGBA{0xe0, 0xe7, 0xff, 0xff}
	colorHolder  = color.RGBA{0xe5, 0xe7, 0xeb, 0xff}
	colorHolderT = color.RGBA{0x9c, 0xa3, 0xaf, 0xff}
)

// canvas 以毫米为坐标单位的离屏画布
type canvas struct {
	img     *image.RGBA
	pxPerMM float64
}

func newCanvas(widthMM, heightMM, pxPerMM float64) *canvas {
	img := image.NewRGBA(image.Rect(0, 0, mmToPx(widthMM, pxPerMM), mmToPx(heightMM, pxPerMM)))
	draw.Draw(img, img.Bounds(), image.NewUniform(colorWhite), image.Point{}, draw.Src)
	return &canvas{img: img, pxPerMM: pxPerMM}
}

func (c *canvas) px(mm float64) int {
	return mmToPx(mm, c.pxPerMM)
}

func (c *canvas) rect(x, y, w, h float64) image.Rectangle {
	return image.Rect(c.px(x), c.px(y), c.px(x+w), c.px(y+h))
}

func (c *canvas) fillRect(x, y, w, h float64, col color.Color) {
	draw.Draw(c.img, c.rect(x, y, w, h), image.NewUniform(col), image.Point{}, draw.Src)
}

// strokeRect 绘制矩形边框，线宽单位毫米
func (c *canvas) strokeRect(x, y, w, h, line float64, col color.Color) {
	c.fillRect(x, y, w, line, col)
	c.fillRect(x, y+h-line, w, line, col)
	c.fillRect(x, y, line, h, col)
	c.fillRect(x+w-line, y, line, h, col)
}

func (c *canvas) hline(x, y, w float64, col color.Color) {
	c.fillRect(x, y, w, 0.25, col)
}

// text 在基线 y 处绘制文本
func (c *canvas) text(face font.Face, x, y float64, s string, col color.Color) {
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(c.px(x), c.px(y)),
	}
	d.DrawString(s)
}

// textCentered 在 [x, x+w] 区间内水平居中绘制
func (c *canvas) textCentered(face font.Face, x, w, y float64, s string, col color.Color) {
	width := float64(font.MeasureString(face, s).Round()) / c.pxPerMM
	c.text(face, x+(w-width)/2, y, s, col)
}

// lineHeight 字形行高（毫米）
func (c *canvas) lineHeight(face font.Face) float64 {
	return float64(face.Metrics().Height.Round()) / c.pxPerMM
}

// wrap 按宽度折行，单词超长时强制截断
func (c *canvas) wrap(face font.Face, s string, widthMM float64) []string {
	maxPx := c.px(widthMM)
	fits := func(t string) bool { return font.MeasureString(face, t).Round() <= maxPx }

	var lines []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		cur := ""
		for _, w := range words {
			cand := w
			if cur != "" {
				cand = cur + " " + w
			}
			if fits(cand) {
				cur = cand
				continue
			}
			if cur != "" {
				lines = append(lines, cur)
			}
			for !fits(w) && len(w) > 1 {
				cut := len(w) - 1
				for cut > 1 && !fits(w[:cut]) {
					cut--
				}
				lines = append(lines, w[:cut])
				w = w[cut:]
			}
			cur = w
		}
		lines = append(lines, cur)
	}
	return lines
}

// fitText 单行文本超宽时以省略号截断
func (c *canvas) fitText(face font.Face, s string, widthMM float64) string {
	maxPx := c.px(widthMM)
	if font.MeasureString(face, s).Round() <= maxPx {
		return s
	}
	r := []rune(s)
	for len(r) > 0 {
		r = r[:len(r)-1]
		t := string(r) + "..."
		if font.MeasureString(face, t).Round() <= maxPx {
			return t
		}
	}
	return ""
}

// photo 按框裁剪填充照片，nil 时绘制占位图
func (c *canvas) photo(img image.Image, face font.Face, x, y, w, h float64, label string) {
	r := c.rect(x, y, w, h)
	if img == nil {
		img = placeholder(r.Dx(), r.Dy(), face, label)
	} else {
		img = imaging.Fill(img, r.Dx(), r.Dy(), imaging.Center, imaging.Lanczos)
	}
	draw.Draw(c.img, r, img, image.Point{}, draw.Src)
}

// logo 等比缩放放入框内并居中，nil 时绘制占位图
func (c *canvas) logo(img image.Image, face font.Face, x, y, w, h float64) {
	r := c.rect(x, y, w, h)
	if img == nil {
		draw.Draw(c.img, r, placeholder(r.Dx(), r.Dy(), face, "LOGO"), image.Point{}, draw.Src)
		return
	}
	fitted := imaging.Fit(img, r.Dx(), r.Dy(), imaging.Lanczos)
	b := fitted.Bounds()
	off := image.Pt(r.Min.X+(r.Dx()-b.Dx())/2, r.Min.Y+(r.Dy()-b.Dy())/2)
	draw.Draw(c.img, b.Add(off), fitted, b.Min, draw.Over)
}

func (c *canvas) paste(img image.Image, x, y float64) {
	b := img.Bounds()
	draw.Draw(c.img, b.Sub(b.Min).Add(image.Pt(c.px(x), c.px(y))), img, b.Min, draw.Src)
}

// placeholder 灰底居中文字的占位图
func placeholder(w, h int, face font.Face, label string) image.Image {
	img := imaging.New(w, h, colorHolder)
	if face == nil || label == "" {
		return img
	}
	width := font.MeasureString(face, label).Round()
	m := face.Metrics()
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(colorHolderT),
		Face: face,
		Dot:  fixed.P((w-width)/2, (h+m.Ascent.Round()-m.Descent.Round())/2),
	}
	d.DrawString(label)
	return img
}
