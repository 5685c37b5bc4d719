package document

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// fontLibrary 解析后的字体，可并发共享
type fontLibrary struct {
	regular *opentype.Font
	bold    *opentype.Font
}

func loadFontLibrary() (*fontLibrary, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("解析字体失败: %w", err)
	}
	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("解析字体失败: %w", err)
	}
	return &fontLibrary{regular: regular, bold: bold}, nil
}

// faceSet 单次渲染使用的字形集合（font.Face 非并发安全）
type faceSet struct {
	title   font.Face
	heading font.Face
	body    font.Face
	label   font.Face
	small   font.Face
	tiny    font.Face
}

func (l *fontLibrary) faces(pxPerMM float64) (*faceSet, error) {
	dpi := pxPerMM * 25.4
	mk := func(f *opentype.Font, size float64) (font.Face, error) {
		return opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: dpi, Hinting: font.HintingFull})
	}

	specs := []struct {
		dst  *font.Face
		f    *opentype.Font
		size float64
	}{
		{nil, l.bold, 16},
		{nil, l.bold, 11},
		{nil, l.regular, 9.5},
		{nil, l.bold, 9.5},
		{nil, l.regular, 7.5},
		{nil, l.regular, 5.5},
	}
	fs := &faceSet{}
	dsts := []*font.Face{&fs.title, &fs.heading, &fs.body, &fs.label, &fs.small, &fs.tiny}
	for i, s := range specs {
		face, err := mk(s.f, s.size)
		if err != nil {
			fs.close()
			return nil, fmt.Errorf("创建字形失败: %w", err)
		}
		*dsts[i] = face
	}
	return fs, nil
}

func (fs *faceSet) close() {
	for _, f := range []font.Face{fs.title, fs.heading, fs.body, fs.label, fs.small, fs.tiny} {
		if f != nil {
			f.Close()
		}
	}
}
