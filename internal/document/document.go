package document

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
)

// A4 纸张尺寸（毫米）
const (
	PageWidthMM  = 210.0
	PageHeightMM = 297.0
)

var (
	ErrUnknownKind     = errors.New("未知的文档类型")
	ErrNoStudents      = errors.New("没有可生成证件的学生")
	ErrContentOverflow = errors.New("文档内容超出最大页数")
)

// Kind 文档类型
type Kind string

const (
	KindAdmissionForm Kind = "admission-form"
	KindIDCard        Kind = "id-card"
)

// ParseKind 解析文档类型
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindAdmissionForm, KindIDCard:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKind, s)
}

// Mode 输出方式
type Mode string

const (
	ModeDownload Mode = "download" // 作为附件下载
	ModePrint    Mode = "print"    // 浏览器内打开并自动弹出打印
)

// ParseMode 解析输出方式，未识别时按下载处理
func ParseMode(s string) Mode {
	if Mode(s) == ModePrint {
		return ModePrint
	}
	return ModeDownload
}

// School 渲染所需的学校信息
type School struct {
	Name      string
	Address   string
	Phone     string
	Email     string
	Principal string
	Logo      string // 存储路径，空表示无
}

// Student 渲染所需的学生信息
type Student struct {
	AdmissionNo      string
	UID              string
	Name             string
	Gender           string
	DOB              *time.Time
	Address          string
	ClassName        string
	Section          string
	Roll             string
	Father           string
	Mother           string
	Phone            string
	Email            string
	BloodGroup       string
	EmergencyContact string
	HealthInfo       string
	Caste            string
	Religion         string
	MotherTongue     string
	Hobbies          string
	Photo            string // 存储路径，空表示无
	AdmittedAt       time.Time
}

// ImageSource 按存储路径读取图片
type ImageSource interface {
	Open(path string) (io.ReadCloser, error)
}

// Options 渲染参数
type Options struct {
	PixelsPerMM float64
}

// Result 渲染结果
type Result struct {
	Data     []byte
	Pages    int
	Filename string
	Inline   bool
}

// Renderer 文档渲染器：离屏绘制 → 等待图片加载 → 光栅化 → 分页 → 组装 PDF
// 可被多个请求并发使用
type Renderer struct {
	images  ImageSource
	pxPerMM float64
	fonts   *fontLibrary
	logger  *zap.Logger
}

// NewRenderer 创建渲染器
func NewRenderer(images ImageSource, opts Options, logger *zap.Logger) (*Renderer, error) {
	if opts.PixelsPerMM <= 0 {
		return nil, fmt.Errorf("pixels_per_mm 必须大于 0")
	}
	fonts, err := loadFontLibrary()
	if err != nil {
		return nil, err
	}
	return &Renderer{images: images, pxPerMM: opts.PixelsPerMM, fonts: fonts, logger: logger}, nil
}

// Render 生成单个学生的入学登记表或学生证
func (r *Renderer) Render(ctx context.Context, kind Kind, school School, student Student, mode Mode) (*Result, error) {
	assets, err := r.loadAssets(ctx, map[string]string{
		assetLogo:  school.Logo,
		assetPhoto: student.Photo,
	})
	if err != nil {
		return nil, err
	}

	faces, err := r.fonts.faces(r.pxPerMM)
	if err != nil {
		return nil, err
	}
	defer faces.close()

	var (
		raster   *image.RGBA
		place    placement
		filename string
	)
	switch kind {
	case KindAdmissionForm:
		raster, err = drawAdmissionForm(r.pxPerMM, faces, assets, school, student)
		place = placement{}
		filename = "admission-form-" + safeName(student.AdmissionNo) + ".pdf"
	case KindIDCard:
		raster, err = drawIDCard(r.pxPerMM, faces, assets, school, student)
		place = placement{X: (PageWidthMM - cardWidthMM) / 2, Y: 20}
		filename = "id-card-" + safeName(student.AdmissionNo) + ".pdf"
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	if err != nil {
		return nil, err
	}

	return r.finish(raster, place, mode, filename, string(kind)+" "+student.AdmissionNo)
}

// RenderIDCards 将多名学生的学生证排版到 A4 页面上
func (r *Renderer) RenderIDCards(ctx context.Context, school School, students []Student, mode Mode) (*Result, error) {
	if len(students) == 0 {
		return nil, ErrNoStudents
	}

	refs := map[string]string{assetLogo: school.Logo}
	for i, st := range students {
		refs[photoKey(i)] = st.Photo
	}
	assets, err := r.loadAssets(ctx, refs)
	if err != nil {
		return nil, err
	}

	faces, err := r.fonts.faces(r.pxPerMM)
	if err != nil {
		return nil, err
	}
	defer faces.close()

	raster, err := drawIDCardSheet(r.pxPerMM, faces, assets, school, students)
	if err != nil {
		return nil, err
	}
	return r.finish(raster, placement{}, mode, "id-cards.pdf", "id-cards")
}

// finish 分页并组装 PDF，成功前不产生任何输出
func (r *Renderer) finish(raster *image.RGBA, place placement, mode Mode, filename, title string) (*Result, error) {
	pageHeightPx := mmToPx(PageHeightMM-place.Y, r.pxPerMM)
	pages, err := Paginate(raster, pageHeightPx)
	if err != nil {
		return nil, err
	}

	data, err := assemblePDF(pages, place, r.pxPerMM, mode, title)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("文档生成完成",
		zap.String("file", filename),
		zap.Int("pages", len(pages)),
		zap.Int("bytes", len(data)),
	)
	return &Result{Data: data, Pages: len(pages), Filename: filename, Inline: mode == ModePrint}, nil
}

func safeName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
	if s == "" {
		return "student"
	}
	return s
}

func mmToPx(mm, pxPerMM float64) int {
	return int(mm*pxPerMM + 0.5)
}
