package document

import "image"

const (
	formMarginMM   = 12.0
	formMaxPages   = 3
	formLabelColMM = 48.0
	formPhotoW     = 35.0
	formPhotoH     = 45.0
)

// formRow 登记表中的一行 "标签: 值"
type formRow struct {
	label string
	value string
}

type formSection struct {
	title string
	rows  []formRow
}

func admissionSections(st Student) []formSection {
	return []formSection{
		{
			title: "Basic & Academic Details",
			rows: []formRow{
				{"Aadhaar No.", st.UID},
				{"Student Name", st.Name},
				{"Gender", st.Gender},
				{"Date of Birth", formatDOB(st.DOB)},
				{"Class", st.ClassName},
				{"Section", st.Section},
				{"Roll No.", st.Roll},
				{"Address", st.Address},
			},
		},
		{
			title: "Parent / Guardian Details",
			rows: []formRow{
				{"Father's Name", st.Father},
				{"Mother's Name", st.Mother},
				{"Phone", st.Phone},
				{"Email", st.Email},
			},
		},
		{
			title: "Other Information",
			rows: []formRow{
				{"Blood Group", st.BloodGroup},
				{"Emergency Contact", st.EmergencyContact},
				{"Health Information", st.HealthInfo},
				{"Caste", st.Caste},
				{"Religion", st.Religion},
				{"Mother Tongue", st.MotherTongue},
				{"Hobbies", st.Hobbies},
			},
		},
	}
}

// formCursor 纵向排版游标，超出画布即报错
type formCursor struct {
	c *canvas
	y float64
}

func (fc *formCursor) reserve(h float64) error {
	if fc.y+h > float64(fc.c.img.Bounds().Dy())/fc.c.pxPerMM-formMarginMM {
		return ErrContentOverflow
	}
	return nil
}

// drawAdmissionForm 绘制入学登记表，画布高度为内容高度（至少一页）
func drawAdmissionForm(pxPerMM float64, fs *faceSet, assets assetSet, school School, st Student) (*image.RGBA, error) {
	c := newCanvas(PageWidthMM, PageHeightMM*formMaxPages, pxPerMM)
	fc := &formCursor{c: c, y: formMarginMM}
	contentW := PageWidthMM - 2*formMarginMM

	// ── 抬头 ──
	c.logo(assets[assetLogo], fs.tiny, formMarginMM, fc.y, 22, 22)
	textX := formMarginMM + 26
	textW := contentW - 26
	c.text(fs.title, textX, fc.y+7, c.fitText(fs.title, school.Name, textW), colorBrand)
	line := fc.y + 13
	for _, s := range []string{school.Address, joinNonEmpty(" | ", labelled("Phone", school.Phone), labelled("Email", school.Email))} {
		if s == "" {
			continue
		}
		c.text(fs.small, textX, line, c.fitText(fs.small, s, textW), colorMuted)
		line += c.lineHeight(fs.small)
	}
	fc.y += 26
	c.fillRect(formMarginMM, fc.y, contentW, 0.6, colorBrand)
	fc.y += 9

	c.textCentered(fs.heading, formMarginMM, contentW, fc.y, "STUDENT ADMISSION FORM", colorInk)
	fc.y += 6

	// ── 编号与照片 ──
	photoX := PageWidthMM - formMarginMM - formPhotoW
	c.photo(assets[assetPhoto], fs.small, photoX, fc.y, formPhotoW, formPhotoH, "PHOTO")
	c.strokeRect(photoX, fc.y, formPhotoW, formPhotoH, 0.3, colorRule)

	infoY := fc.y + 8
	c.text(fs.label, formMarginMM, infoY, "Admission No.:", colorInk)
	c.text(fs.body, formMarginMM+formLabelColMM, infoY, st.AdmissionNo, colorInk)
	infoY += 7
	c.text(fs.label, formMarginMM, infoY, "Admission Date:", colorInk)
	c.text(fs.body, formMarginMM+formLabelColMM, infoY, st.AdmittedAt.Format("02/01/2006"), colorInk)
	fc.y += formPhotoH + 6

	// ── 各分区 ──
	valueX := formMarginMM + formLabelColMM
	valueW := contentW - formLabelColMM
	bodyLH := c.lineHeight(fs.body) + 1.2

	for _, sec := range admissionSections(st) {
		if err := fc.reserve(10 + bodyLH); err != nil {
			return nil, err
		}
		c.fillRect(formMarginMM, fc.y, contentW, 7.5, colorBand)
		c.text(fs.label, formMarginMM+2, fc.y+5.3, sec.title, colorBrand)
		fc.y += 7.5 + bodyLH

		for _, row := range sec.rows {
			lines := c.wrap(fs.body, dash(row.value), valueW)
			if err := fc.reserve(bodyLH * float64(len(lines))); err != nil {
				return nil, err
			}
			c.text(fs.label, formMarginMM+2, fc.y, row.label, colorMuted)
			for i, l := range lines {
				c.text(fs.body, valueX, fc.y+float64(i)*bodyLH, l, colorInk)
			}
			fc.y += bodyLH * float64(len(lines))
			c.hline(formMarginMM, fc.y-bodyLH+2, contentW, colorRule)
		}
		fc.y += 4
	}

	// ── 签名栏 ──
	if err := fc.reserve(28); err != nil {
		return nil, err
	}
	fc.y += 18
	sigW := 55.0
	c.hline(formMarginMM, fc.y, sigW, colorInk)
	c.hline(PageWidthMM-formMarginMM-sigW, fc.y, sigW, colorInk)
	fc.y += 5
	c.textCentered(fs.small, formMarginMM, sigW, fc.y, "Parent / Guardian Signature", colorMuted)
	c.textCentered(fs.small, PageWidthMM-formMarginMM-sigW, sigW, fc.y, principalCaption(school.Principal), colorMuted)
	fc.y += formMarginMM

	height := fc.y
	if height < PageHeightMM {
		height = PageHeightMM
	}
	return c.img.SubImage(image.Rect(0, 0, c.img.Bounds().Dx(), c.px(height))).(*image.RGBA), nil
}

func principalCaption(name string) string {
	if name == "" {
		return "Principal Signature"
	}
	return "Principal (" + name + ")"
}

func labelled(label, v string) string {
	if v == "" {
		return ""
	}
	return label + ": " + v
}

func joinNonEmpty(sep string, parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += sep
		}
		out += p
	}
	return out
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
