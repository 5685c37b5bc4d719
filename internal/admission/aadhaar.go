package admission

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"time"
)

// ErrInvalidQR 二维码内容不是可识别的 Aadhaar 打印信函数据
var ErrInvalidQR = errors.New("无效的 Aadhaar 二维码")

const aadhaarElement = "PrintLetterBarcodeData"

// AadhaarIdentity 从 Aadhaar 二维码中提取的身份信息
type AadhaarIdentity struct {
	UID     string
	Name    string
	DOB     string // yyyy-mm-dd，无法识别时为空
	Gender  string // Male / Female / Other
	Address string
}

// Fields 转为表单字段，只包含非空值
func (a AadhaarIdentity) Fields() map[string]string {
	out := make(map[string]string, 5)
	put := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	put(FieldUID, a.UID)
	put(FieldName, a.Name)
	put(FieldDOB, a.DOB)
	put(FieldGender, a.Gender)
	put(FieldAddress, a.Address)
	return out
}

// ParseAadhaarQR 解析二维码中的 XML 负载
// 查找第一个 PrintLetterBarcodeData 元素并读取其属性
func ParseAadhaarQR(payload string) (AadhaarIdentity, error) {
	dec := xml.NewDecoder(strings.NewReader(strings.TrimSpace(payload)))
	dec.Strict = false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return AadhaarIdentity{}, ErrInvalidQR
		}
		if err != nil {
			return AadhaarIdentity{}, ErrInvalidQR
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != aadhaarElement {
			continue
		}

		attrs := make(map[string]string, len(start.Attr))
		for _, a := range start.Attr {
			attrs[a.Name.Local] = strings.TrimSpace(a.Value)
		}

		id := AadhaarIdentity{
			UID:     strings.ReplaceAll(attrs["uid"], " ", ""),
			Name:    attrs["name"],
			DOB:     normalizeDOB(attrs["dob"]),
			Gender:  mapGender(attrs["gender"]),
			Address: joinAddress(attrs),
		}
		if id.UID == "" && id.Name == "" {
			return AadhaarIdentity{}, ErrInvalidQR
		}
		return id, nil
	}
}

func mapGender(g string) string {
	switch strings.ToUpper(g) {
	case "M", "MALE":
		return "Male"
	case "F", "FEMALE":
		return "Female"
	default:
		return "Other"
	}
}

// normalizeDOB 支持 dd/mm/yyyy、dd-mm-yyyy 与 yyyy-mm-dd
func normalizeDOB(s string) string {
	for _, layout := range []string{"02/01/2006", "02-01-2006", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

func joinAddress(attrs map[string]string) string {
	keys := []string{"house", "street", "lm", "loc", "vtc", "po", "subdist", "dist", "state", "pc"}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if v := attrs[k]; v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}
