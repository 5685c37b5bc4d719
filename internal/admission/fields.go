package admission

import (
	"strings"
	"time"
)

// 表单字段名（与学生创建接口的表单字段一致）
const (
	FieldUID              = "uid"
	FieldName             = "name"
	FieldGender           = "gender"
	FieldDOB              = "dob"
	FieldClassName        = "class_name"
	FieldSection          = "section"
	FieldRoll             = "roll"
	FieldAddress          = "address"
	FieldFather           = "father"
	FieldMother           = "mother"
	FieldPhone            = "phone"
	FieldEmail            = "email"
	FieldBloodGroup       = "blood_group"
	FieldEmergencyContact = "emergency_contact"
	FieldHealthInfo       = "health_info"
	FieldCaste            = "caste"
	FieldReligion         = "religion"
	FieldMotherTongue     = "mother_tongue"
	FieldHobbies          = "hobbies"
)

// UIDLength 身份号码长度
const UIDLength = 12

// stepFields 每一步包含的字段，顺序即字段应用顺序
var stepFields = map[Step][]string{
	StepBasic:    {FieldUID, FieldName, FieldGender, FieldDOB, FieldClassName, FieldSection, FieldRoll, FieldAddress},
	StepGuardian: {FieldFather, FieldMother, FieldPhone, FieldEmail, FieldBloodGroup, FieldEmergencyContact, FieldHealthInfo},
	StepOther:    {FieldCaste, FieldReligion, FieldMotherTongue, FieldHobbies},
}

var requiredFields = map[Step][]string{
	StepBasic:    {FieldUID, FieldName, FieldGender, FieldDOB, FieldClassName, FieldSection, FieldAddress},
	StepGuardian: {FieldPhone},
}

// Options 下拉字段的可选值
var Options = map[string][]string{
	FieldGender:       {"Male", "Female", "Other"},
	FieldBloodGroup:   {"A+", "A-", "B+", "B-", "O+", "O-", "AB+", "AB-"},
	FieldCaste:        {"General", "OBC", "SC", "ST", "Minority"},
	FieldReligion:     {"Hindu", "Muslim", "Christian", "Sikh", "Other"},
	FieldMotherTongue: {"Bengali", "Hindi", "English", "Tamil", "Other"},
}

// FieldOrder 全部字段的固定顺序
func FieldOrder() []string {
	out := make([]string, 0, 20)
	for _, s := range []Step{StepBasic, StepGuardian, StepOther} {
		out = append(out, stepFields[s]...)
	}
	return out
}

// StepOf 返回字段所在步骤，未知字段返回 0
func StepOf(field string) Step {
	for s, fields := range stepFields {
		for _, f := range fields {
			if f == field {
				return s
			}
		}
	}
	return 0
}

// IsValidUID 12 位纯数字
func IsValidUID(uid string) bool {
	if len(uid) != UIDLength {
		return false
	}
	for _, r := range uid {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// invalidFields 返回某一步中缺失或格式不正确的字段
func invalidFields(step Step, form map[string]string) []string {
	var bad []string
	for _, f := range requiredFields[step] {
		if strings.TrimSpace(form[f]) == "" {
			bad = append(bad, f)
		}
	}
	for _, f := range stepFields[step] {
		v := form[f]
		if v == "" || contains(bad, f) {
			continue
		}
		if !validValue(f, v) {
			bad = append(bad, f)
		}
	}
	return bad
}

func validValue(field, value string) bool {
	switch field {
	case FieldUID:
		return IsValidUID(value)
	case FieldDOB:
		_, err := time.Parse("2006-01-02", value)
		return err == nil
	}
	if opts, ok := Options[field]; ok {
		return contains(opts, value)
	}
	return true
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
