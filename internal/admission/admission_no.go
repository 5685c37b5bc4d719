package admission

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// GenerateAdmissionNo 生成入学编号：
// 学校名各单词首字母大写 + 年份 + 班级 + 分班 + 学号（学号为空时省略）
//
//	GenerateAdmissionNo("Elite Knowledge School", 2024, "5", "A", "12") == "EKS20245A12"
func GenerateAdmissionNo(schoolName string, year int, className, section, roll string) string {
	var b strings.Builder
	for _, word := range strings.Fields(schoolName) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
	}
	b.WriteString(strconv.Itoa(year))
	b.WriteString(strings.TrimSpace(className))
	b.WriteString(strings.TrimSpace(section))
	b.WriteString(strings.TrimSpace(roll))
	return b.String()
}

// WithSuffix 编号冲突时追加序号，如 EKS20245A12-2
func WithSuffix(base string, n int) string {
	if n <= 1 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}
