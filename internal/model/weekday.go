package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Weekdays 课表使用的固定星期顺序（周一至周六）
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// WeekdayIndex 返回星期在固定顺序中的位置，未知值返回 -1
func WeekdayIndex(day string) int {
	for i, d := range Weekdays {
		if d == day {
			return i
		}
	}
	return -1
}

// DayOrderSQL 生成按固定星期顺序排序的 SQL 表达式
func DayOrderSQL(column string) string {
	var b strings.Builder
	b.WriteString("CASE ")
	b.WriteString(column)
	for i, d := range Weekdays {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", d, i+1)
	}
	fmt.Fprintf(&b, " ELSE %d END", len(Weekdays)+1)
	return b.String()
}

// ── 时间格式 ──

// ParseClock 解析 HH:MM 或 HH:MM:SS（可带小数秒），返回自零点起的秒数
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) == 3 {
		if i := strings.IndexByte(parts[2], '.'); i >= 0 {
			parts[2] = parts[2][:i]
		}
	}
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("无效的时间 %q", s)
	}
	limits := []int{23, 59, 59}
	values := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || len(p) > 2 || n < 0 || n > limits[i] {
			return 0, fmt.Errorf("无效的时间 %q", s)
		}
		values[i] = n
	}
	return values[0]*3600 + values[1]*60 + values[2], nil
}

// NormalizeClock 统一为 HH:MM:SS，无法解析时原样返回
func NormalizeClock(s string) string {
	secs, err := ParseClock(s)
	if err != nil {
		return s
	}
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
}

// FormatClock 转为 12 小时制，如 "09:05:00" → "9:05 AM"
func FormatClock(s string) string {
	secs, err := ParseClock(s)
	if err != nil {
		return s
	}
	h, m := secs/3600, secs%3600/60
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, m, suffix)
}
