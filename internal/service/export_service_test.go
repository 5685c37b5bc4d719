package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"

	"github.com/mamunbiswass/school-management/internal/dto"
	"github.com/mamunbiswass/school-management/internal/model"
)

// ── 测试辅助 ──

func setupTestExportService() (ExportService, *testEnv, StudentService, TimetableService) {
	env := newTestEnv()
	env.classes.add("5", "A")
	students := newStudentServiceAt(env)
	timetable := NewTimetableService(env.cfg, env.repo, testLogger)
	svc := NewExportService(env.cfg, students, timetable, testLogger)
	svc.(*exportService).now = func() time.Time {
		return time.Date(2024, 6, 19, 8, 0, 0, 0, time.UTC)
	}
	return svc, env, students, timetable
}

func openXLSX(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("无法解析导出的 xlsx: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

// ── ExportStudents 测试 ──

func TestExportService_ExportStudents(t *testing.T) {
	svc, _, students, _ := setupTestExportService()
	ctx := context.Background()

	if _, err := students.Create(ctx, studentRequest("012345678901", "12"), nil); err != nil {
		t.Fatalf("创建学生失败: %v", err)
	}

	res, err := svc.ExportStudents(ctx, &dto.StudentListRequest{ClassName: "5", Section: "A"})
	if err != nil {
		t.Fatalf("ExportStudents 应成功: %v", err)
	}
	if res.Filename != "students_5A.xlsx" || res.ContentType != contentTypeXLSX {
		t.Errorf("文件信息错误: %s %s", res.Filename, res.ContentType)
	}

	f := openXLSX(t, res.Data)
	rows, err := f.GetRows("Students")
	if err != nil {
		t.Fatalf("读取 Students sheet 失败: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("期望表头 + 1 行，实际 %d 行", len(rows))
	}
	if rows[0][0] != "Admission No" || rows[1][0] != "EKS20245A12" {
		t.Errorf("首列内容错误: %v / %v", rows[0], rows[1])
	}
	// 前导零不应丢失
	if rows[1][1] != "012345678901" {
		t.Errorf("身份号码应按文本写入，实际=%s", rows[1][1])
	}
}

func TestExportService_ExportStudents_Empty(t *testing.T) {
	svc, _, _, _ := setupTestExportService()

	if _, err := svc.ExportStudents(context.Background(), &dto.StudentListRequest{}); !errors.Is(err, ErrExportNoStudents) {
		t.Errorf("期望 ErrExportNoStudents，实际: %v", err)
	}
}

// ── ExportTimetable 测试 ──

func seedTimetable(t *testing.T, env *testEnv, timetable TimetableService) {
	t.Helper()
	ctx := context.Background()
	teacher := &model.Teacher{Name: "Anita Ghosh"}
	_ = env.teachers.Create(ctx, teacher)
	subject := &model.Subject{Name: "Maths", ClassID: 1}
	_ = env.subjects.Create(ctx, subject)

	maths := periodRequest("Monday", "09:00", "09:45")
	maths.SubjectID = int64Ptr(subject.ID)
	maths.TeacherID = int64Ptr(teacher.ID)
	for _, req := range []*dto.CreatePeriodRequest{maths, periodRequest("Wednesday", "10:00", "10:45")} {
		if _, err := timetable.AddPeriod(ctx, req); err != nil {
			t.Fatalf("AddPeriod 失败: %v", err)
		}
	}
}

func TestExportService_ExportTimetable_XLSX(t *testing.T) {
	svc, env, _, timetable := setupTestExportService()
	seedTimetable(t, env, timetable)

	res, err := svc.ExportTimetable(context.Background(), "5", "A", &dto.TimetableExportRequest{})
	if err != nil {
		t.Fatalf("ExportTimetable 应成功: %v", err)
	}
	if res.Filename != "timetable_5A.xlsx" {
		t.Errorf("文件名错误: %s", res.Filename)
	}

	f := openXLSX(t, res.Data)
	tests := []struct {
		cell string
		want string
	}{
		{"A2", "Time"},
		{"B2", "Monday"},
		{"G2", "Saturday"},
		{"A3", "9:00 AM - 9:45 AM"},
		{"B3", "Maths (Anita Ghosh)"},
		{"A4", "10:00 AM - 10:45 AM"},
		{"D4", "-"},
	}
	for _, tt := range tests {
		got, err := f.GetCellValue("Timetable", tt.cell)
		if err != nil {
			t.Fatalf("读取 %s 失败: %v", tt.cell, err)
		}
		if got != tt.want {
			t.Errorf("%s 期望 %q，实际 %q", tt.cell, tt.want, got)
		}
	}
}

func TestExportService_ExportTimetable_ICS(t *testing.T) {
	svc, env, _, timetable := setupTestExportService()
	seedTimetable(t, env, timetable)

	res, err := svc.ExportTimetable(context.Background(), "5", "A", &dto.TimetableExportRequest{Format: "ics", From: "2024-06-19"})
	if err != nil {
		t.Fatalf("ExportTimetable 应成功: %v", err)
	}
	if res.Filename != "timetable_5A.ics" || !strings.HasPrefix(res.ContentType, "text/calendar") {
		t.Errorf("文件信息错误: %s %s", res.Filename, res.ContentType)
	}

	cal, err := ics.ParseCalendar(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("无法解析导出的 ics: %v", err)
	}
	events := cal.Events()
	if len(events) != 2 {
		t.Fatalf("期望 2 个事件，实际 %d", len(events))
	}

	first := events[0]
	if p := first.GetProperty(ics.ComponentPropertySummary); p == nil || p.Value != "Maths" {
		t.Errorf("事件标题错误: %+v", p)
	}
	if p := first.GetProperty(ics.ComponentPropertyRrule); p == nil || p.Value != "FREQ=WEEKLY" {
		t.Errorf("事件应按周重复: %+v", p)
	}

	// 2024-06-19 为周三，首次发生在当周周一
	start, err := first.GetStartAt()
	if err != nil {
		t.Fatalf("读取开始时间失败: %v", err)
	}
	loc := env.cfg.School.Location()
	want := time.Date(2024, 6, 17, 9, 0, 0, 0, loc)
	if !start.Equal(want) {
		t.Errorf("开始时间期望 %s，实际 %s", want, start)
	}

	second := events[1]
	if p := second.GetProperty(ics.ComponentPropertySummary); p == nil || p.Value != "Period" {
		t.Errorf("未关联科目的节次标题应为 Period: %+v", p)
	}
}

func TestExportService_ExportTimetable_Empty(t *testing.T) {
	svc, _, _, _ := setupTestExportService()

	_, err := svc.ExportTimetable(context.Background(), "5", "A", &dto.TimetableExportRequest{})
	if !errors.Is(err, ErrTimetableEmpty) {
		t.Errorf("期望 ErrTimetableEmpty，实际: %v", err)
	}
}

func TestMondayOf(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2024, 6, 17, 15, 0, 0, 0, time.UTC), "2024-06-17"}, // 周一
		{time.Date(2024, 6, 22, 9, 0, 0, 0, time.UTC), "2024-06-17"},  // 周六
		{time.Date(2024, 6, 23, 9, 0, 0, 0, time.UTC), "2024-06-17"},  // 周日
	}
	for _, tt := range tests {
		if got := mondayOf(tt.in).Format(dateFormat); got != tt.want {
			t.Errorf("mondayOf(%s) 期望 %s，实际 %s", tt.in.Format(dateFormat), tt.want, got)
		}
	}
}
