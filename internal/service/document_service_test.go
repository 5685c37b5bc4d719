package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mamunbiswass/school-management/internal/document"
	"github.com/mamunbiswass/school-management/internal/dto"
	"github.com/mamunbiswass/school-management/internal/model"
)

// ── Mock DocumentRenderer ──

type mockRenderer struct {
	kind     document.Kind
	mode     document.Mode
	school   document.School
	students []document.Student
	err      error
}

func (m *mockRenderer) Render(_ context.Context, kind document.Kind, school document.School, student document.Student, mode document.Mode) (*document.Result, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.kind, m.mode, m.school, m.students = kind, mode, school, []document.Student{student}
	return &document.Result{Data: []byte("%PDF-1.3"), Pages: 1, Filename: string(kind) + ".pdf", Inline: mode == document.ModePrint}, nil
}

func (m *mockRenderer) RenderIDCards(_ context.Context, school document.School, students []document.Student, mode document.Mode) (*document.Result, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.kind, m.mode, m.school, m.students = document.KindIDCard, mode, school, students
	return &document.Result{Data: []byte("%PDF-1.3"), Pages: 1, Filename: "id-cards.pdf"}, nil
}

func setupTestDocumentService() (DocumentService, *testEnv, *mockRenderer) {
	env := newTestEnv()
	renderer := &mockRenderer{}
	return NewDocumentService(env.cfg, env.repo, renderer, testLogger), env, renderer
}

func seedStudent(env *testEnv, photo string) *model.Student {
	class := env.classes.add("5", "A")
	st := &model.Student{UID: "123456789012", AdmissionNo: "EKS20245A12", Name: "Riya Sharma", ClassID: class.ID}
	if photo != "" {
		st.Photo = &photo
	}
	_ = env.students.Create(context.Background(), st)
	return st
}

func TestDocumentService_RenderStudent(t *testing.T) {
	svc, env, renderer := setupTestDocumentService()
	st := seedStudent(env, "uploads//students/riya.png")
	logo := "school/logo.png"
	_ = env.schools.Create(context.Background(), &model.School{Name: "Elite Knowledge School", Logo: &logo})

	res, err := svc.RenderStudent(context.Background(), st.ID, "admission-form", &dto.DocumentRequest{Mode: "print"})
	if err != nil {
		t.Fatalf("RenderStudent 应成功: %v", err)
	}
	if res.ContentType != "application/pdf" || !res.Inline {
		t.Errorf("响应格式错误: %+v", res)
	}
	if renderer.kind != document.KindAdmissionForm || renderer.mode != document.ModePrint {
		t.Errorf("渲染参数错误: kind=%s mode=%s", renderer.kind, renderer.mode)
	}

	got := renderer.students[0]
	if got.Photo != "/uploads/students/riya.png" {
		t.Errorf("照片路径应规范化，实际=%s", got.Photo)
	}
	if got.ClassName != "5" || got.Section != "A" {
		t.Errorf("班级信息错误: %s-%s", got.ClassName, got.Section)
	}
	if renderer.school.Logo != "/school/logo.png" {
		t.Errorf("logo 路径应规范化，实际=%s", renderer.school.Logo)
	}
}

func TestDocumentService_RenderStudent_DefaultSchool(t *testing.T) {
	svc, env, renderer := setupTestDocumentService()
	st := seedStudent(env, "")

	if _, err := svc.RenderStudent(context.Background(), st.ID, "id-card", &dto.DocumentRequest{}); err != nil {
		t.Fatalf("RenderStudent 应成功: %v", err)
	}
	if renderer.school.Name != "Elite Knowledge School" {
		t.Errorf("未录入学校时应使用默认名称，实际=%s", renderer.school.Name)
	}
	if renderer.mode != document.ModeDownload {
		t.Errorf("默认应为下载模式，实际=%s", renderer.mode)
	}
}

func TestDocumentService_RenderStudent_Errors(t *testing.T) {
	svc, env, renderer := setupTestDocumentService()
	st := seedStudent(env, "")
	ctx := context.Background()

	if _, err := svc.RenderStudent(ctx, st.ID, "report-card", &dto.DocumentRequest{}); !errors.Is(err, ErrDocumentKindInvalid) {
		t.Errorf("期望 ErrDocumentKindInvalid，实际: %v", err)
	}
	if _, err := svc.RenderStudent(ctx, 999, "id-card", &dto.DocumentRequest{}); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("期望 ErrStudentNotFound，实际: %v", err)
	}

	renderer.err = document.ErrContentOverflow
	if _, err := svc.RenderStudent(ctx, st.ID, "id-card", &dto.DocumentRequest{}); !errors.Is(err, document.ErrContentOverflow) {
		t.Errorf("渲染失败应原样返回，实际: %v", err)
	}
}

func TestDocumentService_RenderAllIDCards(t *testing.T) {
	svc, env, renderer := setupTestDocumentService()
	ctx := context.Background()

	if _, err := svc.RenderAllIDCards(ctx, &dto.DocumentRequest{}); !errors.Is(err, ErrDocumentNoStudents) {
		t.Errorf("无学生时期望 ErrDocumentNoStudents，实际: %v", err)
	}

	seedStudent(env, "")
	second := &model.Student{UID: "123456789013", AdmissionNo: "EKS20245A13", Name: "Arjun Roy", ClassID: 1}
	_ = env.students.Create(ctx, second)

	res, err := svc.RenderAllIDCards(ctx, &dto.DocumentRequest{})
	if err != nil {
		t.Fatalf("RenderAllIDCards 应成功: %v", err)
	}
	if res.Filename != "id-cards.pdf" {
		t.Errorf("文件名错误: %s", res.Filename)
	}
	if len(renderer.students) != 2 {
		t.Errorf("期望 2 张学生证，实际 %d", len(renderer.students))
	}
}
