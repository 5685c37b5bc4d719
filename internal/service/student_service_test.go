package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mamunbiswass/school-management/internal/dto"
	"github.com/mamunbiswass/school-management/internal/model"
	"github.com/mamunbiswass/school-management/pkg/storage"
)

// ── 测试辅助 ──

func setupTestStudentService() (StudentService, *testEnv) {
	env := newTestEnv()
	return newStudentServiceAt(env), env
}

func newStudentServiceAt(env *testEnv) StudentService {
	svc := NewStudentService(env.cfg, env.repo, env.files, testLogger)
	svc.(*studentService).now = func() time.Time {
		return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func studentRequest(uid, roll string) *dto.CreateStudentRequest {
	return &dto.CreateStudentRequest{
		UID:       uid,
		Name:      "Riya Sharma",
		Gender:    "Female",
		DOB:       "2014-03-09",
		Address:   "Ward 4, English Bazar",
		ClassName: "5",
		Section:   "A",
		Roll:      roll,
		Father:    "Amit Sharma",
		Phone:     "9800011111",
	}
}

// ── Create 测试 ──

func TestStudentService_Create_AdmissionNo(t *testing.T) {
	svc, env := setupTestStudentService()
	env.classes.add("5", "A")

	resp, err := svc.Create(context.Background(), studentRequest("123456789012", "12"), nil)
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if !resp.Success || resp.ID == 0 {
		t.Errorf("期望返回成功与 ID，实际: %+v", resp)
	}
	// 未录入学校信息时使用默认名称
	if resp.AdmissionNo != "EKS20245A12" {
		t.Errorf("期望 EKS20245A12，实际=%s", resp.AdmissionNo)
	}
}

func TestStudentService_Create_UsesSchoolName(t *testing.T) {
	svc, env := setupTestStudentService()
	env.classes.add("5", "A")
	_ = env.schools.Create(context.Background(), &model.School{Name: "sunrise public school"})

	resp, err := svc.Create(context.Background(), studentRequest("123456789012", ""), nil)
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if resp.AdmissionNo != "SPS20245A" {
		t.Errorf("期望 SPS20245A，实际=%s", resp.AdmissionNo)
	}
}

func TestStudentService_Create_AdmissionNoCollision(t *testing.T) {
	svc, env := setupTestStudentService()
	env.classes.add("5", "A")
	ctx := context.Background()

	first, err := svc.Create(ctx, studentRequest("123456789012", "12"), nil)
	if err != nil {
		t.Fatalf("首次 Create 应成功: %v", err)
	}
	second, err := svc.Create(ctx, studentRequest("123456789013", "12"), nil)
	if err != nil {
		t.Fatalf("第二次 Create 应成功: %v", err)
	}
	if first.AdmissionNo != "EKS20245A12" || second.AdmissionNo != "EKS20245A12-2" {
		t.Errorf("期望 EKS20245A12 / EKS20245A12-2，实际 %s / %s", first.AdmissionNo, second.AdmissionNo)
	}
}

func TestStudentService_Create_CollisionAllowedWhenDisabled(t *testing.T) {
	env := newTestEnv()
	env.cfg.Feature.EnforceUniqueAdmissionNo = false
	svc := newStudentServiceAt(env)
	env.classes.add("5", "A")
	ctx := context.Background()

	first, _ := svc.Create(ctx, studentRequest("123456789012", "12"), nil)
	second, err := svc.Create(ctx, studentRequest("123456789013", "12"), nil)
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if first.AdmissionNo != second.AdmissionNo {
		t.Errorf("关闭唯一性校验时编号应相同，实际 %s / %s", first.AdmissionNo, second.AdmissionNo)
	}
}

func TestStudentService_Create_UIDExists(t *testing.T) {
	svc, env := setupTestStudentService()
	env.classes.add("5", "A")
	ctx := context.Background()

	if _, err := svc.Create(ctx, studentRequest("123456789012", "1"), nil); err != nil {
		t.Fatalf("首次 Create 应成功: %v", err)
	}
	_, err := svc.Create(ctx, studentRequest("123456789012", "2"), fileHeader("photo.png"))
	if !errors.Is(err, ErrStudentUIDExists) {
		t.Errorf("期望 ErrStudentUIDExists，实际: %v", err)
	}
	if len(env.files.files) != 0 {
		t.Error("查重失败时不应保存照片")
	}
	if len(env.students.students) != 1 {
		t.Errorf("不应写入第二条记录，当前数量=%d", len(env.students.students))
	}
}

func TestStudentService_Create_ClassNotFound(t *testing.T) {
	svc, _ := setupTestStudentService()

	_, err := svc.Create(context.Background(), studentRequest("123456789012", "1"), nil)
	if !errors.Is(err, ErrStudentClassNotFound) {
		t.Errorf("期望 ErrStudentClassNotFound，实际: %v", err)
	}
}

func TestStudentService_Create_StorePhoto(t *testing.T) {
	svc, env := setupTestStudentService()
	env.classes.add("5", "A")
	ctx := context.Background()

	created, err := svc.Create(ctx, studentRequest("123456789012", "12"), fileHeader("photo.png"))
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	got, err := svc.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID 应成功: %v", err)
	}
	if !strings.HasPrefix(got.Photo, "/uploads/"+storage.DirStudents+"/") {
		t.Errorf("照片应保存在学生目录，实际=%s", got.Photo)
	}
	if got.PhotoURL != "http://localhost:5000"+got.Photo {
		t.Errorf("PhotoURL 拼接错误: %s", got.PhotoURL)
	}
	if got.ClassName != "5" || got.Section != "A" || got.DOB != "2014-03-09" {
		t.Errorf("返回字段不符合预期: %+v", got)
	}
}

func TestStudentService_Create_InsertFailureDiscardsPhoto(t *testing.T) {
	svc, env := setupTestStudentService()
	env.classes.add("5", "A")
	env.students.createErr = errors.New("connection reset")

	_, err := svc.Create(context.Background(), studentRequest("123456789012", "12"), fileHeader("photo.png"))
	if err == nil {
		t.Fatal("写入失败时应返回错误")
	}
	if len(env.files.files) != 0 {
		t.Errorf("写入失败时应删除已保存的照片，剩余 %v", env.files.files)
	}
}

// ── Admit 测试 ──

func TestStudentService_Admit_MovesStagedPhoto(t *testing.T) {
	svc, env := setupTestStudentService()
	env.classes.add("5", "A")
	staged, _ := env.files.SaveImage(storage.DirDrafts, fileHeader("photo.png"))

	resp, err := svc.Admit(context.Background(), studentRequest("123456789012", "3"), staged)
	if err != nil {
		t.Fatalf("Admit 应成功: %v", err)
	}
	photo := derefString(env.students.students[resp.ID].Photo)
	if !strings.HasPrefix(photo, "/uploads/"+storage.DirStudents+"/") {
		t.Errorf("照片应转存到学生目录，实际=%s", photo)
	}
	if env.files.files[staged] {
		t.Error("草稿目录中的照片应已移走")
	}
}

func TestStudentService_Admit_FailureRestoresPhoto(t *testing.T) {
	svc, env := setupTestStudentService()
	env.classes.add("5", "A")
	env.students.createErr = errors.New("connection reset")
	staged, _ := env.files.SaveImage(storage.DirDrafts, fileHeader("photo.png"))

	if _, err := svc.Admit(context.Background(), studentRequest("123456789012", "3"), staged); err == nil {
		t.Fatal("写入失败时应返回错误")
	}
	if !env.files.files[staged] {
		t.Errorf("写入失败时照片应移回草稿目录，当前 %v", env.files.files)
	}
}

// ── List 测试 ──

func TestStudentService_List_FilterAndOrder(t *testing.T) {
	svc, env := setupTestStudentService()
	env.classes.add("5", "A")
	env.classes.add("6", "A")
	ctx := context.Background()

	_, _ = svc.Create(ctx, studentRequest("100000000001", "1"), nil)
	req := studentRequest("100000000002", "1")
	req.ClassName = "6"
	_, _ = svc.Create(ctx, req, nil)
	_, _ = svc.Create(ctx, studentRequest("100000000003", "2"), nil)

	all, err := svc.List(ctx, &dto.StudentListRequest{})
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(all) != 3 || all[0].ID < all[1].ID || all[1].ID < all[2].ID {
		t.Errorf("期望 3 条且按 ID 倒序，实际 %d 条", len(all))
	}

	five, _ := svc.List(ctx, &dto.StudentListRequest{ClassName: "5"})
	if len(five) != 2 {
		t.Errorf("期望 5 班 2 人，实际 %d", len(five))
	}

	none, _ := svc.List(ctx, &dto.StudentListRequest{ClassName: "10"})
	if none == nil || len(none) != 0 {
		t.Errorf("无匹配班级时应返回空切片，实际 %v", none)
	}
}

// ── Update 测试 ──

func TestStudentService_Update_UIDConflict(t *testing.T) {
	svc, env := setupTestStudentService()
	env.classes.add("5", "A")
	ctx := context.Background()

	_, _ = svc.Create(ctx, studentRequest("100000000001", "1"), nil)
	b, _ := svc.Create(ctx, studentRequest("100000000002", "2"), nil)

	_, err := svc.Update(ctx, b.ID, &dto.UpdateStudentRequest{UID: strPtr("100000000001")}, nil)
	if !errors.Is(err, ErrStudentUIDExists) {
		t.Errorf("期望 ErrStudentUIDExists，实际: %v", err)
	}

	// 保持自身身份号码不视为冲突
	if _, err := svc.Update(ctx, b.ID, &dto.UpdateStudentRequest{UID: strPtr("100000000002")}, nil); err != nil {
		t.Errorf("未修改身份号码时应成功: %v", err)
	}
}

func TestStudentService_Update_KeepsAdmissionNo(t *testing.T) {
	svc, env := setupTestStudentService()
	env.classes.add("5", "A")
	env.classes.add("5", "B")
	ctx := context.Background()

	created, _ := svc.Create(ctx, studentRequest("100000000001", "1"), nil)
	resp, err := svc.Update(ctx, created.ID, &dto.UpdateStudentRequest{Section: strPtr("B"), Roll: strPtr("9")}, nil)
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if resp.Section != "B" || resp.Roll != "9" {
		t.Errorf("期望分班 B 学号 9，实际 %s / %s", resp.Section, resp.Roll)
	}
	if resp.AdmissionNo != created.AdmissionNo {
		t.Errorf("入学编号不应变化: %s → %s", created.AdmissionNo, resp.AdmissionNo)
	}
}

func TestStudentService_Update_ReplacesPhoto(t *testing.T) {
	svc, env := setupTestStudentService()
	env.classes.add("5", "A")
	ctx := context.Background()

	created, _ := svc.Create(ctx, studentRequest("100000000001", "1"), fileHeader("old.png"))
	old := derefString(env.students.students[created.ID].Photo)

	resp, err := svc.Update(ctx, created.ID, &dto.UpdateStudentRequest{}, fileHeader("new.png"))
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if resp.Photo == old {
		t.Error("期望照片路径已替换")
	}
	if env.files.files[old] {
		t.Error("旧照片应被删除")
	}
}

func TestStudentService_Update_ClassNotFound(t *testing.T) {
	svc, env := setupTestStudentService()
	env.classes.add("5", "A")
	ctx := context.Background()

	created, _ := svc.Create(ctx, studentRequest("100000000001", "1"), nil)
	_, err := svc.Update(ctx, created.ID, &dto.UpdateStudentRequest{ClassName: strPtr("11")}, nil)
	if !errors.Is(err, ErrStudentClassNotFound) {
		t.Errorf("期望 ErrStudentClassNotFound，实际: %v", err)
	}
}

// ── Delete 测试 ──

func TestStudentService_Delete_RemovesPhoto(t *testing.T) {
	svc, env := setupTestStudentService()
	env.classes.add("5", "A")
	ctx := context.Background()

	created, _ := svc.Create(ctx, studentRequest("100000000001", "1"), fileHeader("photo.png"))
	photo := derefString(env.students.students[created.ID].Photo)

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete 应成功: %v", err)
	}
	if env.files.files[photo] {
		t.Error("删除学生后照片应被删除")
	}
	if _, err := svc.GetByID(ctx, created.ID); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("期望 ErrStudentNotFound，实际: %v", err)
	}
}

func TestStudentService_Delete_WithoutPhoto(t *testing.T) {
	svc, env := setupTestStudentService()
	env.classes.add("5", "A")
	ctx := context.Background()

	created, err := svc.Create(ctx, studentRequest("100000000001", "1"), nil)
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if env.students.students[created.ID].Photo != nil {
		t.Fatalf("未上传照片时 photo 应为 NULL，实际=%q", derefString(env.students.students[created.ID].Photo))
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("无照片的学生删除应成功: %v", err)
	}
	if len(env.students.students) != 0 {
		t.Error("学生记录应被删除")
	}
	if len(env.files.deleted) != 0 {
		t.Errorf("无照片时不应触发文件删除，实际 %v", env.files.deleted)
	}
}

func TestStudentService_Delete_PhotoFailureIgnored(t *testing.T) {
	svc, env := setupTestStudentService()
	env.classes.add("5", "A")
	ctx := context.Background()

	created, _ := svc.Create(ctx, studentRequest("100000000001", "1"), nil)
	// 记录指向一个不存在的文件
	env.students.students[created.ID].Photo = strPtr("/uploads/students/missing.png")

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("照片不存在时删除仍应成功: %v", err)
	}
	if len(env.students.students) != 0 {
		t.Error("学生记录应被删除")
	}
}

func TestStudentService_CheckUID(t *testing.T) {
	svc, env := setupTestStudentService()
	env.classes.add("5", "A")
	ctx := context.Background()

	_, _ = svc.Create(ctx, studentRequest("100000000001", "1"), nil)

	exists, err := svc.CheckUID(ctx, "100000000001")
	if err != nil || !exists {
		t.Errorf("期望已存在，实际 exists=%v err=%v", exists, err)
	}
	exists, _ = svc.CheckUID(ctx, "100000000009")
	if exists {
		t.Error("未登记的身份号码不应存在")
	}
}
