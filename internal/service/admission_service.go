package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamunbiswass/school-management/config"
	"github.com/mamunbiswass/school-management/internal/admission"
	"github.com/mamunbiswass/school-management/internal/dto"
	"github.com/mamunbiswass/school-management/internal/repository"
	"github.com/mamunbiswass/school-management/pkg/storage"
)

// ── 入学向导业务错误 ──

var (
	ErrDraftNotFound = errors.New("入学草稿不存在或已过期")
)

// maxEffectChain 单次请求内连续执行副作用的上限
const maxEffectChain = 4

// ── AdmissionService 接口 ──────────────────────────────────
//
// 设计说明：
//   - 向导状态机（admission.Transition）是纯函数，本服务负责加载草稿、
//     执行状态机返回的副作用（查重 / 创建学生 / 删除暂存照片）并回送结果
//   - 草稿保存在 Redis（带 TTL），Redis 未启用时保存在进程内
//   - 状态机返回错误时草稿不落库
//   - 每次保存草稿都刷新暂存照片的修改时间，照片超过 TTL 未刷新即视为草稿已过期
// ─────────────────────────────────────────────────────────────

// AdmissionService 入学向导业务接口
type AdmissionService interface {
	CreateDraft(ctx context.Context) (*dto.AdmissionDraftResponse, error)
	GetDraft(ctx context.Context, id string) (*dto.AdmissionDraftResponse, error)
	ChangeFields(ctx context.Context, id string, req *dto.ChangeFieldsRequest) (*dto.AdmissionDraftResponse, error)
	AttachPhoto(ctx context.Context, id string, photo *multipart.FileHeader) (*dto.AdmissionDraftResponse, error)
	Next(ctx context.Context, id string) (*dto.AdmissionDraftResponse, error)
	Back(ctx context.Context, id string) (*dto.AdmissionDraftResponse, error)
	ScanQR(ctx context.Context, id string, req *dto.ScanQRRequest) (*dto.AdmissionDraftResponse, error)
	Submit(ctx context.Context, id string) (*dto.AdmissionSubmitResponse, error)
	Discard(ctx context.Context, id string) error
	// SweepStagedPhotos 清理已过期草稿遗留的暂存照片，返回删除数量
	SweepStagedPhotos(ctx context.Context) (int, error)
}

type admissionService struct {
	repo     *repository.Repository
	files    FileStorage
	students StudentService
	baseURL  string
	now      func() time.Time
	logger   *zap.Logger
}

// NewAdmissionService 创建 AdmissionService 实例
func NewAdmissionService(cfg *config.Config, repo *repository.Repository, files FileStorage, students StudentService, logger *zap.Logger) AdmissionService {
	return &admissionService{
		repo:     repo,
		files:    files,
		students: students,
		baseURL:  cfg.Server.BaseURL,
		now:      time.Now,
		logger:   logger,
	}
}

// ────────────────────── CreateDraft / GetDraft ──────────────────────

func (s *admissionService) CreateDraft(ctx context.Context) (*dto.AdmissionDraftResponse, error) {
	now := s.now()
	draft := &admission.Draft{
		ID:        uuid.NewString(),
		State:     admission.NewState(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}
	return s.toDraftResponse(draft), nil
}

func (s *admissionService) GetDraft(ctx context.Context, id string) (*dto.AdmissionDraftResponse, error) {
	draft, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toDraftResponse(draft), nil
}

// ────────────────────── ChangeFields ──────────────────────
//
// 按固定字段顺序依次应用，保证班级先于分班、uid 查重结果对应最终值

func (s *admissionService) ChangeFields(ctx context.Context, id string, req *dto.ChangeFieldsRequest) (*dto.AdmissionDraftResponse, error) {
	for name := range req.Fields {
		if admission.StepOf(name) == 0 {
			return nil, fmt.Errorf("%w: %s", admission.ErrUnknownField, name)
		}
	}

	draft, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	classes, err := s.classOptions(ctx)
	if err != nil {
		return nil, err
	}

	for _, name := range admission.FieldOrder() {
		value, ok := req.Fields[name]
		if !ok {
			continue
		}
		if err := s.dispatch(ctx, draft, admission.FieldChanged{Name: name, Value: value}, classes); err != nil {
			return nil, err
		}
	}

	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}
	return s.toDraftResponse(draft), nil
}

// ────────────────────── AttachPhoto ──────────────────────

func (s *admissionService) AttachPhoto(ctx context.Context, id string, photo *multipart.FileHeader) (*dto.AdmissionDraftResponse, error) {
	draft, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	stored, err := saveImage(s.files, storage.DirDrafts, photo, s.logger)
	if err != nil {
		return nil, err
	}
	if stored == "" {
		return nil, ErrImageInvalid
	}

	action := admission.PhotoAttached{Path: stored, Preview: storage.PublicURL(s.baseURL, stored)}
	if err := s.dispatch(ctx, draft, action, nil); err != nil {
		discardFile(s.files, stored, s.logger)
		return nil, err
	}

	if err := s.save(ctx, draft); err != nil {
		discardFile(s.files, stored, s.logger)
		return nil, err
	}
	return s.toDraftResponse(draft), nil
}

// ────────────────────── Next / Back / ScanQR ──────────────────────

func (s *admissionService) Next(ctx context.Context, id string) (*dto.AdmissionDraftResponse, error) {
	return s.step(ctx, id, admission.Next{}, nil)
}

func (s *admissionService) Back(ctx context.Context, id string) (*dto.AdmissionDraftResponse, error) {
	return s.step(ctx, id, admission.Back{}, nil)
}

// ScanQR 无效的二维码不合并任何字段
func (s *admissionService) ScanQR(ctx context.Context, id string, req *dto.ScanQRRequest) (*dto.AdmissionDraftResponse, error) {
	classes, err := s.classOptions(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := s.step(ctx, id, admission.QRScanned{Payload: req.Payload}, classes)
	if errors.Is(err, admission.ErrInvalidQR) {
		s.logger.Warn("二维码内容无法识别", zap.String("draft_id", id), zap.Int("bytes", len(req.Payload)))
	}
	return resp, err
}

// ────────────────────── Submit ──────────────────────
//
// 成功后草稿回到第一步的空白状态；失败时保留表单并附带错误提示，不自动重试

func (s *admissionService) Submit(ctx context.Context, id string) (*dto.AdmissionSubmitResponse, error) {
	draft, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	state, eff, err := admission.Transition(draft.State, admission.Submit{}, nil)
	if err != nil {
		return nil, err
	}
	create, ok := eff.(admission.CreateStudent)
	if !ok {
		return nil, admission.ErrUnknownAction
	}
	draft.State = state

	created, createErr := s.students.Admit(ctx, formToStudentRequest(create.Form), create.Photo)

	var result admission.Action = admission.SubmitFailed{Reason: failureReason(createErr)}
	if createErr == nil {
		result = admission.SubmitSucceeded{AdmissionNo: created.AdmissionNo}
	}
	if err := s.dispatch(ctx, draft, result, nil); err != nil {
		return nil, err
	}
	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}

	if createErr != nil {
		return nil, createErr
	}
	s.logger.Info("入学向导提交成功",
		zap.String("draft_id", id),
		zap.String("admission_no", created.AdmissionNo),
	)
	return &dto.AdmissionSubmitResponse{Student: *created, Draft: *s.toDraftResponse(draft)}, nil
}

// ────────────────────── Discard ──────────────────────

func (s *admissionService) Discard(ctx context.Context, id string) error {
	draft, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.dispatch(ctx, draft, admission.Reset{}, nil); err != nil {
		return err
	}
	if err := s.repo.Draft.Delete(ctx, id); err != nil {
		s.logger.Error("删除入学草稿失败", zap.String("draft_id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── SweepStagedPhotos ──────────────────────

func (s *admissionService) SweepStagedPhotos(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	cutoff := s.now().Add(-s.repo.Draft.TTL())
	n, err := s.files.PruneOlderThan(storage.DirDrafts, cutoff)
	if err != nil {
		s.logger.Error("清理草稿暂存照片失败", zap.Error(err))
		return 0, err
	}
	if n > 0 {
		s.logger.Info("已清理过期草稿的暂存照片", zap.Int("count", n))
	}
	return n, nil
}

// ── 内部辅助方法 ──

func (s *admissionService) step(ctx context.Context, id string, action admission.Action, classes []admission.ClassOption) (*dto.AdmissionDraftResponse, error) {
	draft, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.dispatch(ctx, draft, action, classes); err != nil {
		return nil, err
	}
	if err := s.save(ctx, draft); err != nil {
		return nil, err
	}
	return s.toDraftResponse(draft), nil
}

// dispatch 执行状态转换及其副作用，副作用结果作为新的动作继续回送
// classes 只有字段变更与扫码会用到，其余动作传 nil
func (s *admissionService) dispatch(ctx context.Context, draft *admission.Draft, action admission.Action, classes []admission.ClassOption) error {
	for i := 0; action != nil && i < maxEffectChain; i++ {
		state, eff, err := admission.Transition(draft.State, action, classes)
		if err != nil {
			return err
		}
		draft.State = state

		action, err = s.runEffect(ctx, eff)
		if err != nil {
			return err
		}
	}
	return nil
}

// runEffect 返回需要回送给状态机的动作，无则为 nil
func (s *admissionService) runEffect(ctx context.Context, eff admission.Effect) (admission.Action, error) {
	switch e := eff.(type) {
	case nil:
		return nil, nil
	case admission.CheckUID:
		exists, err := s.students.CheckUID(ctx, e.UID)
		if err != nil {
			return nil, err
		}
		return admission.UIDChecked{UID: e.UID, Exists: exists}, nil
	case admission.DiscardPhoto:
		discardFile(s.files, e.Path, s.logger)
		return nil, nil
	}
	return nil, admission.ErrUnknownAction
}

// classOptions 每个请求只查询一次班级候选项
func (s *admissionService) classOptions(ctx context.Context) ([]admission.ClassOption, error) {
	classes, err := s.repo.Class.List(ctx)
	if err != nil {
		s.logger.Error("列出班级失败", zap.Error(err))
		return nil, err
	}
	opts := make([]admission.ClassOption, 0, len(classes))
	for _, c := range classes {
		opts = append(opts, admission.ClassOption{Name: c.Name, Section: c.Section})
	}
	return opts, nil
}

func (s *admissionService) load(ctx context.Context, id string) (*admission.Draft, error) {
	draft, err := s.repo.Draft.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDraftNotFound) {
			return nil, ErrDraftNotFound
		}
		s.logger.Error("读取入学草稿失败", zap.String("draft_id", id), zap.Error(err))
		return nil, err
	}
	return draft, nil
}

func (s *admissionService) save(ctx context.Context, draft *admission.Draft) error {
	draft.UpdatedAt = s.now()
	if err := s.repo.Draft.Save(ctx, draft); err != nil {
		s.logger.Error("保存入学草稿失败", zap.String("draft_id", draft.ID), zap.Error(err))
		return err
	}
	if photo := draft.State.Photo; photo != "" {
		if err := s.files.Touch(photo); err != nil {
			s.logger.Warn("刷新暂存照片时间失败", zap.String("draft_id", draft.ID), zap.String("photo", photo), zap.Error(err))
		}
	}
	return nil
}

func (s *admissionService) toDraftResponse(draft *admission.Draft) *dto.AdmissionDraftResponse {
	return &dto.AdmissionDraftResponse{
		ID:        draft.ID,
		State:     draft.State,
		ExpiresAt: draft.UpdatedAt.Add(s.repo.Draft.TTL()).UTC().Format(timeFormat),
	}
}

// failureReason 业务错误原样展示，基础设施错误使用通用提示
func failureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrStudentUIDExists),
		errors.Is(err, ErrStudentClassNotFound),
		errors.Is(err, ErrAdmissionNoExists),
		errors.Is(err, ErrInvalidDate):
		return err.Error()
	}
	return "保存失败，请稍后重试"
}

func formToStudentRequest(form map[string]string) *dto.CreateStudentRequest {
	return &dto.CreateStudentRequest{
		UID:              form[admission.FieldUID],
		Name:             form[admission.FieldName],
		Gender:           form[admission.FieldGender],
		DOB:              form[admission.FieldDOB],
		Address:          form[admission.FieldAddress],
		ClassName:        form[admission.FieldClassName],
		Section:          form[admission.FieldSection],
		Roll:             form[admission.FieldRoll],
		Father:           form[admission.FieldFather],
		Mother:           form[admission.FieldMother],
		Phone:            form[admission.FieldPhone],
		Email:            form[admission.FieldEmail],
		BloodGroup:       form[admission.FieldBloodGroup],
		EmergencyContact: form[admission.FieldEmergencyContact],
		HealthInfo:       form[admission.FieldHealthInfo],
		Caste:            form[admission.FieldCaste],
		Religion:         form[admission.FieldReligion],
		MotherTongue:     form[admission.FieldMotherTongue],
		Hobbies:          form[admission.FieldHobbies],
	}
}
