package admission

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Step 入学向导步骤
type Step int

const (
	StepBasic    Step = 1 // 基本与学籍信息
	StepGuardian Step = 2 // 家长与联系信息
	StepOther    Step = 3 // 其他分类信息
)

func (s Step) String() string {
	switch s {
	case StepBasic:
		return "basic"
	case StepGuardian:
		return "guardian"
	case StepOther:
		return "other"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

var (
	ErrUnknownField  = errors.New("未知的表单字段")
	ErrFirstStep     = errors.New("已经是第一步")
	ErrLastStep      = errors.New("已经是最后一步，请提交")
	ErrNotFinalStep  = errors.New("只能在最后一步提交")
	ErrUIDExists     = errors.New("该身份号码已登记，无法重复入学")
	ErrUnknownAction = errors.New("未知的向导动作")
)

// FieldError 某一步存在缺失或格式错误的字段
type FieldError struct {
	Step   Step
	Fields []string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("第 %d 步存在缺失或无效的字段: %s", int(e.Step), strings.Join(e.Fields, ", "))
}

// NoticeLevel 提示级别
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice 展示给操作人员的提示
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// ClassOption 班级候选项
type ClassOption struct {
	Name    string
	Section string
}

// SectionsFor 返回指定班级名下的全部分班
func SectionsFor(classes []ClassOption, className string) []string {
	sections := make([]string, 0, 4)
	for _, c := range classes {
		if c.Name == className && !contains(sections, c.Section) {
			sections = append(sections, c.Section)
		}
	}
	return sections
}

// State 向导状态
type State struct {
	Step      Step              `json:"step"`
	Form      map[string]string `json:"form"`
	UIDExists bool              `json:"uid_exists"`
	Photo     string            `json:"photo,omitempty"`   // 暂存照片的对外路径
	Preview   string            `json:"preview,omitempty"` // 照片预览地址
	Sections  []string          `json:"sections"`
	Notice    *Notice           `json:"notice,omitempty"`
}

// NewState 初始状态：第一步、空表单
func NewState() State {
	return State{
		Step:     StepBasic,
		Form:     map[string]string{},
		Sections: []string{},
	}
}

func (s State) clone() State {
	out := s
	out.Form = make(map[string]string, len(s.Form))
	for k, v := range s.Form {
		out.Form[k] = v
	}
	out.Sections = append([]string{}, s.Sections...)
	out.Notice = nil
	return out
}

// ── 动作 ──

// Action 向导输入
type Action interface{ isAction() }

// FieldChanged 单个字段变更，空值表示清除
type FieldChanged struct {
	Name  string
	Value string
}

// PhotoAttached 已暂存的照片
type PhotoAttached struct {
	Path    string
	Preview string
}

// Next 前进一步
type Next struct{}

// Back 后退一步
type Back struct{}

// UIDChecked 身份号码查重结果
type UIDChecked struct {
	UID    string
	Exists bool
}

// QRScanned 扫描到的二维码原始内容
type QRScanned struct {
	Payload string
}

// Submit 提交
type Submit struct{}

// SubmitSucceeded 创建学生成功
type SubmitSucceeded struct {
	AdmissionNo string
}

// SubmitFailed 创建学生失败
type SubmitFailed struct {
	Reason string
}

// Reset 放弃当前表单
type Reset struct{}

func (FieldChanged) isAction()    {}
func (PhotoAttached) isAction()   {}
func (Next) isAction()            {}
func (Back) isAction()            {}
func (UIDChecked) isAction()      {}
func (QRScanned) isAction()       {}
func (Submit) isAction()          {}
func (SubmitSucceeded) isAction() {}
func (SubmitFailed) isAction()    {}
func (Reset) isAction()           {}

// ── 副作用 ──

// Effect 状态转换要求调用方执行的副作用，nil 表示无
type Effect interface{ isEffect() }

// CheckUID 查询身份号码是否已登记，结果以 UIDChecked 回送
type CheckUID struct {
	UID string
}

// CreateStudent 创建学生，结果以 SubmitSucceeded / SubmitFailed 回送
type CreateStudent struct {
	Form  map[string]string
	Photo string
}

// DiscardPhoto 删除不再使用的暂存照片
type DiscardPhoto struct {
	Path string
}

func (CheckUID) isEffect()      {}
func (CreateStudent) isEffect() {}
func (DiscardPhoto) isEffect()  {}

// ── 状态转换 ──

// Transition 纯函数：根据当前状态与动作计算新状态及副作用
// 出错时返回原状态，调用方不应保存
func Transition(s State, a Action, classes []ClassOption) (State, Effect, error) {
	switch a := a.(type) {
	case FieldChanged:
		if StepOf(a.Name) == 0 {
			return s, nil, fmt.Errorf("%w: %s", ErrUnknownField, a.Name)
		}
		next := s.clone()
		eff := applyField(&next, a.Name, a.Value, classes)
		return next, eff, nil

	case QRScanned:
		id, err := ParseAadhaarQR(a.Payload)
		if err != nil {
			return s, nil, err
		}
		fields := id.Fields()
		next := s.clone()
		var eff Effect
		for _, f := range FieldOrder() {
			v, ok := fields[f]
			if !ok {
				continue
			}
			if e := applyField(&next, f, v, classes); e != nil {
				eff = e
			}
		}
		return next, eff, nil

	case UIDChecked:
		if a.UID != s.Form[FieldUID] {
			return s, nil, nil
		}
		next := s.clone()
		next.UIDExists = a.Exists
		if a.Exists {
			next.Notice = &Notice{Level: NoticeWarning, Message: ErrUIDExists.Error()}
		}
		return next, nil, nil

	case PhotoAttached:
		next := s.clone()
		old := s.Photo
		next.Photo, next.Preview = a.Path, a.Preview
		if old != "" && old != a.Path {
			return next, DiscardPhoto{Path: old}, nil
		}
		return next, nil, nil

	case Next:
		if s.Step >= StepOther {
			return s, nil, ErrLastStep
		}
		if bad := invalidFields(s.Step, s.Form); len(bad) > 0 {
			return s, nil, &FieldError{Step: s.Step, Fields: bad}
		}
		next := s.clone()
		next.Step++
		return next, nil, nil

	case Back:
		if s.Step <= StepBasic {
			return s, nil, ErrFirstStep
		}
		next := s.clone()
		next.Step--
		return next, nil, nil

	case Submit:
		if s.Step != StepOther {
			return s, nil, ErrNotFinalStep
		}
		if s.UIDExists {
			return s, nil, ErrUIDExists
		}
		for _, step := range []Step{StepBasic, StepGuardian, StepOther} {
			if bad := invalidFields(step, s.Form); len(bad) > 0 {
				return s, nil, &FieldError{Step: step, Fields: bad}
			}
		}
		return s.clone(), CreateStudent{Form: s.clone().Form, Photo: s.Photo}, nil

	case SubmitSucceeded:
		next := NewState()
		next.Notice = &Notice{Level: NoticeSuccess, Message: "入学登记成功，入学编号 " + a.AdmissionNo}
		return next, nil, nil

	case SubmitFailed:
		next := s.clone()
		next.Notice = &Notice{Level: NoticeError, Message: a.Reason}
		return next, nil, nil

	case Reset:
		if s.Photo != "" {
			return NewState(), DiscardPhoto{Path: s.Photo}, nil
		}
		return NewState(), nil, nil
	}

	return s, nil, ErrUnknownAction
}

// applyField 合并单个字段并处理联动
func applyField(s *State, name, value string, classes []ClassOption) Effect {
	if name == FieldUID {
		value = strings.TrimSpace(value)
	}
	if value == "" {
		delete(s.Form, name)
	} else {
		s.Form[name] = value
	}

	switch name {
	case FieldClassName:
		s.Sections = SectionsFor(classes, value)
		if !contains(s.Sections, s.Form[FieldSection]) {
			delete(s.Form, FieldSection)
		}
	case FieldUID:
		s.UIDExists = false
		if IsValidUID(value) {
			return CheckUID{UID: value}
		}
	}
	return nil
}

// Draft 服务端保存的向导草稿
type Draft struct {
	ID        string    `json:"id"`
	State     State     `json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
