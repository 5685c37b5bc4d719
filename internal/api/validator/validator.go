package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/mamunbiswass/school-management/internal/admission"
	"github.com/mamunbiswass/school-management/internal/model"
)

// Register 在 gin 的校验引擎上注册自定义规则
//   - uid12:   12 位纯数字身份号码
//   - weekday: Monday ~ Saturday
//   - clock:   HH:MM 或 HH:MM:SS
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin 校验引擎不是 go-playground/validator")
	}
	return RegisterOn(v)
}

// RegisterOn 在指定的校验器上注册自定义规则
func RegisterOn(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"uid12":   validateUID,
		"weekday": validateWeekday,
		"clock":   validateClock,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("注册校验规则 %s 失败: %w", tag, err)
		}
	}
	return nil
}

func validateUID(fl validator.FieldLevel) bool {
	return admission.IsValidUID(fl.Field().String())
}

func validateWeekday(fl validator.FieldLevel) bool {
	return model.WeekdayIndex(fl.Field().String()) >= 0
}

func validateClock(fl validator.FieldLevel) bool {
	_, err := model.ParseClock(fl.Field().String())
	return err == nil
}

// Describe 将绑定错误转为可读的字段说明，非校验错误返回空串
func Describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ""
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, describeField(e))
	}
	return strings.Join(msgs, "; ")
}

func describeField(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " 为必填项"
	case "min":
		return e.Field() + " 不能小于 " + e.Param()
	case "max":
		return e.Field() + " 不能超过 " + e.Param()
	case "email":
		return e.Field() + " 不是有效的邮箱地址"
	case "oneof":
		return e.Field() + " 只能为: " + e.Param()
	case "datetime":
		return e.Field() + " 日期格式应为 YYYY-MM-DD"
	case "uid12":
		return e.Field() + " 必须为 12 位数字"
	case "weekday":
		return e.Field() + " 必须为 Monday 至 Saturday"
	case "clock":
		return e.Field() + " 时间格式应为 HH:MM"
	default:
		return e.Field() + " 校验失败: " + e.Tag()
	}
}
