package ai

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 错误信息中使用 JSON 字段名
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationDetail 将校验错误转换为可读的描述
func validationDetail(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}

	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			details = append(details, fmt.Sprintf("%s: field required", fe.Field()))
		case "gte":
			details = append(details, fmt.Sprintf("%s: must be greater than or equal to %s", fe.Field(), fe.Param()))
		case "lte":
			details = append(details, fmt.Sprintf("%s: must be less than or equal to %s", fe.Field(), fe.Param()))
		case "gt":
			details = append(details, fmt.Sprintf("%s: must be greater than %s", fe.Field(), fe.Param()))
		default:
			details = append(details, fmt.Sprintf("%s: failed on '%s'", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(details, "; ")
}
