package util

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// ValidationError 字段级校验失败
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func init() {
	validate = validator.New()
	// 错误信息使用 json 字段名
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
}

// ValidateDTO 校验 DTO，返回第一个失败字段的说明
func ValidateDTO(dto any) error {
	if err := validate.Struct(dto); err != nil {
		return describe(err)
	}
	return nil
}

func describe(err error) error {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) && len(vErrs) > 0 {
		first := vErrs[0]
		if first.Tag() == "required" {
			return &ValidationError{Message: fmt.Sprintf("missing %s", first.Field())}
		}
		return &ValidationError{Message: fmt.Sprintf("invalid %s: %s %s", first.Field(), first.Tag(), first.Param())}
	}
	return err
}

// NormalizeHandle 去掉开头的 @ 与首尾空白
func NormalizeHandle(handle string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(handle), "@"))
}
