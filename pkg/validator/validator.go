// Package validator 封装 go-playground/validator，统一表单校验入口
//
// 领域层的表单结构体（book.FormData、member.FormData）用 validate tag 声明规则，
// 校验失败统一转换为 ErrInvalidParams，客户端据此区分参数错误和业务错误。
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

var (
	once     sync.Once
	instance *validator.Validate
)

var nonISBNChars = regexp.MustCompile(`[^0-9Xx]`)

// Default 返回全局校验器（首次调用时注册自定义规则）
func Default() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		// 使用json tag作为字段名，错误信息与API字段保持一致
		instance.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		if err := instance.RegisterValidation("isbn", func(fl validator.FieldLevel) bool {
			return IsValidISBN(fl.Field().String())
		}); err != nil {
			panic(fmt.Sprintf("注册isbn校验规则失败: %v", err))
		}
	})
	return instance
}

// Struct 校验结构体，失败时返回 ErrInvalidParams
func Struct(v interface{}) error {
	err := Default().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.ErrInvalidParams.WithDetail(err.Error())
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return apperrors.ErrInvalidParams.WithDetail(strings.Join(msgs, "; "))
}

// IsValidISBN 校验ISBN格式
// 去掉分隔符后为10位（末位可为X）或13位数字
// 简化实现:不校验校验位
func IsValidISBN(isbn string) bool {
	clean := nonISBNChars.ReplaceAllString(isbn, "")
	switch len(clean) {
	case 13:
		return !strings.ContainsAny(clean, "Xx")
	case 10:
		return !strings.ContainsAny(clean[:9], "Xx")
	default:
		return false
	}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s不能为空", fe.Field())
	case "email":
		return fmt.Sprintf("%s不是合法的邮箱地址", fe.Field())
	case "isbn":
		return fmt.Sprintf("%s不是合法的ISBN", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s必须是[%s]之一", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s必须大于%s", fe.Field(), fe.Param())
	case "gte", "min":
		return fmt.Sprintf("%s不能小于%s", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s日期格式应为YYYY-MM-DD", fe.Field())
	default:
		return fmt.Sprintf("%s校验失败(%s)", fe.Field(), fe.Tag())
	}
}

