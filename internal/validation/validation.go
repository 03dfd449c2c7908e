// Package validation 負責把請求內容轉成嚴格的值物件，失敗時回報每個欄位的錯誤。
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"issue-tracker/internal/api"

	"github.com/go-playground/validator/v10"
	"github.com/rs/xid"
)

const (
	MsgValidationFailed = "Validation failed"
	MsgNoFieldsToUpdate = "No fields to update"
)

// Error 是結構化的驗證失敗，formErrors 為整體訊息，fieldErrors 以 JSON 欄位名為鍵
type Error struct {
	FormErrors  []string
	FieldErrors map[string][]string
}

func (e *Error) Error() string {
	parts := append([]string{}, e.FormErrors...)
	fields := make([]string, 0, len(e.FieldErrors))
	for f := range e.FieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, strings.Join(e.FieldErrors[f], ", ")))
	}
	return strings.Join(parts, "; ")
}

// Details 轉成 API 回應格式
func (e *Error) Details() *api.ValidationDetails {
	d := &api.ValidationDetails{FormErrors: e.FormErrors, FieldErrors: e.FieldErrors}
	if d.FormErrors == nil {
		d.FormErrors = []string{}
	}
	if d.FieldErrors == nil {
		d.FieldErrors = map[string][]string{}
	}
	return d
}

func (e *Error) addField(field, msg string) {
	if e.FieldErrors == nil {
		e.FieldErrors = map[string][]string{}
	}
	e.FieldErrors[field] = append(e.FieldErrors[field], msg)
}

func (e *Error) empty() bool {
	return len(e.FormErrors) == 0 && len(e.FieldErrors) == 0
}

// New 建立設定好 JSON 欄位名稱與 xid 規則的 validator
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("xid", func(fl validator.FieldLevel) bool {
		_, err := xid.FromString(fl.Field().String())
		return err == nil
	})
	return v
}

var validate = New()

var messages = map[string]string{
	"title.required":       "Title is required",
	"title.min":            "Title is required",
	"title.max":            "Title must be at most 255 characters",
	"description.required": "Description is required",
	"assigneeId.xid":       "Invalid assignee id",
	"status.oneof":         "Status must be one of OPEN, IN_PROGRESS, CLOSED",
	"name.required":        "Name is required",
	"name.min":             "Name is required",
	"email.required":       "Email is required",
	"email.email":          "Invalid email",
	"password.required":    "Password is required",
	"password.min":         "Password must be at least 6 characters",
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if fe.Param() != "" {
		return fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
}

// fromValidator 把 validator 的錯誤併入 out；非欄位錯誤原樣回傳
func fromValidator(err error, out *Error) error {
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	for _, fe := range ves {
		out.addField(fe.Field(), messageFor(fe))
	}
	return nil
}

// Struct 以 struct tag 驗證 i，失敗時回傳 *Error
func Struct(i any) error {
	out := &Error{}
	if err := fromValidator(validate.Struct(i), out); err != nil {
		return err
	}
	if out.empty() {
		return nil
	}
	return out
}

// EchoValidator 讓 echo.Context.Validate 回傳 *Error
type EchoValidator struct{}

func (EchoValidator) Validate(i interface{}) error {
	return Struct(i)
}
