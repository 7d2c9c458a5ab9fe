// Package validation checks decoded request bodies against their struct
// tags and reports failures per JSON field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// FieldError is one failed constraint. Field is the dotted JSON path,
// e.g. "partner.age".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validate runs the struct tags of data. It returns nil when data is valid.
func Validate(data any) []FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		field := fieldPath(fe.Namespace())
		out = append(out, FieldError{Field: field, Message: message(field, fe)})
	}
	return out
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return field + "は必須項目です"
	case "oneof":
		return fmt.Sprintf("%sは %s のいずれかを指定してください", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "max":
		return fmt.Sprintf("%sは%s文字以内で入力してください", field, fe.Param())
	case "min":
		return fmt.Sprintf("%sは%s件以上必要です", field, fe.Param())
	default:
		return fmt.Sprintf("%sは %s 制約を満たしていません", field, fe.Tag())
	}
}
