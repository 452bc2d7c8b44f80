package shared

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/synexis/synexis-admin/internal/backend"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the process-wide validator. Field names in errors use the
// json tag, matching the backend field names.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// FieldErrors maps a field name to a human readable problem.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	return "validation: " + f.Summary()
}

// Unwrap lets errors.Is match backend.ErrValidation.
func (f FieldErrors) Unwrap() error { return backend.ErrValidation }

// Summary joins the problems in field order.
func (f FieldErrors) Summary() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, f[k])
	}
	return strings.Join(msgs, "; ")
}

// Add records a problem unless the field already has one.
func (f FieldErrors) Add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

// Err returns nil for an empty set.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return f
}

// ValidateStruct runs struct tag validation and converts failures using the
// given labels. Fields without a label use their json name.
func ValidateStruct(v any, labels map[string]string) FieldErrors {
	out := FieldErrors{}
	err := Validator().Struct(v)
	if err == nil {
		return out
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out.Add("general", err.Error())
		return out
	}
	for _, fe := range verrs {
		name := fe.Field()
		label := labels[name]
		if label == "" {
			label = name
		}
		out.Add(name, describe(label, fe))
	}
	return out
}

func describe(label string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if", "required_with":
		return label + " is required"
	case "email":
		return label + " must be a valid email address"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", label, fe.Param())
	case "url":
		return label + " must be a valid URL"
	default:
		return label + " is invalid"
	}
}
