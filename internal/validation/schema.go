// Package validation turns raw storage rows into typed records and checks record invariants.
//
// A record type declares its columns with `db` tags. Fields may also carry a
// `default` tag, used when the column is absent or NULL, and `validate` tags
// evaluated by go-playground/validator once coercion succeeded. Pointer fields
// are nullable.
package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.Split(f.Tag.Get("db"), ",")[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// Schema validates raw rows of one entity into T.
type Schema[T any] struct {
	// Entity names the record in error messages.
	Entity string
	// Transform rewrites a raw row before coercion. It must not mutate its input.
	Transform func(map[string]any) map[string]any
}

// Row coerces a single raw row into T and checks its invariants.
func (s Schema[T]) Row(raw map[string]any) (T, error) {
	var out T
	if s.Transform != nil {
		raw = s.Transform(raw)
	}
	rv := reflect.ValueOf(&out).Elem()
	if rv.Kind() != reflect.Struct {
		return out, fmt.Errorf("validation: %T is not a struct", out)
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		column := strings.Split(sf.Tag.Get("db"), ",")[0]
		if !sf.IsExported() || column == "" || column == "-" {
			continue
		}
		value, present := raw[column]
		if !present || value == nil {
			def, hasDefault := sf.Tag.Lookup("default")
			switch {
			case hasDefault:
				value = def
			case sf.Type.Kind() == reflect.Pointer:
				continue
			default:
				return out, &Error{Entity: s.Entity, Field: column, Reason: "required"}
			}
		}
		if err := assign(rv.Field(i), value); err != nil {
			return out, &Error{Entity: s.Entity, Field: column, Reason: err.Error()}
		}
	}
	if err := s.Check(out); err != nil {
		return out, err
	}
	return out, nil
}

// Rows coerces every row and fails on the first invalid one.
func (s Schema[T]) Rows(raws []map[string]any) ([]T, error) {
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		v, err := s.Row(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Safe is Row without the error detail.
func (s Schema[T]) Safe(raw map[string]any) (T, bool) {
	v, err := s.Row(raw)
	return v, err == nil
}

// Check validates the invariants of an already typed record.
func (s Schema[T]) Check(v T) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		reason := fe.Tag()
		if fe.Param() != "" {
			reason += "=" + fe.Param()
		}
		return &Error{Entity: s.Entity, Field: fe.Field(), Reason: "failed " + reason}
	}
	return &Error{Entity: s.Entity, Reason: err.Error()}
}

func assign(field reflect.Value, value any) error {
	if field.Kind() == reflect.Pointer {
		elem := reflect.New(field.Type().Elem())
		if err := assign(elem.Elem(), value); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		switch v := value.(type) {
		case string:
			field.SetString(v)
		case []byte:
			field.SetString(string(v))
		default:
			return fmt.Errorf("expected string, got %T", value)
		}
	case reflect.Float32, reflect.Float64:
		f, err := toNumber(value)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f, err := toNumber(value)
		if err != nil {
			return err
		}
		if f != math.Trunc(f) {
			return fmt.Errorf("expected integer, got %v", f)
		}
		field.SetInt(int64(f))
	case reflect.Bool:
		b, err := cast.ToBoolE(value)
		if err != nil {
			return fmt.Errorf("expected boolean, got %T", value)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}

func toNumber(value any) (float64, error) {
	if s, ok := value.(string); ok {
		value = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(value)
	if err != nil {
		return 0, fmt.Errorf("expected number, got %T", value)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("expected finite number")
	}
	return f, nil
}

// Truthy reports the loose truthiness of a stored flag: NULL, 0, false and "" are false.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case []byte:
		return len(x) != 0
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return true
	}
	return f != 0 && !math.IsNaN(f)
}
