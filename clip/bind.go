package clip

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// Bind copies resolved values into the fields of the struct target points
// to. Fields are matched by their `clip:"name"` tag against option names and
// then argument names; untagged fields and "-" are skipped, as are names
// that have no value. Nested structs without a tag are walked.
func (r *Result) Bind(target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("bind target must be a non-nil pointer to struct, got %T", target)
	}
	return r.bindStruct(v.Elem())
}

func (r *Result) bindStruct(sv reflect.Value) error {
	st := sv.Type()
	for i := range st.NumField() {
		field := st.Field(i)
		fv := sv.Field(i)
		if !field.IsExported() || !fv.CanSet() {
			continue
		}

		tag, hasTag := field.Tag.Lookup("clip")
		name, _, _ := strings.Cut(tag, ",")
		if !hasTag || name == "" {
			if fv.Kind() == reflect.Struct && field.Type != durationType && !hasTag {
				if err := r.bindStruct(fv); err != nil {
					return err
				}
			}
			continue
		}
		if name == "-" {
			continue
		}

		value, ok := r.Value(name)
		if !ok || value == nil {
			continue
		}
		if err := setField(fv, value); err != nil {
			return fmt.Errorf("failed to set field %s from '%s': %w", field.Name, name, err)
		}
	}
	return nil
}

// setField assigns value to fv, converting numerics, parsing strings with
// the built-in converters and building slices element by element.
func setField(fv reflect.Value, value any) error {
	rv := reflect.ValueOf(value)
	ft := fv.Type()

	if rv.Type().AssignableTo(ft) {
		fv.Set(rv)
		return nil
	}

	if ft.Kind() == reflect.Slice && rv.Kind() == reflect.Slice {
		out := reflect.MakeSlice(ft, 0, rv.Len())
		for i := range rv.Len() {
			elem := reflect.New(ft.Elem()).Elem()
			if err := setField(elem, rv.Index(i).Interface()); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
			out = reflect.Append(out, elem)
		}
		fv.Set(out)
		return nil
	}

	if ft.Kind() == reflect.Slice && rv.Kind() != reflect.Slice {
		elem := reflect.New(ft.Elem()).Elem()
		if err := setField(elem, value); err != nil {
			return err
		}
		fv.Set(reflect.Append(reflect.MakeSlice(ft, 0, 1), elem))
		return nil
	}

	if s, ok := value.(string); ok && ft.Kind() != reflect.String {
		converted, err := convertForKind(s, ft)
		if err != nil {
			return err
		}
		return setField(fv, converted)
	}

	if isNumeric(rv.Kind()) && isNumeric(ft.Kind()) && rv.Type().ConvertibleTo(ft) {
		fv.Set(rv.Convert(ft))
		return nil
	}

	return fmt.Errorf("cannot convert %T to %s", value, ft)
}

func convertForKind(s string, t reflect.Type) (any, error) {
	if t == durationType {
		return Duration(s)
	}
	switch t.Kind() {
	case reflect.Bool:
		return Bool(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Int(s)
	case reflect.Float32, reflect.Float64:
		return Float(s)
	default:
		return nil, fmt.Errorf("cannot convert string to %s", t)
	}
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
