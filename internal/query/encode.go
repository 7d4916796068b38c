package query

import (
	"reflect"
	"strings"
)

// FromStruct flattens a filter struct into Params in field declaration order.
//
// Fields are named by their `query:"name"` tag; untagged fields and `query:"-"`
// are ignored, embedded structs are flattened in place. A field is undefined,
// and therefore omitted, when it is a nil pointer or a non-pointer zero value.
// A pointer to a zero value (for example *bool false) is defined.
func FromStruct(v any) Params {
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	return appendStruct(nil, rv)
}

func appendStruct(p Params, rv reflect.Value) Params {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		fv := rv.Field(i)

		if field.Anonymous && field.IsExported() {
			inner := fv
			if inner.Kind() == reflect.Pointer {
				if inner.IsNil() {
					continue
				}
				inner = inner.Elem()
			}
			if inner.Kind() == reflect.Struct {
				p = appendStruct(p, inner)
				continue
			}
		}

		if !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get("query"), ",")
		if name == "" || name == "-" {
			continue
		}

		switch fv.Kind() {
		case reflect.Pointer, reflect.Interface:
			if fv.IsNil() {
				continue
			}
		case reflect.Slice, reflect.Map:
			if fv.Len() == 0 {
				continue
			}
		default:
			if fv.IsZero() {
				continue
			}
		}
		p = p.Add(name, fv.Interface())
	}
	return p
}
