/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package reflect

import (
	"reflect"
	"regexp"
	"time"
)

// Kind is the closed set of value kinds the factory engine distinguishes.
//
// Evaluation and merging switch on Kind rather than on ad-hoc type assertions
// so that dates, regular expressions and slices are never mistaken for
// nested templates.
type Kind int

const (
	// KindNull is nil, or a nil pointer/map/slice/func/interface.
	KindNull Kind = iota
	// KindBoolean is any bool-kinded value.
	KindBoolean
	// KindNumber is any integer, unsigned integer, float or complex value.
	KindNumber
	// KindString is any string-kinded value.
	KindString
	// KindFunction is any non-nil func value.
	KindFunction
	// KindArray is any slice or array other than a nil slice.
	KindArray
	// KindDate is time.Time or *time.Time.
	KindDate
	// KindRegexp is regexp.Regexp or *regexp.Regexp.
	KindRegexp
	// KindObject is a nested template: map[string]any.
	KindObject
	// KindOther is everything else (structs, other maps, pointers, channels).
	KindOther
)

var kindNames = [...]string{
	KindNull:     "null",
	KindBoolean:  "boolean",
	KindNumber:   "number",
	KindString:   "string",
	KindFunction: "function",
	KindArray:    "array",
	KindDate:     "date",
	KindRegexp:   "regexp",
	KindObject:   "object",
	KindOther:    "other",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

var (
	timeType   = reflect.TypeOf((*time.Time)(nil)).Elem()
	regexpType = reflect.TypeOf((*regexp.Regexp)(nil)).Elem()
	objectType = reflect.TypeOf(map[string]any(nil))
	errorType  = reflect.TypeOf((*error)(nil)).Elem()
)

// KindOf classifies v by its precise runtime type.
func KindOf(v any) Kind {
	// Fast paths for the shapes templates are usually made of.
	switch x := v.(type) {
	case nil:
		return KindNull
	case map[string]any:
		if x == nil {
			return KindNull
		}
		return KindObject
	case string:
		return KindString
	case bool:
		return KindBoolean
	case int, int64, float64:
		return KindNumber
	case time.Time:
		return KindDate
	}
	return kindOfValue(reflect.ValueOf(v))
}

func kindOfValue(rv reflect.Value) Kind {
	t := rv.Type()
	switch t {
	case timeType:
		return KindDate
	case regexpType:
		return KindRegexp
	}

	switch t.Kind() {
	case reflect.Bool:
		return KindBoolean
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return KindNumber
	case reflect.String:
		return KindString
	case reflect.Func:
		if rv.IsNil() {
			return KindNull
		}
		return KindFunction
	case reflect.Slice:
		if rv.IsNil() {
			return KindNull
		}
		return KindArray
	case reflect.Array:
		return KindArray
	case reflect.Pointer:
		if rv.IsNil() {
			return KindNull
		}
		switch t.Elem() {
		case timeType:
			return KindDate
		case regexpType:
			return KindRegexp
		}
		return KindOther
	case reflect.Map:
		if rv.IsNil() {
			return KindNull
		}
		// Named types over map[string]any are still nested templates.
		if t.ConvertibleTo(objectType) {
			return KindObject
		}
		return KindOther
	case reflect.Chan, reflect.Interface:
		if rv.IsNil() {
			return KindNull
		}
		return KindOther
	default:
		return KindOther
	}
}

// AsObject returns v as a map[string]any when it is a nested template.
// Named map types are converted; the returned map shares storage with v.
func AsObject(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, m != nil
	}
	if KindOf(v) != KindObject {
		return nil, false
	}
	return reflect.ValueOf(v).Convert(objectType).Interface().(map[string]any), true
}

// IsGenerator reports whether v is a lazy generator: a non-nil func that
// takes no arguments and returns either one value or a value and an error.
func IsGenerator(v any) bool {
	if KindOf(v) != KindFunction {
		return false
	}
	return isGeneratorType(reflect.TypeOf(v))
}

func isGeneratorType(t reflect.Type) bool {
	if t.NumIn() != 0 || t.IsVariadic() {
		return false
	}
	switch t.NumOut() {
	case 1:
		return true
	case 2:
		return t.Out(1) == errorType
	default:
		return false
	}
}

// Invoke calls a generator and returns its result. It panics if v is not a
// generator; check with IsGenerator first.
func Invoke(v any) (any, error) {
	switch fn := v.(type) {
	case func() any:
		return fn(), nil
	case func() (any, error):
		return fn()
	}

	out := reflect.ValueOf(v).Call(nil)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}
