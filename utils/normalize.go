package utils

import (
	"math"
	"reflect"
	"strings"
)

// Round2 rounds x to 2 decimal places; used for budget amounts.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// NormalizeDTO trims string fields and rounds float64 fields on a pointer to a
// struct with value fields (create DTOs, budgets).
func NormalizeDTO(dto any) {
	eachField(dto, normalizeValue)
}

// NormalizePtrDTO does the same for patch DTOs whose fields are pointers.
// Nil fields stay nil so they are left out of the update.
func NormalizePtrDTO(dto any) {
	eachField(dto, func(f reflect.Value) {
		if f.Kind() == reflect.Ptr && !f.IsNil() {
			normalizeValue(f.Elem())
		}
	})
}

func normalizeValue(v reflect.Value) {
	if !v.CanSet() {
		return
	}
	switch v.Kind() {
	case reflect.String:
		v.SetString(strings.TrimSpace(v.String()))
	case reflect.Float64:
		v.SetFloat(Round2(v.Float()))
	}
}

func eachField(dto any, fn func(reflect.Value)) {
	v := reflect.ValueOf(dto)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return
	}
	s := v.Elem()
	if s.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < s.NumField(); i++ {
		fn(s.Field(i))
	}
}
