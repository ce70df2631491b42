package scene

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// fields reads loosely typed values out of a decoded mapping. Problems are
// recorded on the shared issue list and the caller's default is used instead.
type fields struct {
	m      map[string]any
	path   string
	issues *[]Issue
}

func (f fields) at(key string) string {
	if f.path == "" {
		return key
	}
	return f.path + "." + key
}

func (f fields) report(key, format string, args ...any) {
	*f.issues = append(*f.issues, Issue{Path: f.at(key), Message: fmt.Sprintf(format, args...)})
}

func (f fields) has(key string) bool {
	v, ok := f.m[key]
	return ok && v != nil
}

// num returns a finite number stored at key. ok is false when the key is
// missing or unusable.
func (f fields) num(key string) (float64, bool) {
	raw, ok := f.m[key]
	if !ok || raw == nil {
		return 0, false
	}
	v, ok := toFloat(raw)
	if !ok {
		f.report(key, "expected a number, got %T", raw)
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		f.report(key, "non-finite number")
		return 0, false
	}
	return v, true
}

func (f fields) numOr(key string, def float64) float64 {
	if v, ok := f.num(key); ok {
		return v
	}
	return def
}

// ranged returns the number at key when it lies in [lo, hi].
func (f fields) ranged(key string, lo, hi float64) (float64, bool) {
	v, ok := f.num(key)
	if !ok {
		return 0, false
	}
	if v < lo || v > hi {
		f.report(key, "%g outside [%g, %g]", v, lo, hi)
		return 0, false
	}
	return v, true
}

func (f fields) rangedOr(key string, def, lo, hi float64) float64 {
	if v, ok := f.ranged(key, lo, hi); ok {
		return v
	}
	return def
}

// positive accepts numbers strictly greater than zero and at most hi.
func (f fields) positive(key string, hi float64) (float64, bool) {
	v, ok := f.num(key)
	if !ok {
		return 0, false
	}
	if v <= 0 || v > hi {
		f.report(key, "%g outside (0, %g]", v, hi)
		return 0, false
	}
	return v, true
}

func (f fields) positiveOr(key string, def, hi float64) float64 {
	if v, ok := f.positive(key, hi); ok {
		return v
	}
	return def
}

func (f fields) optional(key string, lo, hi float64) *float64 {
	if v, ok := f.ranged(key, lo, hi); ok {
		return &v
	}
	return nil
}

func (f fields) optionalPositive(key string, hi float64) *float64 {
	if v, ok := f.positive(key, hi); ok {
		return &v
	}
	return nil
}

func (f fields) intRangedOr(key string, def, lo, hi int) int {
	v, ok := f.ranged(key, float64(lo), float64(hi))
	if !ok {
		return def
	}
	return int(math.Round(v))
}

func (f fields) str(key string) string {
	raw, ok := f.m[key]
	if !ok || raw == nil {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		f.report(key, "expected a string, got %T", raw)
		return ""
	}
	return strings.TrimSpace(s)
}

func (f fields) color(key, def string) string {
	s := f.str(key)
	if s == "" {
		return def
	}
	if _, err := ParseColor(s); err != nil {
		f.report(key, "%v", err)
		return def
	}
	return s
}

func (f fields) boolean(key string) bool {
	raw, ok := f.m[key]
	if !ok || raw == nil {
		return false
	}
	b, ok := raw.(bool)
	if !ok {
		f.report(key, "expected a boolean, got %T", raw)
		return false
	}
	return b
}

func (f fields) object(key string) (fields, bool) {
	raw, ok := f.m[key]
	if !ok || raw == nil {
		return fields{}, false
	}
	m, ok := asMap(raw)
	if !ok {
		f.report(key, "expected a mapping, got %T", raw)
		return fields{}, false
	}
	return fields{m: m, path: f.at(key), issues: f.issues}, true
}

// list returns the sequence at key. A non-sequence is reported and skipped.
func (f fields) list(key string) []any {
	raw, ok := f.m[key]
	if !ok || raw == nil {
		return nil
	}
	l, ok := raw.([]any)
	if !ok {
		f.report(key, "expected a list, got %T", raw)
		return nil
	}
	return l
}

// each walks the mappings of the sequence at key, skipping non-mapping entries.
func (f fields) each(key string, fn func(item fields)) {
	for i, raw := range f.list(key) {
		path := fmt.Sprintf("%s[%d]", f.at(key), i)
		m, ok := asMap(raw)
		if !ok {
			*f.issues = append(*f.issues, Issue{Path: path, Message: fmt.Sprintf("expected a mapping, got %T", raw)})
			continue
		}
		fn(fields{m: m, path: path, issues: f.issues})
	}
}

func (f fields) vec(key string) *Vec {
	sub, ok := f.object(key)
	if !ok {
		return nil
	}
	x, okx := sub.num("x")
	y, oky := sub.num("y")
	if !okx && !oky {
		f.report(key, "vector has no usable x or y")
		return nil
	}
	return &Vec{X: x, Y: y}
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

func asMap(raw any) (map[string]any, bool) {
	switch m := raw.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[fmt.Sprint(k)] = v
		}
		return out, true
	}
	return nil, false
}
