/*
MIT License

Copyright (c) 2025 Yuval Adar <adary@adary.org>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

// Package tree holds the format-agnostic document tree shared by the
// exporters and the importer. Objects are insertion-ordered maps so key order
// survives a round trip; values are nil, bool, int64, float64, string,
// time.Time, *Map or []any.
package tree

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Map is an insertion-ordered string-keyed object.
type Map = orderedmap.OrderedMap[string, any]

// NewMap returns an empty ordered object.
func NewMap() *Map {
	return orderedmap.New[string, any]()
}

// Keys returns the keys of m in insertion order.
func Keys(m *Map) []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// String returns the string stored under key, or "" when the key is absent
// or holds another type.
func String(m *Map, key string) string {
	if m == nil {
		return ""
	}
	v, ok := m.Get(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Bool returns the boolean stored under key and whether it was present as a bool.
func Bool(m *Map, key string) (bool, bool) {
	if m == nil {
		return false, false
	}
	v, ok := m.Get(key)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Has reports whether key is present, including explicit nulls.
func Has(m *Map, key string) bool {
	if m == nil {
		return false
	}
	_, ok := m.Get(key)
	return ok
}

// Clone deep-copies a tree value.
func Clone(v any) any {
	switch val := v.(type) {
	case *Map:
		return CloneMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Clone(item)
		}
		return out
	default:
		return val
	}
}

// CloneMap deep-copies an ordered object. A nil map clones to an empty one.
func CloneMap(m *Map) *Map {
	out := NewMap()
	if m == nil {
		return out
	}
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, Clone(pair.Value))
	}
	return out
}

// Equal compares two tree values. Object key order is significant.
func Equal(a, b any) bool {
	switch av := a.(type) {
	case *Map:
		bv, ok := b.(*Map)
		if !ok {
			return false
		}
		if av.Len() != bv.Len() {
			return false
		}
		pa, pb := av.Oldest(), bv.Oldest()
		for pa != nil && pb != nil {
			if pa.Key != pb.Key || !Equal(pa.Value, pb.Value) {
				return false
			}
			pa, pb = pa.Next(), pb.Next()
		}
		return pa == nil && pb == nil
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	default:
		return a == b
	}
}

// Value converts an arbitrary decoded Go value into a tree value. Plain maps
// are converted with their keys sorted, since they carry no order.
func Value(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case *Map:
		return val
	case map[string]any:
		return FromMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Value(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = FromMap(item)
		}
		return out
	case string, bool, int64, float64, time.Time:
		return val
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case uint:
		return int64(val)
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		if val > math.MaxInt64 {
			return float64(val)
		}
		return int64(val)
	case float32:
		return float64(val)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = Value(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		m := NewMap()
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		for _, k := range keys {
			m.Set(fmt.Sprint(k.Interface()), Value(rv.MapIndex(k).Interface()))
		}
		return m
	}
	return fmt.Sprint(v)
}

// FromMap converts a plain map into an ordered object with sorted keys.
func FromMap(src map[string]any) *Map {
	keys := make([]string, 0, len(src))
	for k := range src {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	m := NewMap()
	for _, k := range keys {
		m.Set(k, Value(src[k]))
	}
	return m
}

// Plain converts a tree value into plain Go maps and slices, the shape the
// TOML encoder understands.
func Plain(v any) any {
	switch val := v.(type) {
	case *Map:
		out := make(map[string]any, val.Len())
		for pair := val.Oldest(); pair != nil; pair = pair.Next() {
			out[pair.Key] = Plain(pair.Value)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Plain(item)
		}
		return out
	default:
		return val
	}
}

// StripNulls returns a copy of v with every null object entry removed and
// every null array element dropped.
func StripNulls(v any) any {
	switch val := v.(type) {
	case *Map:
		out := NewMap()
		for pair := val.Oldest(); pair != nil; pair = pair.Next() {
			if pair.Value == nil {
				continue
			}
			out.Set(pair.Key, StripNulls(pair.Value))
		}
		return out
	case []any:
		out := make([]any, 0, len(val))
		for _, item := range val {
			if item == nil {
				continue
			}
			out = append(out, StripNulls(item))
		}
		return out
	default:
		return val
	}
}

// Walk calls fn for every string leaf in v with its dotted path.
func Walk(v any, path string, fn func(path, value string)) {
	switch val := v.(type) {
	case *Map:
		for pair := val.Oldest(); pair != nil; pair = pair.Next() {
			Walk(pair.Value, join(path, pair.Key), fn)
		}
	case []any:
		for i, item := range val {
			Walk(item, fmt.Sprintf("%s[%d]", path, i), fn)
		}
	case string:
		fn(path, val)
	}
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
