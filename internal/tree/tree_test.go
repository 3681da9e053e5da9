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

package tree

import (
	"reflect"
	"testing"
)

func sample() *Map {
	seg := NewMap()
	seg.Set("type", "path")
	seg.Set("background", nil)

	root := NewMap()
	root.Set("$schema", "https://example.com/schema.json")
	root.Set("blocks", []any{seg, nil})
	root.Set("final_space", true)
	return root
}

func TestKeysKeepInsertionOrder(t *testing.T) {
	m := NewMap()
	for _, k := range []string{"zeta", "alpha", "mid"} {
		m.Set(k, k)
	}
	got := Keys(m)
	want := []string{"zeta", "alpha", "mid"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestCloneIsDeep(t *testing.T) {
	orig := sample()
	clone := CloneMap(orig)
	if !Equal(orig, clone) {
		t.Fatal("clone should equal original")
	}

	blocks, _ := clone.Get("blocks")
	blocks.([]any)[0].(*Map).Set("type", "git")

	if String(mustBlock(t, orig), "type") != "path" {
		t.Error("mutating the clone changed the original")
	}
}

func mustBlock(t *testing.T, m *Map) *Map {
	t.Helper()
	blocks, ok := m.Get("blocks")
	if !ok {
		t.Fatal("blocks missing")
	}
	return blocks.([]any)[0].(*Map)
}

func TestEqualIsOrderSensitive(t *testing.T) {
	a := NewMap()
	a.Set("x", int64(1))
	a.Set("y", int64(2))
	b := NewMap()
	b.Set("y", int64(2))
	b.Set("x", int64(1))

	if Equal(a, b) {
		t.Error("maps with different key order should not be equal")
	}
	if !Equal(a, CloneMap(a)) {
		t.Error("map should equal its clone")
	}
}

func TestStripNulls(t *testing.T) {
	stripped := StripNulls(sample()).(*Map)

	blocks, _ := stripped.Get("blocks")
	list := blocks.([]any)
	if len(list) != 1 {
		t.Fatalf("expected null array element to be dropped, got %d elements", len(list))
	}
	if Has(list[0].(*Map), "background") {
		t.Error("expected null background to be removed")
	}
	if !Has(sample(), "blocks") {
		t.Error("source tree should be untouched")
	}
}

func TestValueConvertsPlainShapes(t *testing.T) {
	in := map[string]any{
		"b":      1,
		"a":      []map[string]any{{"k": "v"}},
		"nested": map[string]any{"z": 2.5, "y": false},
	}
	got := Value(in).(*Map)

	if !reflect.DeepEqual(Keys(got), []string{"a", "b", "nested"}) {
		t.Errorf("expected sorted keys, got %v", Keys(got))
	}
	if v, _ := got.Get("b"); v != int64(1) {
		t.Errorf("expected int64 1, got %T %v", v, v)
	}
	arr, _ := got.Get("a")
	if String(arr.([]any)[0].(*Map), "k") != "v" {
		t.Error("array of maps not converted")
	}
}

func TestPlainRoundTrip(t *testing.T) {
	plain := Plain(sample()).(map[string]any)
	if plain["final_space"] != true {
		t.Errorf("expected final_space true, got %v", plain["final_space"])
	}
	blocks := plain["blocks"].([]any)
	if blocks[0].(map[string]any)["type"] != "path" {
		t.Error("nested map not converted")
	}
}

func TestWalk(t *testing.T) {
	var paths []string
	Walk(sample(), "", func(path, value string) {
		paths = append(paths, path+"="+value)
	})
	want := []string{"$schema=https://example.com/schema.json", "blocks[0].type=path"}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("Walk paths = %v, want %v", paths, want)
	}
}

func TestDecodeJSONKeepsOrder(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"z": 1, "a": [true, null, 2.5], "m": {"y": "s", "b": {}}}`))
	if err != nil {
		t.Fatalf("DecodeJSON failed: %v", err)
	}
	m, ok := v.(*Map)
	if !ok {
		t.Fatalf("expected *Map, got %T", v)
	}
	if got := Keys(m); !reflect.DeepEqual(got, []string{"z", "a", "m"}) {
		t.Errorf("key order = %v", got)
	}
	if z, _ := m.Get("z"); z != int64(1) {
		t.Errorf("z = %#v, want int64(1)", z)
	}
	arr, _ := m.Get("a")
	if !Equal(arr, []any{true, nil, 2.5}) {
		t.Errorf("a = %#v", arr)
	}
	inner, _ := m.Get("m")
	if got := Keys(inner.(*Map)); !reflect.DeepEqual(got, []string{"y", "b"}) {
		t.Errorf("nested key order = %v", got)
	}
}

func TestDecodeJSONErrors(t *testing.T) {
	tests := []string{
		`{not valid json`,
		`{"a": 1} {"b": 2}`,
		``,
		`[1, 2`,
	}
	for _, input := range tests {
		if _, err := DecodeJSON([]byte(input)); err == nil {
			t.Errorf("DecodeJSON(%q) should fail", input)
		}
	}
}
