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

package metadata

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultRegistryLoads(t *testing.T) {
	r := Default()
	if r != Default() {
		t.Error("Default should return the same registry every time")
	}
	for _, segType := range []string{"path", "git", "node", "python", "time", "status", "session"} {
		s, ok := r.Lookup(segType)
		if !ok {
			t.Errorf("expected %q to be registered", segType)
			continue
		}
		if !s.Known || s.Name == "" || s.DefaultTemplate == "" {
			t.Errorf("segment %q is incomplete: %+v", segType, s)
		}
		if _, ok := CategoryColors(s.Category); !ok {
			t.Errorf("segment %q has unknown category %q", segType, s.Category)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, ok := Default().Lookup("no-such-segment"); ok {
		t.Error("Lookup should report unknown types")
	}

	s := Default().Resolve("no-such-segment")
	if s.Known {
		t.Error("Resolve should mark unknown types")
	}
	if s.DisplayName() != "no-such-segment" {
		t.Errorf("DisplayName() = %q, want raw type", s.DisplayName())
	}
	if s.DefaultOptions == nil {
		t.Error("unknown segments should still carry an empty options map")
	}
}

func TestLookupReturnsCopies(t *testing.T) {
	r := Default()
	s, _ := r.Lookup("path")
	s.DefaultOptions.Set("style", "full")

	again, _ := r.Lookup("path")
	if v, _ := again.DefaultOptions.Get("style"); v != "folder" {
		t.Errorf("registry defaults were modified through a lookup: %v", v)
	}
}

func TestDefaultOptionsKeepOrderAndIntegers(t *testing.T) {
	s, ok := Default().Lookup("executiontime")
	if !ok {
		t.Fatal("executiontime missing")
	}
	pair := s.DefaultOptions.Oldest()
	if pair == nil || pair.Key != "threshold" || pair.Value != int64(500) {
		t.Errorf("first default option = %+v, want threshold=500", pair)
	}
}

func TestByCategory(t *testing.T) {
	r := Default()
	langs := r.ByCategory("languages")
	if len(langs) == 0 {
		t.Fatal("expected language segments")
	}
	for _, s := range langs {
		if s.Category != "languages" {
			t.Errorf("segment %q has category %q", s.Type, s.Category)
		}
	}
	if len(r.Categories()) != 8 {
		t.Errorf("expected 8 categories, got %d", len(r.Categories()))
	}
}

func TestSearch(t *testing.T) {
	r := Default()

	results := r.Search("kube")
	if len(results) == 0 || results[0].Type != "kubectl" {
		t.Errorf("Search(kube) = %v, want kubectl first", types(results))
	}

	if got := len(r.Search("")); got != len(r.All()) {
		t.Errorf("empty search returned %d of %d", got, len(r.All()))
	}

	if got := r.Search("zzzzqqq"); len(got) != 0 {
		t.Errorf("expected no matches, got %v", types(got))
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	tests := map[string]string{
		"syntax":    `{"segments": [`,
		"no type":   `{"segments": [{"name": "x"}]}`,
		"duplicate": `{"segments": [{"type": "a"}, {"type": "a"}]}`,
		"options":   `{"segments": [{"type": "a", "defaultOptions": [1]}]}`,
	}
	for name, input := range tests {
		if _, err := Parse([]byte(input)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "segments.json")
	data := `{"categories": [{"id": "system", "name": "System"}],
		"segments": [{"type": "custom", "name": "Custom", "category": "system", "defaultTemplate": " hi "}]}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	r, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	s, ok := r.Lookup("custom")
	if !ok || s.DefaultTemplate != " hi " {
		t.Errorf("unexpected segment: %+v", s)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestColorsFor(t *testing.T) {
	tests := []struct {
		segType, category string
		want              Colors
	}{
		{"python", "languages", Colors{"#4B8BBE", "#FFD43B"}},
		{"swift", "languages", Colors{"#C678DD", "#ffffff"}},
		{"owm", "web", Colors{"#7C9FF5", "#ffffff"}},
		{"mystery", "", Colors{"#61AFEF", "#ffffff"}},
	}
	for _, tt := range tests {
		if got := ColorsFor(tt.segType, tt.category); got != tt.want {
			t.Errorf("ColorsFor(%q, %q) = %v, want %v", tt.segType, tt.category, got, tt.want)
		}
	}
}

func types(segs []Segment) []string {
	out := make([]string, len(segs))
	for i, s := range segs {
		out[i] = s.Type
	}
	return out
}
