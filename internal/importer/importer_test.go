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

package importer

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/adaryorg/poshcraft/internal/export"
	"github.com/adaryorg/poshcraft/internal/ids"
	"github.com/adaryorg/poshcraft/internal/metadata"
	"github.com/adaryorg/poshcraft/internal/model"
	"github.com/adaryorg/poshcraft/internal/tree"
)

func u(hex string) string {
	return "\\" + "u" + hex
}

var themeJSON = `{
  "$schema": "https://example.com/schema.json",
  "palette": {"blue": "#61AFEF"},
  "blocks": [
    {
      "id": "block-from-file",
      "type": "prompt",
      "alignment": "left",
      "segments": [
        {
          "id": "segment-from-file",
          "type": "path",
          "style": "powerline",
          "powerline_symbol": "` + u("e0b0") + `",
          "background": "#61AFEF",
          "template": " ` + u("f07b") + ` {{ .Path }} ",
          "options": {"style": "folder", "max_depth": 2}
        },
        {
          "type": "mystery_widget",
          "style": "plain",
          "foreground": null
        }
      ]
    }
  ],
  "final_space": true,
  "version": 3
}`

func collectIDs(c *model.Config) []string {
	var out []string
	for _, b := range c.Blocks {
		out = append(out, b.ID)
		for _, s := range b.Segments {
			out = append(out, s.ID)
		}
	}
	return out
}

func TestImportJSON(t *testing.T) {
	c, err := New(ids.NewSequence("imp")).Import(themeJSON, "theme.json")
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if c.Schema() != "https://example.com/schema.json" {
		t.Errorf("Schema() = %q", c.Schema())
	}
	if got := tree.Keys(c.Attrs); !reflect.DeepEqual(got, []string{"$schema", "palette", "blocks", "final_space", "version"}) {
		t.Errorf("top-level keys = %v", got)
	}
	if len(c.Blocks) != 1 || len(c.Blocks[0].Segments) != 2 {
		t.Fatalf("unexpected shape: %d blocks", len(c.Blocks))
	}

	path := c.Blocks[0].Segments[0]
	if path.PowerlineSymbol() != string(rune(0xE0B0)) {
		t.Errorf("escape not decoded: %q", path.PowerlineSymbol())
	}
	if path.Template() != " "+string(rune(0xF07B))+" {{ .Path }} " {
		t.Errorf("template escape not decoded: %q", path.Template())
	}
	if v, _ := path.Options().Get("max_depth"); v != int64(2) {
		t.Errorf("max_depth = %#v", v)
	}

	unknown := c.Blocks[0].Segments[1]
	if unknown.Type() != "mystery_widget" {
		t.Errorf("unknown type not passed through: %q", unknown.Type())
	}
	if v, ok := unknown.Attrs.Get("foreground"); !ok || v != nil {
		t.Error("explicit null should be kept")
	}
	if tree.Has(unknown.Attrs, "background") {
		t.Error("absent field should stay absent")
	}
}

func TestImportRegeneratesIdentifiers(t *testing.T) {
	first, err := Import(themeJSON, "theme.json")
	if err != nil {
		t.Fatal(err)
	}
	second, err := Import(themeJSON, "theme.json")
	if err != nil {
		t.Fatal(err)
	}

	seen := map[string]bool{}
	for _, id := range collectIDs(first) {
		if id == "" || id == "block-from-file" || id == "segment-from-file" {
			t.Errorf("identifier %q not regenerated", id)
		}
		seen[id] = true
	}
	for _, id := range collectIDs(second) {
		if seen[id] {
			t.Errorf("identifier %q reused across imports", id)
		}
	}
	for _, s := range first.AllSegments() {
		if tree.Has(s.Attrs, "id") {
			t.Error("id attribute should be dropped on import")
		}
	}
}

func TestImportYAML(t *testing.T) {
	text := `$schema: https://example.com/schema.json
defaults: &seg
  style: powerline
  foreground: "#ffffff"
blocks:
  - type: prompt
    alignment: right
    segments:
      - <<: *seg
        type: git
        background: "#98C379"
      - type: time
        options: *seg
final_space: false
`
	c, err := Import(text, "theme.yml")
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if c.Blocks[0].Alignment() != model.AlignRight {
		t.Errorf("alignment = %q", c.Blocks[0].Alignment())
	}
	git := c.Blocks[0].Segments[0]
	if git.Style() != "powerline" || git.Foreground() != "#ffffff" || git.Background() != "#98C379" {
		t.Errorf("merge key not applied: %v", tree.Keys(git.Attrs))
	}
	opts := c.Blocks[0].Segments[1].Options()
	if tree.String(opts, "style") != "powerline" {
		t.Error("alias not resolved")
	}
	if c.FinalSpace() {
		t.Error("final_space should be false")
	}
}

func TestImportTOML(t *testing.T) {
	text := `"$schema" = "https://example.com/schema.json"
version = 3
final_space = true

[[blocks]]
type = "prompt"
alignment = "left"

[[blocks.segments]]
type = "path"
style = "diamond"
template = " {{ .Path }} "

[blocks.segments.options]
style = "full"

[[blocks.segments]]
type = "git"
style = "plain"
`
	c, err := Import(text, "theme.toml")
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if got := tree.Keys(c.Attrs); !reflect.DeepEqual(got, []string{"$schema", "version", "final_space", "blocks"}) {
		t.Errorf("top-level keys = %v", got)
	}
	b := c.Blocks[0]
	if got := tree.Keys(b.Attrs); !reflect.DeepEqual(got, []string{"type", "alignment", "segments"}) {
		t.Errorf("block keys = %v", got)
	}
	if len(b.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(b.Segments))
	}
	if got := tree.Keys(b.Segments[0].Attrs); !reflect.DeepEqual(got, []string{"type", "style", "template", "options"}) {
		t.Errorf("segment keys = %v", got)
	}
	if tree.String(b.Segments[0].Options(), "style") != "full" {
		t.Error("nested table lost")
	}
	if v, _ := c.Get("version"); v != int64(3) {
		t.Errorf("version = %#v", v)
	}
}

func TestImportErrors(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		filename string
		format   string
	}{
		{"invalid json", "{not valid json", "theme.json", "json"},
		{"missing blocks", `{"final_space": true}`, "theme.json", "json"},
		{"blocks not array", `{"blocks": {}}`, "theme.json", "json"},
		{"root array", `[1, 2]`, "theme.json", "json"},
		{"block not object", `{"blocks": [1]}`, "theme.json", "json"},
		{"segments not array", `{"blocks": [{"segments": "x"}]}`, "theme.json", "json"},
		{"invalid yaml", "blocks: [\n  - a", "theme.yaml", "yaml"},
		{"empty yaml", "", "theme.yaml", "yaml"},
		{"invalid toml", "blocks = [", "theme.toml", "toml"},
		{"toml without blocks", "final_space = true", "theme.toml", "toml"},
		{"yaml alias fan-out", aliasBomb(6, 10), "theme.yaml", "yaml"},
		{"unsupported extension", `{"blocks": []}`, "theme.ini", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Import(tt.text, tt.filename)
			if err == nil {
				t.Fatal("expected an error")
			}
			if c != nil {
				t.Error("no configuration should be returned on failure")
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if perr.Format != tt.format || perr.Filename != tt.filename {
				t.Errorf("ParseError = %+v", perr)
			}
			if !strings.Contains(err.Error(), tt.filename) {
				t.Errorf("message should name the file: %v", err)
			}
		})
	}
}

// aliasBomb returns a small document whose aliases expand to width^levels
// nodes.
func aliasBomb(levels, width int) string {
	var b strings.Builder
	b.WriteString("blocks: []\n")
	fmt.Fprintf(&b, "l0: &l0 [%s]\n", strings.TrimSuffix(strings.Repeat("x, ", width), ", "))
	for i := 1; i < levels; i++ {
		ref := fmt.Sprintf("*l%d, ", i-1)
		fmt.Fprintf(&b, "l%d: &l%d [%s]\n", i, i, strings.TrimSuffix(strings.Repeat(ref, width), ", "))
	}
	return b.String()
}

func TestImportYAMLAliases(t *testing.T) {
	text := "base: &base\n  type: path\n  style: plain\nblocks:\n  - segments:\n      - *base\n      - <<: *base\n        style: powerline\n"
	c, err := Import(text, "theme.yaml")
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	segs := c.Blocks[0].Segments
	if len(segs) != 2 {
		t.Fatalf("segments = %d, want 2", len(segs))
	}
	if got, _ := segs[1].Attrs.Get("style"); got != "powerline" {
		t.Errorf("merged style = %v, want powerline", got)
	}
}

func TestImportFailureLeavesWorkspaceUntouched(t *testing.T) {
	current := model.Default(metadata.Default(), ids.NewSequence("ws"))
	before := current.Clone()

	if next, err := Import("{not valid json", "theme.json"); err == nil {
		current.Replace(next)
	}

	if !tree.Equal(export.Normalize(current), export.Normalize(before)) {
		t.Error("failed import changed the configuration")
	}
}

func TestRoundTrip(t *testing.T) {
	original := model.Default(metadata.Default(), ids.NewSequence("rt"))
	if _, err := original.AddSegment(original.Blocks[0].ID, "executiontime", nil); err != nil {
		t.Fatal(err)
	}

	for _, format := range export.Formats {
		t.Run(string(format), func(t *testing.T) {
			first, err := export.Export(original, format)
			if err != nil {
				t.Fatal(err)
			}
			imported, err := Import(first, export.Filename(format))
			if err != nil {
				t.Fatalf("re-import failed: %v", err)
			}
			second, err := export.Export(imported, format)
			if err != nil {
				t.Fatal(err)
			}
			if first != second {
				t.Errorf("round trip changed the document:\n%s\n---\n%s", first, second)
			}
		})
	}
}

func TestFormatOf(t *testing.T) {
	tests := map[string]string{
		"a.json": "json",
		"A.JSON": "json",
		"b.yml":  "yaml",
		"c.yaml": "yaml",
		"d.toml": "toml",
		"e.txt":  "",
		"noext":  "",
	}
	for name, want := range tests {
		if got := FormatOf(name); got != want {
			t.Errorf("FormatOf(%q) = %q, want %q", name, got, want)
		}
	}
}
