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

package highlight

import (
	"strings"
	"testing"
)

func TestLexer(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"json", "json"},
		{".yml", "yaml"},
		{"YAML", "yaml"},
		{"toml", "toml"},
		{"xml", ""},
	}
	for _, tt := range tests {
		if got := Lexer(tt.format); got != tt.want {
			t.Errorf("Lexer(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"json object", "{\n  \"blocks\": []\n}", "json"},
		{"empty", "   ", "yaml"},
		{"toml tables", "version = 3\n\n[[blocks]]\ntype = \"prompt\"\n", "toml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormat(tt.content); got != tt.want {
				t.Errorf("DetectFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHighlightPlainWithoutLanguage(t *testing.T) {
	h := New("", false)
	content := "line one\nline two"
	lines, err := h.Highlight(content, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 || lines[0] != "line one" || lines[1] != "line two" {
		t.Errorf("unexpected lines %q", lines)
	}

	lines, err = h.Highlight(content, "no-such-language")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(lines, "\n") != content {
		t.Errorf("unknown language should pass content through, got %q", lines)
	}
}

func TestHighlightAddsColour(t *testing.T) {
	content := "{\n  \"type\": \"path\",\n  \"final_space\": true\n}"
	for _, basic := range []bool{false, true} {
		out, err := New("monokai", basic).String(content, "json")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out, "\x1b[") {
			t.Errorf("basic=%v: expected ANSI sequences in %q", basic, out)
		}
		if !strings.Contains(out, "final_space") {
			t.Errorf("basic=%v: content lost: %q", basic, out)
		}
	}
}

func TestUnknownThemeStillHighlights(t *testing.T) {
	out, err := New("definitely-not-a-theme", false).String("a: 1\n", "yaml")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "a") {
		t.Errorf("content lost: %q", out)
	}
}

func TestThemes(t *testing.T) {
	found := false
	for _, name := range Themes() {
		if name == DefaultTheme {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %s among %v", DefaultTheme, Themes())
	}
}
