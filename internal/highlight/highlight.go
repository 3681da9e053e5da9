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

// Package highlight colours exported configuration documents for terminal
// display using Chroma.
package highlight

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultTheme is the Chroma style used when none is configured.
const DefaultTheme = "monokai"

// Highlighter renders documents with one Chroma style.
type Highlighter struct {
	theme string
	basic bool
}

// New returns a highlighter. basic selects the 8-colour formatter for
// terminals without 256-colour support.
func New(theme string, basic bool) *Highlighter {
	return &Highlighter{theme: theme, basic: basic}
}

// Lexer returns the Chroma alias for an export format name.
func Lexer(format string) string {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "json":
		return "json"
	case "yaml", "yml":
		return "yaml"
	case "toml":
		return "toml"
	default:
		return ""
	}
}

// DetectFormat guesses the format of a pasted document with no file name.
// It falls back to yaml, which accepts the widest range of input.
func DetectFormat(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "yaml"
	}
	if trimmed[0] == '{' {
		return "json"
	}
	if trimmed[0] == '[' || strings.Contains(trimmed, "\n[") {
		return "toml"
	}
	if lexer := lexers.Analyse(content); lexer != nil {
		if cfg := lexer.Config(); cfg != nil {
			for _, alias := range append([]string{cfg.Name}, cfg.Aliases...) {
				if f := Lexer(alias); f != "" {
					return f
				}
			}
		}
	}
	return "yaml"
}

// Highlight returns content split into lines with ANSI colouring applied.
// Unknown languages come back uncoloured.
func (h *Highlighter) Highlight(content, language string) ([]string, error) {
	if language == "" {
		return strings.Split(content, "\n"), nil
	}

	lexer := lexers.Get(language)
	if lexer == nil {
		return strings.Split(content, "\n"), nil
	}

	iterator, err := lexer.Tokenise(nil, content)
	if err != nil {
		return strings.Split(content, "\n"), err
	}

	var buf bytes.Buffer
	if err := h.formatter().Format(&buf, h.style(), iterator); err != nil {
		return strings.Split(content, "\n"), err
	}
	return strings.Split(buf.String(), "\n"), nil
}

// String is Highlight joined back into one string.
func (h *Highlighter) String(content, language string) (string, error) {
	lines, err := h.Highlight(content, language)
	return strings.Join(lines, "\n"), err
}

// style resolves the configured theme. Chroma answers unknown names with its
// fallback style.
func (h *Highlighter) style() *chroma.Style {
	name := h.theme
	if name == "" {
		name = DefaultTheme
		if h.basic {
			name = "bw"
		}
	}
	if s := styles.Get(name); s != nil {
		return s
	}
	return styles.Fallback
}

func (h *Highlighter) formatter() chroma.Formatter {
	name := "terminal256"
	if h.basic {
		name = "terminal"
	}
	f := formatters.Get(name)
	if f == nil {
		f = formatters.Fallback
	}
	return f
}

// Themes lists the available Chroma style names.
func Themes() []string {
	return styles.Names()
}
