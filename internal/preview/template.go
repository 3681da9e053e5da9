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

// Package preview approximates how a prompt configuration looks: it fills
// segment templates from mock data, splits inline color markup and draws the
// blocks with terminal colors.
package preview

import (
	"strconv"
	"strings"
	"time"
)

// Context is the data a template is rendered against. Nested objects are
// map[string]any.
type Context map[string]any

// keywords whose actions are dropped while their bodies are kept
var controlKeywords = map[string]bool{
	"if":       true,
	"else":     true,
	"end":      true,
	"with":     true,
	"range":    true,
	"block":    true,
	"define":   true,
	"template": true,
	"break":    true,
	"continue": true,
}

// Render fills a segment template. It understands only what a preview
// needs: {{ .A.B }} lookups, the date pipe, and Go-template trim markers.
// Conditions are not evaluated: every branch body is emitted. Any other
// action is removed. Missing values render as "".
func Render(tmpl string, ctx Context) string {
	var out strings.Builder
	out.Grow(len(tmpl))

	trimNext := false
	i := 0
	for i < len(tmpl) {
		open := strings.Index(tmpl[i:], "{{")
		if open < 0 {
			writeText(&out, tmpl[i:], trimNext, false)
			break
		}
		open += i

		end := strings.Index(tmpl[open+2:], "}}")
		if end < 0 {
			// unterminated action stays literal
			writeText(&out, tmpl[i:], trimNext, false)
			break
		}
		end += open + 2

		body := tmpl[open+2 : end]
		trimLeft := len(body) >= 2 && body[0] == '-' && isSpace(body[1])
		trimRight := len(body) >= 2 && body[len(body)-1] == '-' && isSpace(body[len(body)-2])
		if trimLeft {
			body = body[1:]
		}
		if trimRight {
			body = body[:len(body)-1]
		}

		writeText(&out, tmpl[i:open], trimNext, trimLeft)
		out.WriteString(evalAction(strings.TrimSpace(body), ctx))

		trimNext = trimRight
		i = end + 2
	}
	return out.String()
}

func writeText(out *strings.Builder, text string, trimLeading, trimTrailing bool) {
	if trimLeading {
		text = strings.TrimLeftFunc(text, isSpaceRune)
	}
	if trimTrailing {
		text = strings.TrimRightFunc(text, isSpaceRune)
	}
	out.WriteString(text)
}

func evalAction(action string, ctx Context) string {
	if action == "" || strings.HasPrefix(action, "/*") {
		return ""
	}
	if controlKeywords[firstWord(action)] {
		return ""
	}

	commands := strings.Split(action, "|")
	path := strings.TrimSpace(commands[0])
	if !isVarPath(path) {
		return ""
	}
	for _, cmd := range commands[1:] {
		// date only reformats, and a preview shows the mock value as is
		if firstWord(strings.TrimSpace(cmd)) != "date" {
			return ""
		}
	}

	v, ok := Lookup(ctx, path)
	if !ok {
		return ""
	}
	return formatValue(v)
}

// Lookup resolves a dotted path such as ".Working.Changed".
func Lookup(ctx Context, path string) (any, bool) {
	var cur any = map[string]any(ctx)
	for _, key := range strings.Split(strings.TrimPrefix(path, "."), ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Context:
		return m, true
	}
	return nil, false
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		return val.Format("Monday at 3:04 PM")
	}
	// objects and lists have no text form in a preview
	return ""
}

func isVarPath(s string) bool {
	if len(s) < 2 || s[0] != '.' {
		return false
	}
	for _, part := range strings.Split(s[1:], ".") {
		if part == "" {
			return false
		}
		for _, r := range part {
			if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
				return false
			}
		}
	}
	return true
}

func firstWord(s string) string {
	if i := strings.IndexFunc(s, isSpaceRune); i >= 0 {
		return s[:i]
	}
	return s
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isSpaceRune(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
