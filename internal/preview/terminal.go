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

package preview

import (
	"os"
	"strings"
)

// Capabilities describes what the current terminal can display.
type Capabilities struct {
	Unicode bool
	Color   bool
}

// DetectCapabilities inspects TERM, TERM_PROGRAM, the locale and NO_COLOR.
func DetectCapabilities() Capabilities {
	term := strings.ToLower(os.Getenv("TERM"))
	termProgram := strings.ToLower(os.Getenv("TERM_PROGRAM"))

	return Capabilities{
		Unicode: detectUnicodeSupport(term, termProgram),
		Color:   detectColorSupport(term),
	}
}

func detectUnicodeSupport(term, termProgram string) bool {
	unicodeTerminals := []string{
		"xterm-256color", "screen-256color", "tmux-256color",
		"alacritty", "kitty", "iterm", "vscode", "wezterm", "ghostty",
		"gnome-terminal", "konsole", "terminology",
	}
	for _, supported := range unicodeTerminals {
		if strings.Contains(term, supported) || strings.Contains(termProgram, supported) {
			return true
		}
	}

	for _, env := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		v := strings.ToUpper(os.Getenv(env))
		if strings.Contains(v, "UTF-8") || strings.Contains(v, "UTF8") {
			return true
		}
	}

	if term == "" || strings.Contains(term, "dumb") || term == "linux" {
		return false
	}
	return true
}

func detectColorSupport(term string) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	for _, noColor := range []string{"dumb", "unknown"} {
		if strings.Contains(term, noColor) {
			return false
		}
	}
	return true
}

// ASCII replacements for glyphs a basic terminal cannot draw.
var asciiFallbacks = map[rune]string{
	0xE0B0: ">", 0xE0B1: ">", 0xE0B4: ")", 0xE0B5: ")",
	0xE0BC: "/", 0xE0C0: ">", 0xE0D2: ")",
	0xE0B2: "<", 0xE0B3: "<", 0xE0B6: "(", 0xE0B7: "(",
	0xE0BE: "/", 0xE0C2: "<", 0xE0D4: "(",
	'❯': ">",
	'↑': "^",
	'↓': "v",
	'█': "#",
	'░': ".",
	'…': "...",
}

// ASCII rewrites text for terminals without Unicode: separators become
// ASCII look-alikes, other private-use icons are dropped and anything else
// outside ASCII becomes "?".
func ASCII(text string) string {
	var b strings.Builder
	for _, r := range text {
		switch {
		case r < 0x80:
			b.WriteRune(r)
		case asciiFallbacks[r] != "":
			b.WriteString(asciiFallbacks[r])
		case r >= 0xE000 && r <= 0xF8FF, r >= 0xF0000:
			// Nerd Font icon
		default:
			b.WriteByte('?')
		}
	}
	return b.String()
}
