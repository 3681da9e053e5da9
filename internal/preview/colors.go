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
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/adaryorg/poshcraft/internal/tree"
)

// Theme is the preview backdrop.
type Theme struct {
	Name       string
	Background string
	Text       string
}

var (
	DarkTheme  = Theme{Name: "dark", Background: "#1e1e1e", Text: "#cccccc"}
	LightTheme = Theme{Name: "light", Background: "#ffffff", Text: "#333333"}
)

// ThemeFor returns the named theme; anything but "light" is dark.
func ThemeFor(name string) Theme {
	if strings.EqualFold(name, LightTheme.Name) {
		return LightTheme
	}
	return DarkTheme
}

// default segment foreground when none is configured
const defaultForeground = "#ffffff"

var cssColors = map[string]string{
	"black":     "#000000",
	"red":       "#FF0000",
	"green":     "#008000",
	"yellow":    "#FFFF00",
	"blue":      "#0000FF",
	"magenta":   "#FF00FF",
	"cyan":      "#00FFFF",
	"white":     "#FFFFFF",
	"gray":      "#808080",
	"grey":      "#808080",
	"darkred":   "#8B0000",
	"darkgreen": "#006400",
	"darkblue":  "#00008B",
	"orange":    "#FFA500",
	"purple":    "#800080",
	"pink":      "#FFC0CB",
	"brown":     "#A52A2A",
	"lime":      "#00FF00",
	"navy":      "#000080",
	"maroon":    "#800000",
	"olive":     "#808000",
	"teal":      "#008080",
	"silver":    "#C0C0C0",
	"gold":      "#FFD700",
}

// colorScope carries what the color keywords of a segment refer to.
type colorScope struct {
	palette    *tree.Map
	background string
	foreground string
	parentBg   string
	parentFg   string
}

// resolve turns a configured color into a hex or ANSI value, or "" for no
// color. It understands palette references (p:name), transparent, and the
// background/foreground/parentBackground/parentForeground keywords.
func (s colorScope) resolve(value string) string {
	return s.resolveDepth(value, 0)
}

func (s colorScope) resolveDepth(value string, depth int) string {
	value = strings.TrimSpace(value)
	if value == "" || depth > 4 {
		return ""
	}
	if strings.HasPrefix(value, "#") {
		return value
	}
	if name, ok := strings.CutPrefix(value, "p:"); ok {
		return s.resolveDepth(tree.String(s.palette, name), depth+1)
	}

	switch value {
	case "transparent":
		return ""
	case "background":
		return s.resolveDepth(s.background, depth+1)
	case "foreground":
		return s.resolveDepth(s.foreground, depth+1)
	case "parentBackground":
		return s.parentBg
	case "parentForeground":
		return s.parentFg
	}

	if hex, ok := cssColors[strings.ToLower(value)]; ok {
		return hex
	}
	// ANSI color number or name lipgloss understands
	return value
}

func style(r *lipgloss.Renderer, fg, bg string) lipgloss.Style {
	st := r.NewStyle()
	if fg != "" {
		st = st.Foreground(lipgloss.Color(fg))
	}
	if bg != "" {
		st = st.Background(lipgloss.Color(bg))
	}
	return st
}
