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

package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/adaryorg/poshcraft/internal/config"
)

// styles are the lipgloss styles the editor draws with.
type styles struct {
	header   lipgloss.Style
	status   lipgloss.Style
	search   lipgloss.Style
	warning  lipgloss.Style
	selected lipgloss.Style
	border   lipgloss.Color
	dim      lipgloss.Style
}

func newStyles(theme config.ThemeConfig, basic bool) styles {
	return styles{
		header:   createStyle(theme.Header, basic),
		status:   createStyle(theme.Status, basic),
		search:   createStyle(theme.Search, basic),
		warning:  createStyle(theme.Warning, basic),
		selected: createSelectedStyle(theme.Selected, basic),
		border:   parseColor(theme.Border.Foreground, basic),
		dim:      lipgloss.NewStyle().Faint(true),
	}
}

var namedColors = map[string]string{
	"black":   "#000000",
	"red":     "#FF0000",
	"green":   "#008000",
	"yellow":  "#FFFF00",
	"blue":    "#0000FF",
	"magenta": "#FF00FF",
	"cyan":    "#00FFFF",
	"white":   "#FFFFFF",
	"gray":    "#808080",
	"grey":    "#808080",
	"orange":  "#FFA500",
	"purple":  "#800080",
	"pink":    "#FFC0CB",
	"navy":    "#000080",
	"teal":    "#008080",
	"silver":  "#C0C0C0",
	"gold":    "#FFD700",
	"violet":  "#EE82EE",
	"coral":   "#FF7F50",
}

// basicColors maps named colors onto the 16 ANSI slots for terminals that
// cannot show 256 colors.
var basicColors = map[string]string{
	"black":   "0",
	"red":     "1",
	"green":   "2",
	"yellow":  "3",
	"blue":    "4",
	"magenta": "5",
	"purple":  "5",
	"cyan":    "6",
	"teal":    "6",
	"white":   "7",
	"silver":  "7",
	"gray":    "8",
	"grey":    "8",
}

// parseColor accepts hex, CSS names and ANSI numbers. In basic mode ANSI
// numbers above 15 and hex values fall back to the terminal default.
func parseColor(value string, basic bool) lipgloss.Color {
	value = strings.TrimSpace(value)
	if value == "" {
		return lipgloss.Color("")
	}
	name := strings.ToLower(value)

	if basic {
		if ansi, ok := basicColors[name]; ok {
			return lipgloss.Color(ansi)
		}
		if n, err := strconv.Atoi(value); err == nil && n >= 0 && n < 16 {
			return lipgloss.Color(value)
		}
		return lipgloss.Color("")
	}

	if strings.HasPrefix(value, "#") {
		return lipgloss.Color(value)
	}
	if hex, ok := namedColors[name]; ok {
		return lipgloss.Color(hex)
	}
	return lipgloss.Color(value)
}

// createStyle builds a foreground-only style so it can sit on any row.
func createStyle(c config.ColorConfig, basic bool) lipgloss.Style {
	style := lipgloss.NewStyle()
	if c.Foreground != "" {
		style = style.Foreground(parseColor(c.Foreground, basic))
	}
	if c.Bold {
		style = style.Bold(true)
	}
	return style
}

// createSelectedStyle is createStyle plus the background.
func createSelectedStyle(c config.ColorConfig, basic bool) lipgloss.Style {
	style := createStyle(c, basic)
	if c.Background != "" {
		style = style.Background(parseColor(c.Background, basic))
	} else {
		style = style.Reverse(true)
	}
	return style
}
