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
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// dialogSize returns the outer frame size and the usable content size.
func (m Model) dialogSize() (width, height, contentWidth, contentHeight int) {
	width = m.width - 2
	height = m.height - 2
	if width < 20 {
		width = 20
	}
	if height < 8 {
		height = 8
	}
	// border plus horizontal padding
	contentWidth = width - 4
	// border, header with separator, footer with separator
	contentHeight = height - 6
	return width, height, contentWidth, contentHeight
}

// framedDialog wraps content in the rounded border and centers it.
func (m Model) framedDialog(width, height int, content string) string {
	dialog := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.styles.border).
		Padding(0, 1).
		Width(width - 2).
		Height(height - 2).
		Render(content)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, dialog)
}

// frameContent lays out a header, a body of exactly height lines and a footer.
func (m Model) frameContent(header string, body []string, footer string, width, height int) string {
	rule := strings.Repeat("─", width)

	var b strings.Builder
	b.WriteString(m.styles.header.Render(runewidth.Truncate(header, width, "...")))
	b.WriteString("\n")
	b.WriteString(rule)
	b.WriteString("\n")

	for i := 0; i < height; i++ {
		if i < len(body) {
			b.WriteString(body[i])
		}
		b.WriteString("\n")
	}

	b.WriteString(rule)
	b.WriteString("\n")
	b.WriteString(m.styles.status.Render(runewidth.Truncate(footer, width, "...")))
	return b.String()
}
