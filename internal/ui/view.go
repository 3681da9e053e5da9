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
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/adaryorg/poshcraft/internal/preview"
)

var helpLines = []string{
	"Outline",
	"  j/k, up/down   move the cursor",
	"  J/K            move the block or segment",
	"  a              add a segment after the cursor",
	"  b              add a block",
	"  d              duplicate the segment",
	"  x              delete (press x again to confirm)",
	"",
	"Editing",
	"  e, enter       set an attribute (key=value)",
	"  o              set a segment option (key=value)",
	"  g              set a global option (key=value)",
	"                 an empty value or null removes the key",
	"",
	"Export",
	"  v              open the export view",
	"  tab            next format",
	"  c              copy to clipboard",
	"  w              write the file to the output directory",
	"",
	"  s              save the workspace",
	"  q              save and quit",
	"  ?              this help",
}

func (m Model) View() string {
	if m.width < 20 || m.height < 8 {
		return "Terminal too small"
	}
	switch m.currentMode {
	case modeHelp:
		return m.renderHelp()
	case modeExport:
		return m.renderExport()
	}
	return m.renderMain()
}

func (m Model) header(title string) string {
	h := "poshcraft · " + title + " · " + m.name
	if m.dirty {
		h += " *"
	}
	return h
}

func (m Model) renderMain() string {
	width, height, contentWidth, contentHeight := m.dialogSize()

	previewLines := m.previewLines(contentWidth)
	listHeight := contentHeight - len(previewLines) - 1
	if m.currentMode == modeEdit || m.currentMode == modeConfirmDelete {
		listHeight--
	}
	if listHeight < 1 {
		listHeight = 1
	}

	var body []string
	if m.currentMode == modePicker {
		body = m.pickerLines(listHeight, contentWidth)
	} else {
		body = m.outlineLines(listHeight, contentWidth)
	}
	for len(body) < listHeight {
		body = append(body, "")
	}

	switch m.currentMode {
	case modeEdit:
		body = append(body, m.input.View())
	case modeConfirmDelete:
		body = append(body, m.styles.warning.Render(m.deletePrompt()))
	}

	body = append(body, m.styles.dim.Render(runewidth.FillRight("── preview ", contentWidth)))
	body = append(body, previewLines...)

	footer := m.status
	if footer == "" {
		footer = m.hints()
	}
	content := m.frameContent(m.header("editor"), body, footer, contentWidth, contentHeight)
	return m.framedDialog(width, height, content)
}

func (m Model) hints() string {
	switch m.currentMode {
	case modePicker:
		return "enter: add  up/down: choose  esc: cancel"
	case modeEdit:
		return "enter: apply  esc: cancel"
	case modeConfirmDelete:
		return "x: delete  any other key: cancel"
	}
	return "a: add  b: block  e: edit  o: option  x: delete  v: export  s: save  ?: help  q: quit"
}

func (m Model) deletePrompt() string {
	r, ok := m.current()
	if !ok {
		return ""
	}
	if r.segment != nil {
		return fmt.Sprintf("Delete segment %s? x to confirm", r.segment.Type())
	}
	return fmt.Sprintf("Delete block with %d segment(s)? x to confirm", len(r.block.Segments))
}

// visibleRange keeps cursor inside a window of height rows.
func visibleRange(cursor, total, height int) (int, int) {
	if total <= height {
		return 0, total
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if start+height > total {
		start = total - height
	}
	return start, start + height
}

func (m Model) outlineLines(height, width int) []string {
	if len(m.rows) == 0 {
		return []string{m.styles.dim.Render("No blocks yet. Press b to add one or a to add a segment.")}
	}

	start, end := visibleRange(m.cursor, len(m.rows), height)
	lines := make([]string, 0, end-start)
	blockNo := 0
	for i := 0; i < start; i++ {
		if m.rows[i].segment == nil {
			blockNo++
		}
	}

	for i := start; i < end; i++ {
		r := m.rows[i]
		var text string
		if r.segment == nil {
			blockNo++
			text = fmt.Sprintf("▾ block %d  %s %s", blockNo, r.block.Type(), r.block.Alignment())
			if r.block.Newline() {
				text += "  newline"
			}
			if len(r.block.Segments) == 0 {
				text += "  (empty)"
			}
		} else {
			meta := m.registry.Resolve(r.segment.Type())
			text = fmt.Sprintf("    %s  %s", meta.DisplayName(), m.styles.dim.Render(r.segment.Style()))
			if !meta.Known {
				text += m.styles.warning.Render("  unknown type")
			}
		}

		text = runewidth.Truncate(text, width, "...")
		if i == m.cursor {
			text = m.styles.selected.Render(runewidth.FillRight(text, width))
		}
		lines = append(lines, text)
	}
	return lines
}

func (m Model) pickerLines(height, width int) []string {
	lines := []string{m.query.View()}
	if len(m.matches) == 0 {
		return append(lines, m.styles.dim.Render("no matching segment"))
	}

	start, end := visibleRange(m.pickerCursor, len(m.matches), height-1)
	for i := start; i < end; i++ {
		seg := m.matches[i]
		text := fmt.Sprintf("  %-14s %s", seg.Type, m.styles.dim.Render(seg.Description))
		text = runewidth.Truncate(text, width, "...")
		if i == m.pickerCursor {
			text = m.styles.search.Render(runewidth.FillRight(text, width))
		}
		lines = append(lines, text)
	}
	return lines
}

func (m Model) previewOptions(width int) preview.Options {
	return preview.Options{
		Theme:    preview.ThemeFor(m.settings.Preview.Background),
		Width:    width,
		Basic:    m.basic,
		Registry: m.registry,
	}
}

func (m Model) previewLines(width int) []string {
	opts := m.previewOptions(width)
	return strings.Split(preview.Draw(preview.Layout(m.cfg, opts), opts), "\n")
}

func (m Model) renderExport() string {
	width, height, contentWidth, contentHeight := m.dialogSize()

	var body []string
	if m.exportErr != nil {
		body = []string{m.styles.warning.Render(m.exportErr.Error())}
	} else {
		end := min(len(m.exportLines), m.exportScroll+contentHeight)
		body = append(body, m.exportLines[m.exportScroll:end]...)
	}

	title := "export " + strings.ToUpper(string(m.format))
	footer := m.status
	if footer == "" {
		footer = "tab: format  c: copy  w: write file  up/down: scroll  esc: back"
	}
	content := m.frameContent(m.header(title), body, footer, contentWidth, contentHeight)
	return m.framedDialog(width, height, content)
}

func (m Model) renderHelp() string {
	width, height, contentWidth, contentHeight := m.dialogSize()
	end := min(len(helpLines), m.helpScroll+contentHeight)
	body := helpLines[m.helpScroll:end]
	content := m.frameContent(m.header("help"), body, "any key: close", contentWidth, contentHeight)
	return m.framedDialog(width, height, content)
}
