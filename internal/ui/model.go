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

// Package ui is the terminal editor: an outline of blocks and segments with a
// live prompt preview, a segment picker and an export view.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/adaryorg/poshcraft/internal/config"
	"github.com/adaryorg/poshcraft/internal/export"
	"github.com/adaryorg/poshcraft/internal/highlight"
	"github.com/adaryorg/poshcraft/internal/logging"
	"github.com/adaryorg/poshcraft/internal/metadata"
	"github.com/adaryorg/poshcraft/internal/model"
	"github.com/adaryorg/poshcraft/internal/workspace"
)

type mode int

const (
	modeTree mode = iota
	modePicker
	modeEdit
	modeConfirmDelete
	modeExport
	modeHelp
)

type editTarget int

const (
	editAttr editTarget = iota
	editOption
	editGlobal
)

// row is one outline line: a block, or a segment inside it.
type row struct {
	block   *model.Block
	segment *model.Segment
}

func (r row) id() string {
	if r.segment != nil {
		return r.segment.ID
	}
	return r.block.ID
}

// Options configure the editor. Zero values fall back to defaults.
type Options struct {
	Settings  *config.Config
	Store     workspace.Store
	Workspace string
	Registry  *metadata.Registry
	Basic     bool
}

type Model struct {
	cfg         *model.Config
	settings    *config.Config
	store       workspace.Store
	name        string
	registry    *metadata.Registry
	highlighter *highlight.Highlighter
	styles      styles
	basic       bool

	rows        []row
	cursor      int
	currentMode mode
	width       int
	height      int

	// edit prompt
	input   textinput.Model
	editFor editTarget

	// segment picker
	query        textinput.Model
	matches      []metadata.Segment
	pickerCursor int

	// export view
	format       export.Format
	exportLines  []string
	exportErr    error
	exportScroll int

	helpScroll int

	status string
	dirty  bool
}

// NewModel opens the editor on cfg.
func NewModel(cfg *model.Config, opts Options) Model {
	settings := opts.Settings
	if settings == nil {
		settings = config.Default()
	}
	reg := opts.Registry
	if reg == nil {
		reg = metadata.Default()
	}
	name := opts.Workspace
	if name == "" {
		name = workspace.DefaultName
	}
	format, ok := export.ParseFormat(settings.Export.Format)
	if !ok {
		format = export.FormatJSON
	}
	basic := opts.Basic || settings.Preview.BasicTerminal

	m := Model{
		cfg:      cfg,
		settings: settings,
		store:    opts.Store,
		name:     name,
		registry: reg,
		styles:   newStyles(settings.Theme, basic),
		basic:    basic,
		format:   format,
		width:    80,
		height:   24,
	}
	if settings.Export.Highlight {
		m.highlighter = highlight.New(settings.Export.HighlightTheme, basic)
	}
	m.rebuild()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Config returns the configuration being edited.
func (m Model) Config() *model.Config {
	return m.cfg
}

// Dirty reports whether there are unsaved changes.
func (m Model) Dirty() bool {
	return m.dirty
}

func (m *Model) rebuild() {
	m.rows = m.rows[:0]
	for _, b := range m.cfg.Blocks {
		m.rows = append(m.rows, row{block: b})
		for _, s := range b.Segments {
			m.rows = append(m.rows, row{block: b, segment: s})
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) selectID(id string) {
	for i, r := range m.rows {
		if r.id() == id {
			m.cursor = i
			return
		}
	}
}

func (m Model) current() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

// changed marks the configuration modified and keeps the cursor on id.
func (m *Model) changed(id string) {
	m.dirty = true
	m.rebuild()
	if id != "" {
		m.selectID(id)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.currentMode {
		case modePicker:
			return m.updatePicker(msg)
		case modeEdit:
			return m.updateEdit(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)
		case modeExport:
			return m.updateExport(msg)
		case modeHelp:
			return m.updateHelp(msg)
		default:
			return m.updateTree(msg)
		}
	}
	return m, nil
}

func (m Model) updateTree(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch msg.String() {
	case "ctrl+c", "q":
		if m.dirty {
			m.save()
		}
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "home":
		m.cursor = 0
	case "end":
		m.cursor = len(m.rows) - 1

	case "a":
		return m.openPicker()
	case "b":
		m.addBlock()
	case "x", "delete":
		if _, ok := m.current(); ok {
			m.currentMode = modeConfirmDelete
		}
	case "K", "shift+up":
		m.move(-1)
	case "J", "shift+down":
		m.move(1)
	case "d":
		m.duplicate()

	case "e", "enter":
		if _, ok := m.current(); ok {
			return m.openEdit(editAttr)
		}
	case "o":
		if r, ok := m.current(); ok && r.segment != nil {
			return m.openEdit(editOption)
		}
	case "g":
		return m.openEdit(editGlobal)

	case "v":
		m.currentMode = modeExport
		m.exportScroll = 0
		m.refreshExport()
	case "s":
		m.save()
	case "?":
		m.currentMode = modeHelp
		m.helpScroll = 0
	}
	return m, nil
}

func (m *Model) addBlock() {
	after := len(m.cfg.Blocks)
	if r, ok := m.current(); ok {
		after = blockIndex(m.cfg, r.block.ID) + 1
	}
	b := m.cfg.AddBlock(model.BlockPrompt, model.AlignLeft)
	if err := m.cfg.MoveBlock(b.ID, after); err != nil {
		m.status = err.Error()
	}
	m.changed(b.ID)
	m.status = "Added block"
}

// move shifts the current row by delta. Segments cross into the neighbouring
// block at either end of their own.
func (m *Model) move(delta int) {
	r, ok := m.current()
	if !ok {
		return
	}

	bi := blockIndex(m.cfg, r.block.ID)
	if r.segment == nil {
		target := bi + delta
		if target < 0 || target >= len(m.cfg.Blocks) {
			return
		}
		if err := m.cfg.MoveBlock(r.block.ID, target); err != nil {
			m.status = err.Error()
			return
		}
		m.changed(r.block.ID)
		return
	}

	si := segmentIndex(r.block, r.segment.ID)
	to, index := r.block, si+delta
	switch {
	case index < 0:
		if bi == 0 {
			return
		}
		to = m.cfg.Blocks[bi-1]
		index = len(to.Segments)
	case index >= len(r.block.Segments):
		if bi == len(m.cfg.Blocks)-1 {
			return
		}
		to = m.cfg.Blocks[bi+1]
		index = 0
	}
	if err := m.cfg.MoveSegment(r.segment.ID, to.ID, index); err != nil {
		m.status = err.Error()
		return
	}
	m.changed(r.segment.ID)
}

func (m *Model) duplicate() {
	r, ok := m.current()
	if !ok || r.segment == nil {
		return
	}
	dup, err := m.cfg.DuplicateSegment(r.segment.ID)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.changed(dup.ID)
	m.status = "Duplicated " + r.segment.Type()
}

func (m *Model) remove() {
	r, ok := m.current()
	if !ok {
		return
	}
	var err error
	if r.segment != nil {
		err = m.cfg.RemoveSegment(r.segment.ID)
		m.status = "Removed " + r.segment.Type()
	} else {
		err = m.cfg.RemoveBlock(r.block.ID)
		m.status = "Removed block"
	}
	if err != nil {
		m.status = err.Error()
		return
	}
	m.changed("")
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.currentMode = modeTree
	switch msg.String() {
	case "x", "y", "delete":
		m.remove()
	default:
		m.status = "Delete cancelled"
	}
	return m, nil
}

func (m Model) openPicker() (tea.Model, tea.Cmd) {
	m.query = textinput.New()
	m.query.Prompt = "segment> "
	m.query.Placeholder = "type to search"
	cmd := m.query.Focus()
	m.matches = m.registry.Search("")
	m.pickerCursor = 0
	m.currentMode = modePicker
	return m, cmd
}

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.currentMode = modeTree
		return m, nil
	case "up", "ctrl+p":
		if m.pickerCursor > 0 {
			m.pickerCursor--
		}
		return m, nil
	case "down", "ctrl+n":
		if m.pickerCursor < len(m.matches)-1 {
			m.pickerCursor++
		}
		return m, nil
	case "enter":
		m.currentMode = modeTree
		if m.pickerCursor < len(m.matches) {
			m.addSegment(m.matches[m.pickerCursor].Type)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.query, cmd = m.query.Update(msg)
	m.matches = m.registry.Search(m.query.Value())
	if m.pickerCursor >= len(m.matches) {
		m.pickerCursor = 0
	}
	return m, cmd
}

// addSegment inserts a segment after the cursor, or at the end of the
// current block when the cursor is on the block itself.
func (m *Model) addSegment(segType string) {
	r, ok := m.current()
	if !ok {
		r = row{block: m.cfg.AddBlock(model.BlockPrompt, model.AlignLeft)}
	}
	seg, err := m.cfg.AddSegment(r.block.ID, segType, m.registry)
	if err != nil {
		m.status = err.Error()
		return
	}
	if r.segment != nil {
		index := segmentIndex(r.block, r.segment.ID) + 1
		if err := m.cfg.MoveSegment(seg.ID, r.block.ID, index); err != nil {
			m.status = err.Error()
		}
	}
	m.changed(seg.ID)
	m.status = "Added " + m.registry.Resolve(segType).DisplayName()
}

func (m Model) openEdit(target editTarget) (tea.Model, tea.Cmd) {
	m.input = textinput.New()
	m.input.Placeholder = "key=value"
	switch target {
	case editOption:
		m.input.Prompt = "option> "
	case editGlobal:
		m.input.Prompt = "global> "
	default:
		m.input.Prompt = "set> "
	}
	m.editFor = target
	m.currentMode = modeEdit
	return m, m.input.Focus()
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.currentMode = modeTree
		return m, nil
	case "enter":
		m.currentMode = modeTree
		m.applyEdit(m.input.Value())
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) applyEdit(text string) {
	key, value, err := workspace.ParseAssignment(text)
	if err != nil {
		m.status = err.Error()
		return
	}

	r, _ := m.current()
	id := ""
	switch {
	case m.editFor == editGlobal:
		err = m.cfg.SetGlobal(key, value)
	case r.block == nil:
		return
	case m.editFor == editOption:
		id = r.segment.ID
		err = m.cfg.SetSegmentOption(id, key, value)
	case r.segment != nil:
		id = r.segment.ID
		err = m.cfg.SetSegmentAttr(id, key, value)
	default:
		id = r.block.ID
		err = m.cfg.SetBlockAttr(id, key, value)
	}
	if err != nil {
		m.status = err.Error()
		return
	}
	m.changed(id)
	m.status = fmt.Sprintf("Set %s", key)
}

func (m *Model) refreshExport() {
	text, err := export.Export(m.cfg, m.format)
	m.exportErr = err
	if err != nil {
		m.exportLines = nil
		return
	}
	text = strings.TrimRight(text, "\n")
	if m.highlighter != nil {
		if lines, err := m.highlighter.Highlight(text, string(m.format)); err == nil {
			m.exportLines = lines
			return
		}
	}
	m.exportLines = strings.Split(text, "\n")
}

func (m Model) updateExport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	_, _, _, height := m.dialogSize()
	maxScroll := len(m.exportLines) - height
	if maxScroll < 0 {
		maxScroll = 0
	}

	switch msg.String() {
	case "esc", "q", "v":
		m.currentMode = modeTree
	case "tab":
		m.format = nextFormat(m.format)
		m.exportScroll = 0
		m.refreshExport()
	case "up", "k":
		if m.exportScroll > 0 {
			m.exportScroll--
		}
	case "down", "j":
		if m.exportScroll < maxScroll {
			m.exportScroll++
		}
	case "pgup":
		m.exportScroll = max(0, m.exportScroll-height)
	case "pgdown":
		m.exportScroll = min(maxScroll, m.exportScroll+height)
	case "c":
		content, err := export.Copy(m.cfg, m.format)
		if err != nil {
			m.status = err.Error()
			break
		}
		m.status = fmt.Sprintf("Copied %s to clipboard", strings.ToUpper(string(m.format)))
		m.record("copy", "clipboard", content)
	case "w":
		path, err := export.Download(m.cfg, m.format, m.settings.Export.OutputDir)
		if err != nil {
			m.status = err.Error()
			break
		}
		m.status = "Wrote " + path
		content, _ := export.Export(m.cfg, m.format)
		m.record("download", path, content)
	}
	return m, nil
}

func (m Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	case "down", "j":
		if m.helpScroll < len(helpLines)-1 {
			m.helpScroll++
		}
	default:
		m.currentMode = modeTree
	}
	return m, nil
}

// record adds the export to the history and warns about option values that
// look like credentials.
func (m *Model) record(action, target, content string) {
	if m.store == nil {
		return
	}
	findings, err := workspace.Record(m.store, m.cfg, m.format, action, target, content)
	if err != nil {
		logging.Error("Failed to record export: %v", err)
		return
	}
	if len(findings) > 0 {
		m.status += fmt.Sprintf(" (warning: %d option value(s) look like secrets)", len(findings))
	}
}

func (m *Model) save() {
	if m.store == nil {
		m.status = "No workspace store configured"
		return
	}
	if err := workspace.Save(m.store, m.name, m.cfg); err != nil {
		m.status = err.Error()
		return
	}
	m.dirty = false
	m.status = "Saved workspace " + m.name
}

func nextFormat(f export.Format) export.Format {
	for i, candidate := range export.Formats {
		if candidate == f {
			return export.Formats[(i+1)%len(export.Formats)]
		}
	}
	return export.FormatJSON
}

func blockIndex(cfg *model.Config, id string) int {
	for i, b := range cfg.Blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func segmentIndex(b *model.Block, id string) int {
	for i, s := range b.Segments {
		if s.ID == id {
			return i
		}
	}
	return -1
}
