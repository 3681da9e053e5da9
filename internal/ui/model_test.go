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
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/adaryorg/poshcraft/internal/config"
	"github.com/adaryorg/poshcraft/internal/ids"
	"github.com/adaryorg/poshcraft/internal/metadata"
	"github.com/adaryorg/poshcraft/internal/model"
	"github.com/adaryorg/poshcraft/internal/storage"
)

type memStore struct {
	workspaces map[string]string
	entries    []storage.Entry
}

func newMemStore() *memStore {
	return &memStore{workspaces: map[string]string{}}
}

func (s *memStore) LoadWorkspace(name string) (string, error) {
	text, ok := s.workspaces[name]
	if !ok {
		return "", storage.ErrNotFound
	}
	return text, nil
}

func (s *memStore) SaveWorkspace(name, content string) error {
	s.workspaces[name] = content
	return nil
}

func (s *memStore) Record(e storage.Entry) (string, error) {
	s.entries = append(s.entries, e)
	return "e1", nil
}

func newTestModel(t *testing.T) (Model, *memStore) {
	t.Helper()
	reg := metadata.Default()
	settings := config.Default()
	settings.Export.Highlight = false
	settings.Export.OutputDir = t.TempDir()
	store := newMemStore()

	cfg := model.Default(reg, ids.NewSequence("t"))
	m := NewModel(cfg, Options{Settings: settings, Store: store, Registry: reg, Workspace: "test"})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model), store
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "home":
		return tea.KeyMsg{Type: tea.KeyHome}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m
}

func segmentTypes(b *model.Block) []string {
	var out []string
	for _, s := range b.Segments {
		out = append(out, s.Type())
	}
	return out
}

func TestNavigationClamps(t *testing.T) {
	m, _ := newTestModel(t)
	if len(m.rows) != 3 {
		t.Fatalf("expected block plus two segments, got %d rows", len(m.rows))
	}

	m = press(m, "k")
	if m.cursor != 0 {
		t.Errorf("cursor moved above the first row: %d", m.cursor)
	}
	m = press(m, "j", "j", "j", "j")
	if m.cursor != 2 {
		t.Errorf("cursor should stop on the last row, got %d", m.cursor)
	}
	if r, _ := m.current(); r.segment == nil || r.segment.Type() != "git" {
		t.Errorf("expected the git segment under the cursor")
	}
}

func TestPickerAddsAfterCursor(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(m, "j", "a")
	if m.currentMode != modePicker {
		t.Fatalf("expected picker mode, got %d", m.currentMode)
	}
	if len(m.matches) != len(m.registry.All()) {
		t.Errorf("empty query should list every segment")
	}

	m = press(m, "time")
	if len(m.matches) == 0 {
		t.Fatal("expected matches for time")
	}
	want := m.matches[0].Type
	m = press(m, "enter")

	got := segmentTypes(m.cfg.Blocks[0])
	if len(got) != 3 || got[1] != want {
		t.Fatalf("expected %s inserted after path, got %v", want, got)
	}
	if r, _ := m.current(); r.segment == nil || r.segment.Type() != want {
		t.Errorf("cursor should follow the new segment")
	}
	if !m.Dirty() {
		t.Error("adding a segment should mark the model dirty")
	}
}

func TestPickerEscapeCancels(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(m, "a", "esc")
	if m.currentMode != modeTree {
		t.Errorf("expected tree mode after esc")
	}
	if len(m.cfg.Blocks[0].Segments) != 2 || m.Dirty() {
		t.Errorf("cancelled picker must not change the configuration")
	}
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(m, "j", "x", "n")
	if len(m.cfg.Blocks[0].Segments) != 2 {
		t.Fatalf("delete without confirmation removed a segment")
	}

	m = press(m, "x", "x")
	got := segmentTypes(m.cfg.Blocks[0])
	if len(got) != 1 || got[0] != "git" {
		t.Errorf("expected only git left, got %v", got)
	}

	m = press(m, "k", "x", "x")
	if len(m.cfg.Blocks) != 0 {
		t.Errorf("expected the block to be removed")
	}
	if !strings.Contains(m.View(), "No blocks yet") {
		t.Errorf("empty outline should say so")
	}
}

func TestMoveSegmentsAndBlocks(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(m, "j", "J")
	if got := segmentTypes(m.cfg.Blocks[0]); got[0] != "git" || got[1] != "path" {
		t.Fatalf("expected path moved below git, got %v", got)
	}
	if r, _ := m.current(); r.segment.Type() != "path" {
		t.Errorf("cursor should stay on the moved segment")
	}

	// a second block; moving path down again crosses into it
	m = press(m, "b")
	if len(m.cfg.Blocks) != 2 {
		t.Fatalf("expected a second block, got %d", len(m.cfg.Blocks))
	}
	m = press(m, "k", "J")
	if got := segmentTypes(m.cfg.Blocks[1]); len(got) != 1 || got[0] != "path" {
		t.Errorf("expected path in the second block, got %v", got)
	}

	first := m.cfg.Blocks[0].ID
	m = press(m, "home", "J")
	if m.cfg.Blocks[1].ID != first {
		t.Errorf("expected the first block moved down")
	}
}

func TestDuplicate(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(m, "j", "d")
	got := segmentTypes(m.cfg.Blocks[0])
	if len(got) != 3 || got[0] != "path" || got[1] != "path" {
		t.Errorf("expected path duplicated in place, got %v", got)
	}
	if m.cursor != 2 {
		t.Errorf("cursor should move to the copy, got %d", m.cursor)
	}
}

func TestEditAssignments(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(m, "j", "e", "foreground=#ff0000", "enter")
	seg := m.cfg.Blocks[0].Segments[0]
	if seg.Foreground() != "#ff0000" {
		t.Errorf("expected foreground set, got %q", seg.Foreground())
	}

	m = press(m, "o", "max_depth=3", "enter")
	if v, _ := seg.Options().Get("max_depth"); v != int64(3) {
		t.Errorf("expected option max_depth=3, got %#v", v)
	}

	m = press(m, "g", "final_space=false", "enter")
	if m.cfg.FinalSpace() {
		t.Errorf("expected final_space false")
	}

	m = press(m, "k", "e", "newline=true", "enter")
	if !m.cfg.Blocks[0].Newline() {
		t.Errorf("expected block newline set")
	}

	m = press(m, "e", "no equals sign", "enter")
	if !strings.HasPrefix(m.status, "expected key=value") {
		t.Errorf("expected an error status for a bad assignment, got %q", m.status)
	}
}

func TestSaveAndQuit(t *testing.T) {
	m, store := newTestModel(t)
	m = press(m, "s")
	if !strings.Contains(store.workspaces["test"], `"$schema"`) {
		t.Fatalf("expected the workspace saved as JSON, got %q", store.workspaces["test"])
	}

	m = press(m, "j", "d")
	delete(store.workspaces, "test")
	next, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg")
	}
	if next.(Model).Dirty() {
		t.Errorf("quitting should save pending changes")
	}
	if _, ok := store.workspaces["test"]; !ok {
		t.Errorf("expected the workspace written on quit")
	}
}

func TestExportView(t *testing.T) {
	m, store := newTestModel(t)
	m = press(m, "v")
	if m.currentMode != modeExport || m.format != "json" {
		t.Fatalf("expected JSON export view, got mode %d format %s", m.currentMode, m.format)
	}
	if !strings.Contains(strings.Join(m.exportLines, "\n"), `"blocks"`) {
		t.Errorf("expected JSON export lines")
	}

	m = press(m, "tab")
	if m.format != "yaml" {
		t.Errorf("expected yaml after tab, got %s", m.format)
	}
	m = press(m, "tab", "tab")
	if m.format != "json" {
		t.Errorf("expected formats to cycle back to json, got %s", m.format)
	}

	m = press(m, "tab", "w")
	path := filepath.Join(m.settings.Export.OutputDir, "ohmyposh.yaml")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected %s written: %v", path, err)
	}
	if len(store.entries) != 1 || store.entries[0].Action != "download" || store.entries[0].Target != path {
		t.Errorf("expected a download history entry, got %+v", store.entries)
	}
	if store.entries[0].ThreatLevel != "none" {
		t.Errorf("starter configuration should carry no secrets")
	}

	m = press(m, "esc")
	if m.currentMode != modeTree {
		t.Errorf("esc should leave the export view")
	}
}

func TestViewRendersPreview(t *testing.T) {
	m, _ := newTestModel(t)
	view := m.View()
	for _, want := range []string{"test", "block 1", "preview"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m = press(m, "?")
	if !strings.Contains(m.View(), "save the workspace") {
		t.Errorf("help view missing bindings")
	}
	m = press(m, "z")
	if m.currentMode != modeTree {
		t.Errorf("any key should close help")
	}

	small := m
	small.width, small.height = 10, 5
	if small.View() != "Terminal too small" {
		t.Errorf("expected the too-small message")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		input    string
		basic    bool
		expected string
	}{
		{"", false, ""},
		{"#FF00FF", false, "#FF00FF"},
		{"red", false, "#FF0000"},
		{"Grey", false, "#808080"},
		{"141", false, "141"},
		{"red", true, "1"},
		{"9", true, "9"},
		{"141", true, ""},
		{"#FF00FF", true, ""},
	}

	for _, test := range tests {
		if got := string(parseColor(test.input, test.basic)); got != test.expected {
			t.Errorf("parseColor(%q, %v) = %q, expected %q", test.input, test.basic, got, test.expected)
		}
	}
}

func TestVisibleRange(t *testing.T) {
	tests := []struct {
		cursor, total, height int
		start, end            int
	}{
		{0, 3, 10, 0, 3},
		{0, 20, 5, 0, 5},
		{10, 20, 5, 8, 13},
		{19, 20, 5, 15, 20},
	}
	for _, test := range tests {
		start, end := visibleRange(test.cursor, test.total, test.height)
		if start != test.start || end != test.end {
			t.Errorf("visibleRange(%d, %d, %d) = %d..%d, expected %d..%d",
				test.cursor, test.total, test.height, start, end, test.start, test.end)
		}
	}
}
