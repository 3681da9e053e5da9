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

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/adaryorg/poshcraft/internal/config"
	"github.com/adaryorg/poshcraft/internal/ids"
	"github.com/adaryorg/poshcraft/internal/metadata"
	"github.com/adaryorg/poshcraft/internal/model"
	"github.com/adaryorg/poshcraft/internal/preview"
)

func testConfig() *model.Config {
	return model.Default(metadata.Default(), ids.NewSequence("c"))
}

func TestSegmentAddresses(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		arg     string
		want    string
		wantErr bool
	}{
		{"1.1", "path", false},
		{"1.2", "git", false},
		{"1.3", "", true},
		{"2.1", "", true},
		{"1", "", true},
		{"1.x", "", true},
		{"0.1", "", true},
	}

	for _, test := range tests {
		_, s, err := segmentAt(cfg, test.arg)
		if test.wantErr {
			if err == nil {
				t.Errorf("segmentAt(%q) should fail", test.arg)
			}
			continue
		}
		if err != nil {
			t.Errorf("segmentAt(%q): %v", test.arg, err)
			continue
		}
		if s.Type() != test.want {
			t.Errorf("segmentAt(%q) = %s, expected %s", test.arg, s.Type(), test.want)
		}
	}

	if _, err := blockAt(cfg, "2"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("expected ErrNotFound for a missing block, got %v", err)
	}
}

func TestGlobalAssignments(t *testing.T) {
	tests := []struct {
		args []string
		want []string
		err  bool
	}{
		{[]string{"final_space", "false"}, []string{"final_space=false"}, false},
		{[]string{"accent_color"}, []string{"accent_color="}, false},
		{[]string{"a=1", "b=2"}, []string{"a=1", "b=2"}, false},
		{[]string{"a", "b", "c"}, nil, true},
	}
	for _, test := range tests {
		got, err := globalAssignments(test.args)
		if (err != nil) != test.err {
			t.Errorf("globalAssignments(%v) error = %v", test.args, err)
			continue
		}
		if !reflect.DeepEqual(got, test.want) {
			t.Errorf("globalAssignments(%v) = %v, expected %v", test.args, got, test.want)
		}
	}
}

func TestAssignAppliesInOrder(t *testing.T) {
	cfg := testConfig()
	err := assign([]string{"final_space=false", "accent_color=#ff0000"}, cfg.SetGlobal)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FinalSpace() {
		t.Errorf("expected final_space false")
	}
	if v, _ := cfg.Get("accent_color"); v != "#ff0000" {
		t.Errorf("expected accent_color set, got %v", v)
	}

	if err := assign([]string{"broken"}, cfg.SetGlobal); err == nil {
		t.Errorf("expected an error for an assignment without =")
	}
}

func TestSetPath(t *testing.T) {
	ctx := preview.MockData()
	setPath(ctx, "Folder", "src")
	setPath(ctx, ".Env.USER", "me")
	setPath(ctx, "Working.Changed", true)

	if got := preview.Render("{{ .Folder }} {{ .Env.USER }}", ctx); got != "src me" {
		t.Errorf("unexpected render %q", got)
	}
	if v, ok := preview.Lookup(ctx, ".Working.Changed"); !ok || v != true {
		t.Errorf("expected nested override, got %v", v)
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Errorf("shortID = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID = %q", got)
	}
}

func TestWatchFileStopsOnCancel(t *testing.T) {
	settings = config.Default()
	registry = metadata.Default()
	t.Cleanup(func() {
		settings = nil
		registry = nil
		watchPNG = ""
	})

	dir := t.TempDir()
	path := filepath.Join(dir, "theme.json")
	if err := os.WriteFile(path, []byte(`{"blocks":[{"type":"prompt","alignment":"left","segments":[{"type":"text","template":"hi"}]}]}`), 0644); err != nil {
		t.Fatal(err)
	}
	watchPNG = filepath.Join(dir, "theme.png")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := watchFile(ctx, path, time.Millisecond); err != nil {
		t.Fatalf("watchFile: %v", err)
	}
	if _, err := os.Stat(watchPNG); err != nil {
		t.Errorf("expected the snapshot written on the first draw: %v", err)
	}

	if err := watchFile(ctx, filepath.Join(dir, "missing.json"), time.Millisecond); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}

func TestWarnSecrets(t *testing.T) {
	cfg := testConfig()
	var buf bytes.Buffer
	if n := warnSecrets(&buf, cfg); n != 0 || buf.Len() != 0 {
		t.Fatalf("clean config: n = %d, output %q", n, buf.String())
	}

	seg := cfg.Blocks[0].Segments[0]
	if err := cfg.SetSegmentOption(seg.ID, "api_key", "abc123"); err != nil {
		t.Fatalf("SetSegmentOption: %v", err)
	}
	if n := warnSecrets(&buf, cfg); n != 1 {
		t.Fatalf("findings = %d, want 1", n)
	}
	out := buf.String()
	if !strings.Contains(out, "options.api_key") || !strings.Contains(out, "risk level") {
		t.Errorf("unexpected warnings: %q", out)
	}
}
