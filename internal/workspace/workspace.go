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

// Package workspace persists the configuration being edited between runs and
// records exports in the history.
package workspace

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/adaryorg/poshcraft/internal/escape"
	"github.com/adaryorg/poshcraft/internal/export"
	"github.com/adaryorg/poshcraft/internal/ids"
	"github.com/adaryorg/poshcraft/internal/importer"
	"github.com/adaryorg/poshcraft/internal/logging"
	"github.com/adaryorg/poshcraft/internal/metadata"
	"github.com/adaryorg/poshcraft/internal/model"
	"github.com/adaryorg/poshcraft/internal/secrets"
	"github.com/adaryorg/poshcraft/internal/storage"
)

// DefaultName is the workspace used when none is configured.
const DefaultName = "default"

// Store is the part of storage.Storage a workspace needs.
type Store interface {
	LoadWorkspace(name string) (string, error)
	SaveWorkspace(name, content string) error
	Record(e storage.Entry) (string, error)
}

// Load returns the saved configuration, or the starter configuration when
// nothing has been saved under name yet.
func Load(st Store, name string, reg *metadata.Registry, gen ids.Generator) (*model.Config, error) {
	text, err := st.LoadWorkspace(name)
	if errors.Is(err, storage.ErrNotFound) {
		logging.Info("Workspace %s not found, starting from the default configuration", name)
		return model.Default(reg, gen), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load workspace %s: %w", name, err)
	}
	cfg, err := importer.New(gen).Import(text, name+".json")
	if err != nil {
		return nil, fmt.Errorf("workspace %s is corrupt: %w", name, err)
	}
	return cfg, nil
}

// Save stores cfg under name as JSON.
func Save(st Store, name string, cfg *model.Config) error {
	text, err := export.Export(cfg, export.FormatJSON)
	if err != nil {
		return err
	}
	if err := st.SaveWorkspace(name, text); err != nil {
		return fmt.Errorf("failed to save workspace %s: %w", name, err)
	}
	logging.Debug("Saved workspace %s (%d bytes)", name, len(text))
	return nil
}

// Record adds an export of cfg to the history, graded by a secret scan of
// its option values. The findings are returned so callers can warn.
func Record(st Store, cfg *model.Config, format export.Format, action, target, content string) ([]secrets.Finding, error) {
	findings := secrets.Scan(cfg)
	level := secrets.Level(findings)
	if level != "none" {
		logging.Warn("Export %s/%s carries %d suspicious option values", format, action, len(findings))
	}
	_, err := st.Record(storage.Entry{
		Format:      string(format),
		Action:      action,
		Target:      target,
		Content:     content,
		ThreatLevel: level,
	})
	if err != nil {
		return findings, fmt.Errorf("failed to record export: %w", err)
	}
	return findings, nil
}

// ParseValue reads a value typed on the command line or in the editor:
// true/false become booleans, numbers become numbers, "null" and "" mean
// unset, and anything else is a string with \u escapes decoded.
func ParseValue(s string) any {
	switch s {
	case "", "null":
		return nil
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !strings.ContainsAny(s, "xXnN") {
		return f
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		if unq, err := strconv.Unquote(s); err == nil {
			return unq
		}
	}
	return escape.Unescape(s)
}

// ParseAssignment splits "key=value" and parses the value.
func ParseAssignment(s string) (string, any, error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", nil, fmt.Errorf("expected key=value, got %q", s)
	}
	return key, ParseValue(value), nil
}
