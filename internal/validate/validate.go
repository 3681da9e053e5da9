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

// Package validate checks a gallery folder of shareable configurations: one
// manifest.json per category plus the configuration files it lists.
package validate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adaryorg/poshcraft/internal/importer"
	"github.com/adaryorg/poshcraft/internal/logging"
	"github.com/adaryorg/poshcraft/internal/model"
	"github.com/adaryorg/poshcraft/internal/tree"
)

// Categories are the gallery folders checked when none are named.
var Categories = []string{"samples", "community"}

// ManifestFields must be present and non-empty on every manifest entry.
var ManifestFields = []string{"id", "name", "description", "icon", "author", "tags", "file"}

// ConfigFields must be present and non-empty on every configuration.
var ConfigFields = []string{model.KeySchema, model.KeyBlocks}

const manifestName = "manifest.json"

// Severity of a finding.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Issue is one finding.
type Issue struct {
	Severity Severity
	Message  string
}

func (i Issue) String() string {
	return i.Severity.String() + ": " + i.Message
}

// Report collects findings across a run.
type Report struct {
	Issues    []Issue
	Manifests int
	Configs   int
}

func (r *Report) errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logging.Debug("validate error: %s", msg)
	r.Issues = append(r.Issues, Issue{Severity: SeverityError, Message: msg})
}

func (r *Report) warnf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logging.Debug("validate warning: %s", msg)
	r.Issues = append(r.Issues, Issue{Severity: SeverityWarning, Message: msg})
}

// Errors returns the error findings.
func (r *Report) Errors() []Issue { return r.filter(SeverityError) }

// Warnings returns the warning findings.
func (r *Report) Warnings() []Issue { return r.filter(SeverityWarning) }

func (r *Report) filter(s Severity) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == s {
			out = append(out, i)
		}
	}
	return out
}

// OK reports whether the run found no errors. Warnings do not fail it.
func (r *Report) OK() bool {
	return len(r.Errors()) == 0
}

// Dir validates each category folder under root. A nil categories list
// means Categories. The error is only set when root itself is unusable.
func Dir(root string, categories []string) (*Report, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("configs directory not found: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("configs path %s is not a directory", root)
	}
	if categories == nil {
		categories = Categories
	}

	r := &Report{}
	for _, category := range categories {
		dir := filepath.Join(root, category)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			r.errorf("category directory not found: %s", category)
			continue
		}
		Category(dir, category, r)
	}
	logging.Info("Validated %d manifests and %d configs under %s: %d errors, %d warnings",
		r.Manifests, r.Configs, root, len(r.Errors()), len(r.Warnings()))
	return r, nil
}

// Category validates one category folder into r.
func Category(dir, category string, r *Report) {
	data, err := os.ReadFile(filepath.Join(dir, manifestName))
	if errors.Is(err, os.ErrNotExist) {
		r.errorf("%s/%s not found", category, manifestName)
		return
	}
	if err != nil {
		r.errorf("%s/%s: %v", category, manifestName, err)
		return
	}

	files := Manifest(data, category, r)
	referenced := make(map[string]bool, len(files))
	for _, name := range files {
		referenced[name] = true
		prefix := category + "/" + name
		text, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			r.errorf("%s: file referenced in manifest but not found", prefix)
			continue
		}
		Config(string(text), name, prefix, r)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		r.errorf("%s: %v", category, err)
		return
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == manifestName || importer.FormatOf(name) == "" {
			continue
		}
		if !referenced[name] {
			r.warnf("%s/%s: file exists but not referenced in manifest", category, name)
		}
	}
}

// Manifest checks a manifest document and returns the files it references,
// in first-seen order.
func Manifest(data []byte, category string, r *Report) []string {
	name := category + "/" + manifestName
	root, err := tree.DecodeJSON(data)
	if err != nil {
		r.errorf("invalid JSON in %s: %v", name, err)
		return nil
	}
	doc, ok := root.(*tree.Map)
	if !ok {
		r.errorf("%s must be an object", name)
		return nil
	}
	r.Manifests++

	if v, _ := doc.Get("version"); !truthy(v) {
		r.errorf("%s missing 'version' field", name)
	}
	raw, _ := doc.Get("configs")
	configs, ok := raw.([]any)
	if !ok {
		r.errorf("%s missing or invalid 'configs' array", name)
		return nil
	}

	seenIDs := make(map[string]bool)
	seenFiles := make(map[string]bool)
	var files []string
	for i, item := range configs {
		prefix := fmt.Sprintf("%s entry %d", name, i)
		entry, ok := item.(*tree.Map)
		if !ok {
			r.errorf("%s: entry must be an object", prefix)
			continue
		}
		for _, field := range ManifestFields {
			if v, _ := entry.Get(field); !truthy(v) {
				r.errorf("%s: missing required field '%s'", prefix, field)
			}
		}
		if id, _ := entry.Get("id"); truthy(id) {
			key := fmt.Sprint(id)
			if seenIDs[key] {
				r.errorf("%s: duplicate ID '%s'", prefix, key)
			}
			seenIDs[key] = true
		}
		if tags, _ := entry.Get("tags"); truthy(tags) {
			if _, ok := tags.([]any); !ok {
				r.errorf("%s: 'tags' must be an array", prefix)
			}
		}
		if file := tree.String(entry, "file"); file != "" && !seenFiles[file] {
			seenFiles[file] = true
			files = append(files, file)
		}
	}
	logging.Debug("Found %d configs in %s", len(configs), name)
	return files
}

// Config checks one configuration document. prefix labels its findings.
func Config(text, filename, prefix string, r *Report) {
	before := len(r.Errors())
	root, err := importer.Decode(text, filename)
	if err != nil {
		r.errorf("%s: %v", prefix, err)
		return
	}
	r.Configs++
	doc, ok := root.(*tree.Map)
	if !ok {
		r.errorf("%s: document root must be an object", prefix)
		return
	}

	for _, field := range ConfigFields {
		if v, _ := doc.Get(field); !truthy(v) {
			r.errorf("%s: missing required config field '%s'", prefix, field)
		}
	}
	if schema := tree.String(doc, model.KeySchema); schema != "" && !strings.Contains(schema, "oh-my-posh") {
		r.warnf("%s: $schema doesn't appear to be for Oh My Posh", prefix)
	}

	raw, ok := doc.Get(model.KeyBlocks)
	if !ok || !truthy(raw) {
		return
	}
	blocks, ok := raw.([]any)
	if !ok {
		r.errorf("%s: blocks must be an array", prefix)
		return
	}
	for i, item := range blocks {
		block, _ := item.(*tree.Map)
		if v, _ := getAttr(block, model.KeyType); !truthy(v) {
			r.errorf("%s: block %d missing 'type' field", prefix, i)
		}
		rawSegs, _ := getAttr(block, model.KeySegments)
		segments, ok := rawSegs.([]any)
		switch {
		case !ok:
			r.errorf("%s: block %d missing or invalid 'segments' array", prefix, i)
		case len(segments) == 0:
			r.warnf("%s: block %d has no segments", prefix, i)
		default:
			for j, s := range segments {
				seg, _ := s.(*tree.Map)
				if v, _ := getAttr(seg, model.KeyType); !truthy(v) {
					r.errorf("%s: block %d, segment %d missing 'type' field", prefix, i, j)
				}
			}
		}
	}

	if len(r.Errors()) == before {
		if _, err := importer.Import(text, filename); err != nil {
			r.errorf("%s: %v", prefix, err)
		}
	}
}

func getAttr(m *tree.Map, key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	return m.Get(key)
}

// truthy treats null, false, zero and "" as absent.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case int64:
		return val != 0
	case float64:
		return val != 0
	default:
		return true
	}
}

// Summary formats the findings, errors first, one per line.
func Summary(r *Report) string {
	issues := append([]Issue(nil), r.Issues...)
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Severity < issues[j].Severity
	})
	var b strings.Builder
	for _, i := range issues {
		b.WriteString(i.String())
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%d error(s), %d warning(s)", len(r.Errors()), len(r.Warnings()))
	return b.String()
}
