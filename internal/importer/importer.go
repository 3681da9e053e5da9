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

// Package importer reads JSON, YAML and TOML prompt configurations into a
// fresh model.Config.
package importer

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/adaryorg/poshcraft/internal/ids"
	"github.com/adaryorg/poshcraft/internal/model"
	"github.com/adaryorg/poshcraft/internal/tree"
)

// ParseError reports a document that could not be read as a configuration.
type ParseError struct {
	Format   string
	Filename string
	Message  string
	Err      error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("failed to parse %s", e.Filename)
	if e.Format != "" {
		msg += " as " + strings.ToUpper(e.Format)
	}
	return msg + ": " + e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Importer builds configurations, drawing identifiers from its generator.
type Importer struct {
	ids ids.Generator
}

// New returns an importer. A nil generator means random UUIDs.
func New(gen ids.Generator) *Importer {
	if gen == nil {
		gen = ids.NewUUID()
	}
	return &Importer{ids: gen}
}

// Import parses text using the format implied by filename's extension.
func Import(text, filename string) (*model.Config, error) {
	return New(nil).Import(text, filename)
}

// FormatOf returns the format name for a file extension, or "".
func FormatOf(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	}
	return ""
}

// Decode reads text into an attribute tree using the format implied by
// filename, without checking that it describes a configuration.
func Decode(text, filename string) (any, error) {
	format := FormatOf(filename)

	var (
		root any
		err  error
	)
	switch format {
	case "json":
		root, err = tree.DecodeJSON([]byte(text))
	case "yaml":
		root, err = decodeYAML(text)
	case "toml":
		root, err = decodeTOML(text)
	default:
		return nil, &ParseError{
			Filename: filename,
			Message:  fmt.Sprintf("unsupported file extension %q", filepath.Ext(filename)),
		}
	}
	if err != nil {
		return nil, &ParseError{Format: format, Filename: filename, Message: err.Error(), Err: err}
	}
	return root, nil
}

// Import parses text. Nothing is returned unless the whole document could be
// read, so a caller's current configuration is only replaced on success.
func (im *Importer) Import(text, filename string) (*model.Config, error) {
	root, err := Decode(text, filename)
	if err != nil {
		return nil, err
	}
	format := FormatOf(filename)

	doc, ok := root.(*tree.Map)
	if !ok {
		return nil, &ParseError{Format: format, Filename: filename, Message: "document root must be an object"}
	}
	blocks, ok := doc.Get(model.KeyBlocks)
	if !ok {
		return nil, &ParseError{Format: format, Filename: filename, Message: "missing required \"blocks\" array"}
	}
	list, ok := blocks.([]any)
	if !ok {
		return nil, &ParseError{Format: format, Filename: filename, Message: "\"blocks\" must be an array"}
	}

	cfg, err := im.build(doc, list)
	if err != nil {
		return nil, &ParseError{Format: format, Filename: filename, Message: err.Error(), Err: err}
	}
	return cfg, nil
}

func (im *Importer) build(doc *tree.Map, blocks []any) (*model.Config, error) {
	cfg := model.NewEmpty(im.ids)
	for pair := doc.Oldest(); pair != nil; pair = pair.Next() {
		switch pair.Key {
		case model.KeyID:
		case model.KeyBlocks:
			cfg.Attrs.Set(model.KeyBlocks, nil)
		default:
			cfg.Attrs.Set(pair.Key, pair.Value)
		}
	}

	for i, item := range blocks {
		attrs, ok := item.(*tree.Map)
		if !ok {
			return nil, fmt.Errorf("blocks[%d] must be an object", i)
		}
		block, err := im.buildBlock(cfg, attrs)
		if err != nil {
			return nil, fmt.Errorf("blocks[%d]: %w", i, err)
		}
		cfg.Blocks = append(cfg.Blocks, block)
	}
	return cfg, nil
}

func (im *Importer) buildBlock(cfg *model.Config, src *tree.Map) (*model.Block, error) {
	attrs := tree.NewMap()
	var segments []any
	for pair := src.Oldest(); pair != nil; pair = pair.Next() {
		switch pair.Key {
		case model.KeyID:
		case model.KeySegments:
			list, ok := pair.Value.([]any)
			if !ok && pair.Value != nil {
				return nil, fmt.Errorf("\"segments\" must be an array")
			}
			segments = list
			attrs.Set(model.KeySegments, nil)
		default:
			attrs.Set(pair.Key, pair.Value)
		}
	}

	block := cfg.NewBlock(attrs)
	for i, item := range segments {
		segAttrs, ok := item.(*tree.Map)
		if !ok {
			return nil, fmt.Errorf("segments[%d] must be an object", i)
		}
		block.Segments = append(block.Segments, cfg.NewSegment(segAttrs))
	}
	return block, nil
}

func decodeYAML(text string) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(text), &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 {
		return nil, fmt.Errorf("empty document")
	}
	d := &yamlDecoder{budget: maxYAMLNodes}
	return d.value(&root, 0)
}

const (
	// maxAliasDepth bounds nesting so a self-referencing document fails
	// instead of recursing forever.
	maxAliasDepth = 64
	// maxYAMLNodes bounds the expanded size of a document, aliases included.
	maxYAMLNodes = 100000
)

// yamlDecoder expands a node tree, charging every visited node against a
// shared budget so alias fan-out cannot grow without limit.
type yamlDecoder struct {
	budget int
}

func (d *yamlDecoder) value(n *yaml.Node, depth int) (any, error) {
	if depth > maxAliasDepth {
		return nil, fmt.Errorf("document nesting too deep")
	}
	d.budget--
	if d.budget < 0 {
		return nil, fmt.Errorf("document contains excessive aliasing")
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, fmt.Errorf("empty document")
		}
		return d.value(n.Content[0], depth+1)
	case yaml.AliasNode:
		return d.value(n.Alias, depth+1)
	case yaml.MappingNode:
		m := tree.NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, value := n.Content[i], n.Content[i+1]
			if key.ShortTag() == "!!merge" {
				if err := d.merge(m, value, depth+1); err != nil {
					return nil, err
				}
				continue
			}
			v, err := d.value(value, depth+1)
			if err != nil {
				return nil, err
			}
			m.Set(key.Value, v)
		}
		return m, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, child := range n.Content {
			v, err := d.value(child, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		return yamlScalar(n)
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
}

// merge applies a "<<" merge key: existing keys win.
func (d *yamlDecoder) merge(m *tree.Map, value *yaml.Node, depth int) error {
	v, err := d.value(value, depth)
	if err != nil {
		return err
	}
	sources := []any{v}
	if list, ok := v.([]any); ok {
		sources = list
	}
	for _, src := range sources {
		sm, ok := src.(*tree.Map)
		if !ok {
			return fmt.Errorf("line %d: merge value must be a mapping", value.Line)
		}
		for pair := sm.Oldest(); pair != nil; pair = pair.Next() {
			if !tree.Has(m, pair.Key) {
				m.Set(pair.Key, pair.Value)
			}
		}
	}
	return nil
}

func yamlScalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool", "!!int", "!!float", "!!timestamp":
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return tree.Value(v), nil
	default:
		return n.Value, nil
	}
}

func decodeTOML(text string) (any, error) {
	var raw map[string]any
	meta, err := toml.Decode(text, &raw)
	if err != nil {
		return nil, err
	}
	return tomlTable(raw, meta, nil), nil
}

// tomlTable rebuilds document order from the decoder's key list. Elements of
// an array of tables share one path there, so they follow the order in which
// keys first appear; keys the list does not mention come last, sorted.
func tomlTable(raw map[string]any, meta toml.MetaData, path []string) *tree.Map {
	order := tomlKeyOrder(meta, path)
	seen := make(map[string]bool, len(raw))

	var keys []string
	for _, k := range order {
		if _, ok := raw[k]; ok && !seen[k] {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range raw {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	keys = append(keys, rest...)

	m := tree.NewMap()
	for _, k := range keys {
		m.Set(k, tomlValue(raw[k], meta, append(append([]string{}, path...), k)))
	}
	return m
}

func tomlValue(v any, meta toml.MetaData, path []string) any {
	switch val := v.(type) {
	case map[string]any:
		return tomlTable(val, meta, path)
	case []map[string]any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = tomlTable(item, meta, path)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = tomlValue(item, meta, path)
		}
		return out
	case time.Time:
		return val
	default:
		return tree.Value(val)
	}
}

// tomlKeyOrder returns the direct children of path in the order they appear
// in the document.
func tomlKeyOrder(meta toml.MetaData, path []string) []string {
	var out []string
	for _, key := range meta.Keys() {
		if len(key) != len(path)+1 {
			continue
		}
		match := true
		for i := range path {
			if key[i] != path[i] {
				match = false
				break
			}
		}
		if match {
			out = append(out, key[len(path)])
		}
	}
	return out
}
