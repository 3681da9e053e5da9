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

// Package metadata is the read-only segment registry: display names, icons,
// categories, default templates and declared options for every segment type.
package metadata

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"

	"github.com/adaryorg/poshcraft/internal/tree"
)

//go:embed data/segments.json
var builtin []byte

// Property is a value a segment exposes to its template, e.g. ".Full".
type Property struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Option is a configurable segment option.
type Option struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Default     any      `json:"default"`
	Description string   `json:"description"`
	Values      []string `json:"values,omitempty"`
}

// Category groups segments in listings and picks their default colors.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Segment describes one segment type.
type Segment struct {
	Type            string
	Name            string
	Description     string
	Icon            string
	Category        string
	DefaultTemplate string
	PreviewText     string
	DefaultOptions  *tree.Map
	Properties      []Property
	Options         []Option

	// Known is false for the placeholder Resolve returns for unregistered types.
	Known bool
}

// DisplayName returns the registered name, or the raw type for unknown segments.
func (s Segment) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Type
}

type rawSegment struct {
	Type            string          `json:"type"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Icon            string          `json:"icon"`
	Category        string          `json:"category"`
	DefaultTemplate string          `json:"defaultTemplate"`
	PreviewText     string          `json:"previewText"`
	DefaultOptions  json.RawMessage `json:"defaultOptions"`
	Properties      []Property      `json:"properties"`
	Options         []Option        `json:"options"`
}

type rawRegistry struct {
	Categories []Category   `json:"categories"`
	Segments   []rawSegment `json:"segments"`
}

// Registry is an immutable set of segment descriptions.
type Registry struct {
	segments   []Segment
	byType     map[string]int
	categories []Category
}

var (
	defaultRegistry *Registry
	defaultOnce     sync.Once
)

// Default returns the built-in registry. It is loaded on first use and never
// modified afterwards.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := Parse(builtin)
		if err != nil {
			panic(fmt.Sprintf("metadata: built-in registry is invalid: %v", err))
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// LoadFile reads a registry from a JSON file with the same layout as the
// built-in one.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read segment metadata: %w", err)
	}
	return Parse(data)
}

// Parse builds a registry from JSON.
func Parse(data []byte) (*Registry, error) {
	var raw rawRegistry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse segment metadata: %w", err)
	}

	r := &Registry{
		segments:   make([]Segment, 0, len(raw.Segments)),
		byType:     make(map[string]int, len(raw.Segments)),
		categories: raw.Categories,
	}
	for _, rs := range raw.Segments {
		if rs.Type == "" {
			return nil, fmt.Errorf("segment %q has no type", rs.Name)
		}
		if _, dup := r.byType[rs.Type]; dup {
			return nil, fmt.Errorf("duplicate segment type %q", rs.Type)
		}

		defaults := tree.NewMap()
		if len(rs.DefaultOptions) > 0 && string(rs.DefaultOptions) != "null" {
			v, err := tree.DecodeJSON(rs.DefaultOptions)
			if err != nil {
				return nil, fmt.Errorf("segment %q: invalid defaultOptions: %w", rs.Type, err)
			}
			m, ok := v.(*tree.Map)
			if !ok {
				return nil, fmt.Errorf("segment %q: defaultOptions must be an object", rs.Type)
			}
			defaults = m
		}

		r.byType[rs.Type] = len(r.segments)
		r.segments = append(r.segments, Segment{
			Type:            rs.Type,
			Name:            rs.Name,
			Description:     rs.Description,
			Icon:            rs.Icon,
			Category:        rs.Category,
			DefaultTemplate: rs.DefaultTemplate,
			PreviewText:     rs.PreviewText,
			DefaultOptions:  defaults,
			Properties:      rs.Properties,
			Options:         rs.Options,
			Known:           true,
		})
	}
	return r, nil
}

// Lookup returns the metadata for segType.
func (r *Registry) Lookup(segType string) (Segment, bool) {
	i, ok := r.byType[segType]
	if !ok {
		return Segment{}, false
	}
	return r.copyOf(i), true
}

// Resolve is Lookup with a fallback: unknown types get a placeholder whose
// Known field is false and whose display name is the raw type.
func (r *Registry) Resolve(segType string) Segment {
	if s, ok := r.Lookup(segType); ok {
		return s
	}
	return Segment{Type: segType, DefaultOptions: tree.NewMap()}
}

// copyOf hands out a segment whose option defaults can be modified freely.
func (r *Registry) copyOf(i int) Segment {
	s := r.segments[i]
	s.DefaultOptions = tree.CloneMap(s.DefaultOptions)
	return s
}

// All returns every segment in registry order.
func (r *Registry) All() []Segment {
	out := make([]Segment, len(r.segments))
	for i := range r.segments {
		out[i] = r.copyOf(i)
	}
	return out
}

// Types returns the registered segment types, sorted.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.segments))
	for _, s := range r.segments {
		types = append(types, s.Type)
	}
	sort.Strings(types)
	return types
}

// Categories returns the declared categories in registry order.
func (r *Registry) Categories() []Category {
	out := make([]Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// ByCategory returns the segments of one category.
func (r *Registry) ByCategory(category string) []Segment {
	var out []Segment
	for i, s := range r.segments {
		if s.Category == category {
			out = append(out, r.copyOf(i))
		}
	}
	return out
}

type searchSource []Segment

func (s searchSource) String(i int) string {
	return s[i].Type + " " + s[i].Name
}

func (s searchSource) Len() int { return len(s) }

// Search fuzzy-matches query against segment types and names, best match
// first. An empty query returns every segment.
func (r *Registry) Search(query string) []Segment {
	query = strings.TrimSpace(query)
	if query == "" {
		return r.All()
	}

	matches := fuzzy.FindFrom(query, searchSource(r.segments))
	out := make([]Segment, 0, len(matches))
	for _, match := range matches {
		out = append(out, r.copyOf(match.Index))
	}
	return out
}
