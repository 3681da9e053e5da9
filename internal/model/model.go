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

// Package model holds the in-memory prompt configuration: a Config owns
// Blocks, a Block owns Segments. Every persisted attribute lives in an
// insertion-ordered map so unknown keys, explicit nulls and key order survive
// an import and export cycle. Identifiers are session-scoped and never part of
// the attributes.
package model

import (
	"errors"

	"github.com/adaryorg/poshcraft/internal/ids"
	"github.com/adaryorg/poshcraft/internal/tree"
)

// DefaultSchema is the schema reference written when a configuration has none.
const DefaultSchema = "https://raw.githubusercontent.com/JanDeDobbeleer/oh-my-posh/main/themes/schema.json"

// Well-known attribute keys.
const (
	KeySchema          = "$schema"
	KeyBlocks          = "blocks"
	KeySegments        = "segments"
	KeyID              = "id"
	KeyType            = "type"
	KeyAlignment       = "alignment"
	KeyNewline         = "newline"
	KeyStyle           = "style"
	KeyForeground      = "foreground"
	KeyBackground      = "background"
	KeyTemplate        = "template"
	KeyPowerlineSymbol = "powerline_symbol"
	KeyLeadingDiamond  = "leading_diamond"
	KeyTrailingDiamond = "trailing_diamond"
	KeyOptions         = "options"
)

// Segment styles.
const (
	StylePowerline = "powerline"
	StyleDiamond   = "diamond"
	StylePlain     = "plain"
	StyleAccordion = "accordion"
)

// Block kinds and alignments.
const (
	BlockPrompt  = "prompt"
	BlockRPrompt = "rprompt"
	AlignLeft    = "left"
	AlignRight   = "right"
)

// GlobalOptions are the top-level display options the editor exposes.
var GlobalOptions = []string{
	"console_title_template",
	"terminal_background",
	"accent_color",
	"final_space",
	"shell_integration",
	"enable_cursor_positioning",
}

var (
	// ErrNotFound is returned when a block or segment id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrReservedKey is returned when a mutation targets a structural key.
	ErrReservedKey = errors.New("reserved key")
)

// Segment is one visual unit of the prompt.
type Segment struct {
	ID    string
	Attrs *tree.Map
}

// Block is an ordered group of segments on one prompt line.
type Block struct {
	ID       string
	Attrs    *tree.Map
	Segments []*Segment
}

// Config is a whole prompt configuration.
type Config struct {
	Attrs  *tree.Map
	Blocks []*Block

	ids ids.Generator
}

// New returns an empty configuration whose blocks and segments draw their
// identifiers from gen.
func New(gen ids.Generator) *Config {
	if gen == nil {
		gen = ids.NewUUID()
	}
	attrs := tree.NewMap()
	attrs.Set(KeySchema, DefaultSchema)
	attrs.Set(KeyBlocks, nil)
	return &Config{Attrs: attrs, ids: gen}
}

// NewEmpty returns a configuration with no attributes at all. The importer
// fills it key by key.
func NewEmpty(gen ids.Generator) *Config {
	if gen == nil {
		gen = ids.NewUUID()
	}
	return &Config{Attrs: tree.NewMap(), ids: gen}
}

// IDs returns the generator the configuration uses for new identifiers.
func (c *Config) IDs() ids.Generator {
	return c.ids
}

// NewBlock creates a detached block with a fresh identifier.
func (c *Config) NewBlock(attrs *tree.Map) *Block {
	if attrs == nil {
		attrs = tree.NewMap()
	}
	attrs.Delete(KeyID)
	return &Block{ID: c.ids.Next(), Attrs: attrs}
}

// NewSegment creates a detached segment with a fresh identifier.
func (c *Config) NewSegment(attrs *tree.Map) *Segment {
	if attrs == nil {
		attrs = tree.NewMap()
	}
	attrs.Delete(KeyID)
	return &Segment{ID: c.ids.Next(), Attrs: attrs}
}

// Schema returns the schema reference, or "" when unset.
func (c *Config) Schema() string {
	return tree.String(c.Attrs, KeySchema)
}

// Get returns a top-level attribute.
func (c *Config) Get(key string) (any, bool) {
	return c.Attrs.Get(key)
}

// FinalSpace reports the final_space option, which defaults to true.
func (c *Config) FinalSpace() bool {
	if v, ok := tree.Bool(c.Attrs, "final_space"); ok {
		return v
	}
	return true
}

// Type returns the segment type.
func (s *Segment) Type() string { return tree.String(s.Attrs, KeyType) }

// Style returns the segment style.
func (s *Segment) Style() string { return tree.String(s.Attrs, KeyStyle) }

// Foreground returns the foreground color, or "" when absent.
func (s *Segment) Foreground() string { return tree.String(s.Attrs, KeyForeground) }

// Background returns the background color, or "" when absent.
func (s *Segment) Background() string { return tree.String(s.Attrs, KeyBackground) }

// Template returns the segment template.
func (s *Segment) Template() string { return tree.String(s.Attrs, KeyTemplate) }

// PowerlineSymbol returns the separator glyph, or "" when absent.
func (s *Segment) PowerlineSymbol() string { return tree.String(s.Attrs, KeyPowerlineSymbol) }

// LeadingDiamond returns the leading diamond glyph, or "" when absent.
func (s *Segment) LeadingDiamond() string { return tree.String(s.Attrs, KeyLeadingDiamond) }

// TrailingDiamond returns the trailing diamond glyph, or "" when absent.
func (s *Segment) TrailingDiamond() string { return tree.String(s.Attrs, KeyTrailingDiamond) }

// Options returns the options object, or nil when the segment has none.
func (s *Segment) Options() *tree.Map {
	v, ok := s.Attrs.Get(KeyOptions)
	if !ok {
		return nil
	}
	m, _ := v.(*tree.Map)
	return m
}

// Type returns the block kind.
func (b *Block) Type() string { return tree.String(b.Attrs, KeyType) }

// Alignment returns the block alignment, defaulting to left.
func (b *Block) Alignment() string {
	if a := tree.String(b.Attrs, KeyAlignment); a != "" {
		return a
	}
	return AlignLeft
}

// Newline reports whether the block starts on a new line.
func (b *Block) Newline() bool {
	v, _ := tree.Bool(b.Attrs, KeyNewline)
	return v
}

// LeadingDiamond returns the block-level leading diamond, or "".
func (b *Block) LeadingDiamond() string { return tree.String(b.Attrs, KeyLeadingDiamond) }

// TrailingDiamond returns the block-level trailing diamond, or "".
func (b *Block) TrailingDiamond() string { return tree.String(b.Attrs, KeyTrailingDiamond) }

// Clone deep-copies the configuration, keeping identifiers.
func (c *Config) Clone() *Config {
	out := &Config{Attrs: tree.CloneMap(c.Attrs), ids: c.ids}
	out.Blocks = make([]*Block, len(c.Blocks))
	for i, b := range c.Blocks {
		out.Blocks[i] = b.clone()
	}
	return out
}

func (b *Block) clone() *Block {
	out := &Block{ID: b.ID, Attrs: tree.CloneMap(b.Attrs)}
	out.Segments = make([]*Segment, len(b.Segments))
	for i, s := range b.Segments {
		out.Segments[i] = s.clone()
	}
	return out
}

func (s *Segment) clone() *Segment {
	return &Segment{ID: s.ID, Attrs: tree.CloneMap(s.Attrs)}
}

// Replace swaps the whole content of c for other's. It is how reset and a
// successful import take effect.
func (c *Config) Replace(other *Config) {
	c.Attrs = other.Attrs
	c.Blocks = other.Blocks
	if other.ids != nil {
		c.ids = other.ids
	}
}

// AllSegments returns every segment in render order.
func (c *Config) AllSegments() []*Segment {
	var out []*Segment
	for _, b := range c.Blocks {
		out = append(out, b.Segments...)
	}
	return out
}
