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

package model

import (
	"fmt"
	"strings"

	"github.com/adaryorg/poshcraft/internal/ids"
	"github.com/adaryorg/poshcraft/internal/metadata"
	"github.com/adaryorg/poshcraft/internal/tree"
)

// DefaultPowerlineSymbol is the separator given to new powerline segments.
var DefaultPowerlineSymbol = string(rune(0xE0B0))

// Default returns the starter configuration: one left-aligned prompt block
// with a path and a git segment.
func Default(reg *metadata.Registry, gen ids.Generator) *Config {
	c := New(gen)
	c.Attrs.Set("final_space", true)
	c.Attrs.Set("version", int64(3))

	b := c.AddBlock(BlockPrompt, AlignLeft)
	for _, segType := range []string{"path", "git"} {
		// the block was just created, so this cannot fail
		_, _ = c.AddSegment(b.ID, segType, reg)
	}
	return c
}

// AddBlock appends a new empty block.
func (c *Config) AddBlock(blockType, alignment string) *Block {
	if blockType == "" {
		blockType = BlockPrompt
	}
	if alignment == "" {
		alignment = AlignLeft
	}
	attrs := tree.NewMap()
	attrs.Set(KeyType, blockType)
	attrs.Set(KeyAlignment, alignment)
	attrs.Set(KeySegments, nil)

	b := c.NewBlock(attrs)
	c.Blocks = append(c.Blocks, b)
	c.ensureKey(c.Attrs, KeyBlocks)
	return b
}

// FindBlock returns the block with the given id.
func (c *Config) FindBlock(id string) (*Block, bool) {
	for _, b := range c.Blocks {
		if b.ID == id {
			return b, true
		}
	}
	return nil, false
}

// FindSegment returns the segment with the given id and its block.
func (c *Config) FindSegment(id string) (*Block, *Segment, bool) {
	for _, b := range c.Blocks {
		for _, s := range b.Segments {
			if s.ID == id {
				return b, s, true
			}
		}
	}
	return nil, nil, false
}

// RemoveBlock deletes a block and its segments.
func (c *Config) RemoveBlock(id string) error {
	i := c.blockIndex(id)
	if i < 0 {
		return fmt.Errorf("block %s: %w", id, ErrNotFound)
	}
	c.Blocks = append(c.Blocks[:i], c.Blocks[i+1:]...)
	return nil
}

// MoveBlock moves a block to position index. An index out of range moves it
// to the end.
func (c *Config) MoveBlock(id string, index int) error {
	i := c.blockIndex(id)
	if i < 0 {
		return fmt.Errorf("block %s: %w", id, ErrNotFound)
	}
	b := c.Blocks[i]
	c.Blocks = append(c.Blocks[:i], c.Blocks[i+1:]...)
	c.Blocks = insertAt(c.Blocks, clamp(index, len(c.Blocks)), b)
	return nil
}

// SetBlockAttr sets a block attribute. An empty string or nil value removes it.
func (c *Config) SetBlockAttr(id, key string, value any) error {
	b, ok := c.FindBlock(id)
	if !ok {
		return fmt.Errorf("block %s: %w", id, ErrNotFound)
	}
	if key == KeyID || key == KeySegments {
		return fmt.Errorf("block attribute %q: %w", key, ErrReservedKey)
	}
	setOrUnset(b.Attrs, key, value)
	return nil
}

// AddSegment appends a segment of segType to a block, seeded from the
// registry: style powerline, default separator, category colors, default
// template and default options.
func (c *Config) AddSegment(blockID, segType string, reg *metadata.Registry) (*Segment, error) {
	b, ok := c.FindBlock(blockID)
	if !ok {
		return nil, fmt.Errorf("block %s: %w", blockID, ErrNotFound)
	}
	if reg == nil {
		reg = metadata.Default()
	}

	s := c.NewSegment(SegmentAttrs(reg.Resolve(segType)))
	b.Segments = append(b.Segments, s)
	c.ensureKey(b.Attrs, KeySegments)
	return s, nil
}

// SegmentAttrs returns the attributes of a freshly added segment.
func SegmentAttrs(meta metadata.Segment) *tree.Map {
	colors := metadata.ColorsFor(meta.Type, meta.Category)

	template := meta.DefaultTemplate
	if template == "" {
		template = fmt.Sprintf(" {{ .%s }} ", strings.Join(strings.Fields(meta.DisplayName()), ""))
	}

	attrs := tree.NewMap()
	attrs.Set(KeyType, meta.Type)
	attrs.Set(KeyStyle, StylePowerline)
	attrs.Set(KeyPowerlineSymbol, DefaultPowerlineSymbol)
	attrs.Set(KeyForeground, colors.Foreground)
	attrs.Set(KeyBackground, colors.Background)
	attrs.Set(KeyTemplate, template)
	if meta.DefaultOptions != nil && meta.DefaultOptions.Len() > 0 {
		attrs.Set(KeyOptions, tree.CloneMap(meta.DefaultOptions))
	}
	return attrs
}

// InsertSegment places seg into a block at index and gives it a fresh
// identifier. An index out of range appends.
func (c *Config) InsertSegment(blockID string, index int, seg *Segment) error {
	b, ok := c.FindBlock(blockID)
	if !ok {
		return fmt.Errorf("block %s: %w", blockID, ErrNotFound)
	}
	seg.ID = c.ids.Next()
	seg.Attrs.Delete(KeyID)
	b.Segments = insertAt(b.Segments, clamp(index, len(b.Segments)), seg)
	c.ensureKey(b.Attrs, KeySegments)
	return nil
}

// RemoveSegment deletes a segment.
func (c *Config) RemoveSegment(id string) error {
	b, _, ok := c.FindSegment(id)
	if !ok {
		return fmt.Errorf("segment %s: %w", id, ErrNotFound)
	}
	i := segmentIndex(b, id)
	b.Segments = append(b.Segments[:i], b.Segments[i+1:]...)
	return nil
}

// MoveSegment moves a segment to position index of the target block. The
// index is applied after the segment has left its source block.
func (c *Config) MoveSegment(id, toBlockID string, index int) error {
	from, s, ok := c.FindSegment(id)
	if !ok {
		return fmt.Errorf("segment %s: %w", id, ErrNotFound)
	}
	to, ok := c.FindBlock(toBlockID)
	if !ok {
		return fmt.Errorf("block %s: %w", toBlockID, ErrNotFound)
	}

	i := segmentIndex(from, id)
	from.Segments = append(from.Segments[:i], from.Segments[i+1:]...)
	to.Segments = insertAt(to.Segments, clamp(index, len(to.Segments)), s)
	c.ensureKey(to.Attrs, KeySegments)
	return nil
}

// DuplicateSegment inserts a copy of a segment right after it.
func (c *Config) DuplicateSegment(id string) (*Segment, error) {
	b, s, ok := c.FindSegment(id)
	if !ok {
		return nil, fmt.Errorf("segment %s: %w", id, ErrNotFound)
	}
	dup := c.NewSegment(tree.CloneMap(s.Attrs))
	b.Segments = insertAt(b.Segments, segmentIndex(b, id)+1, dup)
	return dup, nil
}

// SetSegmentAttr sets a segment attribute. An empty string or nil value
// removes it.
func (c *Config) SetSegmentAttr(id, key string, value any) error {
	_, s, ok := c.FindSegment(id)
	if !ok {
		return fmt.Errorf("segment %s: %w", id, ErrNotFound)
	}
	if key == KeyID || key == KeyOptions {
		return fmt.Errorf("segment attribute %q: %w", key, ErrReservedKey)
	}
	setOrUnset(s.Attrs, key, value)
	return nil
}

// SetSegmentOption sets one entry of the segment's options object, creating
// the object when needed. An empty string or nil value removes the entry.
func (c *Config) SetSegmentOption(id, key string, value any) error {
	_, s, ok := c.FindSegment(id)
	if !ok {
		return fmt.Errorf("segment %s: %w", id, ErrNotFound)
	}
	opts := s.Options()
	if opts == nil {
		if isUnset(value) {
			return nil
		}
		opts = tree.NewMap()
		s.Attrs.Set(KeyOptions, opts)
	}
	setOrUnset(opts, key, value)
	return nil
}

// SetGlobal sets a top-level option. An empty string or nil value removes
// it, the way the settings panel clears a field.
func (c *Config) SetGlobal(key string, value any) error {
	if key == KeyBlocks || key == KeyID || key == "" {
		return fmt.Errorf("global option %q: %w", key, ErrReservedKey)
	}
	setOrUnset(c.Attrs, key, value)
	return nil
}

func setOrUnset(m *tree.Map, key string, value any) {
	if isUnset(value) {
		m.Delete(key)
		return
	}
	m.Set(key, tree.Value(value))
}

func isUnset(value any) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}

// ensureKey records where a child list is written when the attributes were
// built without one.
func (c *Config) ensureKey(m *tree.Map, key string) {
	if !tree.Has(m, key) {
		m.Set(key, nil)
	}
}

func (c *Config) blockIndex(id string) int {
	for i, b := range c.Blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func segmentIndex(b *Block, id string) int {
	for i, s := range b.Segments {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func clamp(index, n int) int {
	if index < 0 || index > n {
		return n
	}
	return index
}

func insertAt[T any](list []T, index int, item T) []T {
	list = append(list, item)
	copy(list[index+1:], list[index:])
	list[index] = item
	return list
}
