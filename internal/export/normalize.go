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

// Package export turns a configuration into JSON, YAML or TOML text.
package export

import (
	"github.com/adaryorg/poshcraft/internal/model"
	"github.com/adaryorg/poshcraft/internal/tree"
)

// Normalize builds the format-agnostic document for cfg: attribute order is
// kept, identifiers are left out and a missing schema reference is filled in
// first. cfg is not modified.
func Normalize(cfg *model.Config) *tree.Map {
	out := tree.NewMap()
	if !tree.Has(cfg.Attrs, model.KeySchema) {
		out.Set(model.KeySchema, model.DefaultSchema)
	}

	blocks := make([]any, 0, len(cfg.Blocks))
	for _, b := range cfg.Blocks {
		blocks = append(blocks, normalizeBlock(b))
	}

	for pair := cfg.Attrs.Oldest(); pair != nil; pair = pair.Next() {
		switch pair.Key {
		case model.KeyID:
		case model.KeyBlocks:
			out.Set(model.KeyBlocks, blocks)
		default:
			out.Set(pair.Key, tree.Clone(pair.Value))
		}
	}
	if !tree.Has(out, model.KeyBlocks) {
		out.Set(model.KeyBlocks, blocks)
	}
	return out
}

func normalizeBlock(b *model.Block) *tree.Map {
	segments := make([]any, 0, len(b.Segments))
	for _, s := range b.Segments {
		segments = append(segments, normalizeSegment(s))
	}

	out := tree.NewMap()
	for pair := b.Attrs.Oldest(); pair != nil; pair = pair.Next() {
		switch pair.Key {
		case model.KeyID:
		case model.KeySegments:
			out.Set(model.KeySegments, segments)
		default:
			out.Set(pair.Key, tree.Clone(pair.Value))
		}
	}
	// a block read without a segments key keeps it absent while empty
	if !tree.Has(out, model.KeySegments) && len(segments) > 0 {
		out.Set(model.KeySegments, segments)
	}
	return out
}

func normalizeSegment(s *model.Segment) *tree.Map {
	out := tree.CloneMap(s.Attrs)
	out.Delete(model.KeyID)
	return out
}

// Clean returns a copy of an already normalized document with every id key
// removed from blocks and segments. It is idempotent.
func Clean(doc *tree.Map) *tree.Map {
	out := tree.CloneMap(doc)
	out.Delete(model.KeyID)

	blocks, _ := out.Get(model.KeyBlocks)
	list, ok := blocks.([]any)
	if !ok {
		return out
	}
	for _, item := range list {
		block, ok := item.(*tree.Map)
		if !ok {
			continue
		}
		block.Delete(model.KeyID)

		segments, _ := block.Get(model.KeySegments)
		segs, ok := segments.([]any)
		if !ok {
			continue
		}
		for _, s := range segs {
			if seg, ok := s.(*tree.Map); ok {
				seg.Delete(model.KeyID)
			}
		}
	}
	return out
}
