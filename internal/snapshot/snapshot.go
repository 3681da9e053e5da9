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

// Package snapshot draws a laid-out prompt preview into a PNG image using
// the fixed 7x13 bitmap font from x/image.
package snapshot

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/adaryorg/poshcraft/internal/logging"
	"github.com/adaryorg/poshcraft/internal/preview"
)

const (
	cellWidth  = 7
	cellHeight = 13
)

// Options control the image geometry.
type Options struct {
	Theme   preview.Theme
	Width   int // in terminal cells
	Padding int // in pixels, before scaling
	Scale   int
}

func (o Options) withDefaults() Options {
	if o.Theme.Name == "" {
		o.Theme = preview.DarkTheme
	}
	if o.Width <= 0 {
		o.Width = 80
	}
	if o.Padding < 0 {
		o.Padding = 0
	}
	if o.Scale < 1 {
		o.Scale = 1
	}
	return o
}

// ansiColors are the xterm defaults for the 16 numbered colors.
var ansiColors = [16]color.RGBA{
	{0x00, 0x00, 0x00, 0xff}, {0xcd, 0x00, 0x00, 0xff}, {0x00, 0xcd, 0x00, 0xff}, {0xcd, 0xcd, 0x00, 0xff},
	{0x00, 0x00, 0xee, 0xff}, {0xcd, 0x00, 0xcd, 0xff}, {0x00, 0xcd, 0xcd, 0xff}, {0xe5, 0xe5, 0xe5, 0xff},
	{0x7f, 0x7f, 0x7f, 0xff}, {0xff, 0x00, 0x00, 0xff}, {0x00, 0xff, 0x00, 0xff}, {0xff, 0xff, 0x00, 0xff},
	{0x5c, 0x5c, 0xff, 0xff}, {0xff, 0x00, 0xff, 0xff}, {0x00, 0xff, 0xff, 0xff}, {0xff, 0xff, 0xff, 0xff},
}

// parseColor accepts #rgb, #rrggbb and ANSI numbers 0-15. Anything else
// yields fallback.
func parseColor(value string, fallback color.Color) color.Color {
	if value == "" {
		return fallback
	}
	if c, err := colorful.Hex(value); err == nil {
		r, g, b := c.RGB255()
		return color.RGBA{r, g, b, 0xff}
	}
	if n, err := strconv.Atoi(value); err == nil && n >= 0 && n < len(ansiColors) {
		return ansiColors[n]
	}
	return fallback
}

// Draw paints lines onto a new image. Glyphs outside the bitmap font are
// replaced by their ASCII fallbacks first.
func Draw(lines []preview.Line, opts Options) image.Image {
	opts = opts.withDefaults()
	w := opts.Width*cellWidth + 2*opts.Padding
	h := len(lines)*cellHeight + 2*opts.Padding
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	bg := parseColor(opts.Theme.Background, color.Black)
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	c := canvas{img: img, opts: opts, text: parseColor(opts.Theme.Text, color.White)}
	for row, line := range lines {
		y := opts.Padding + row*cellHeight
		col := c.pieces(line.Left, 0, y)
		if len(line.Right) > 0 {
			pad := opts.Width - preview.Width(line.Left) - preview.Width(line.Right)
			if pad < 1 {
				pad = 1
			}
			c.pieces(line.Right, col+pad, y)
		}
	}

	if opts.Scale == 1 {
		return img
	}
	scaled := image.NewRGBA(image.Rect(0, 0, w*opts.Scale, h*opts.Scale))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)
	return scaled
}

type canvas struct {
	img  *image.RGBA
	opts Options
	text color.Color
}

// pieces draws from cell col and returns the cell after the last glyph.
func (c canvas) pieces(pieces []preview.Piece, col, y int) int {
	face := basicfont.Face7x13
	ascent := face.Metrics().Ascent.Ceil()
	bounds := c.img.Bounds()

	for _, p := range pieces {
		fg := parseColor(p.Foreground, c.text)
		d := font.Drawer{Dst: c.img, Src: image.NewUniform(fg), Face: face}
		for _, r := range preview.ASCII(p.Text) {
			cw := runewidth.RuneWidth(r)
			if cw == 0 {
				continue
			}
			x := c.opts.Padding + col*cellWidth
			if p.Background != "" {
				cell := image.Rect(x, y, x+cw*cellWidth, y+cellHeight).Intersect(bounds)
				draw.Draw(c.img, cell, image.NewUniform(parseColor(p.Background, color.Black)), image.Point{}, draw.Src)
			}
			d.Dot = fixed.P(x, y+ascent)
			d.DrawString(string(r))
			col += cw
		}
	}
	return col
}

// Encode writes img as PNG.
func Encode(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// WriteFile renders lines and saves them as a PNG file.
func WriteFile(path string, lines []preview.Line, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Encode(f, Draw(lines, opts)); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

// Cache keeps encoded snapshots keyed by their input so repeated previews
// of an unchanged configuration skip drawing.
type Cache struct {
	mu      sync.RWMutex
	entries map[uint64][]byte
	order   []uint64
	max     int
}

// NewCache returns a cache holding at most max images.
func NewCache(max int) *Cache {
	if max < 1 {
		max = 1
	}
	return &Cache{entries: make(map[uint64][]byte), max: max}
}

// PNG returns the encoded image for lines, drawing it on a miss.
func (c *Cache) PNG(lines []preview.Line, opts Options) ([]byte, error) {
	key := cacheKey(lines, opts.withDefaults())

	c.mu.RLock()
	data, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		logging.Debug("Snapshot cache hit %x", key)
		return data, nil
	}

	var buf bytes.Buffer
	if err := Encode(&buf, Draw(lines, opts)); err != nil {
		return nil, err
	}
	data = buf.Bytes()

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
		for len(c.order) > c.max {
			delete(c.entries, c.order[0])
			c.order = c.order[1:]
		}
	}
	c.entries[key] = data
	return data, nil
}

// Len reports the number of cached images.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func cacheKey(lines []preview.Line, opts Options) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d|%d|%d|%s|%s|", opts.Width, opts.Padding, opts.Scale, opts.Theme.Background, opts.Theme.Text)
	for _, line := range lines {
		for _, p := range line.Left {
			fmt.Fprintf(h, "L%q%s%s", p.Text, p.Foreground, p.Background)
		}
		for _, p := range line.Right {
			fmt.Fprintf(h, "R%q%s%s", p.Text, p.Foreground, p.Background)
		}
		h.Write([]byte{'\n'})
	}
	return h.Sum64()
}
