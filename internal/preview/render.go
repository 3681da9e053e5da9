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

package preview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/adaryorg/poshcraft/internal/metadata"
	"github.com/adaryorg/poshcraft/internal/model"
	"github.com/adaryorg/poshcraft/internal/tree"
)

// PromptSymbol starts the input line under the rendered blocks.
const PromptSymbol = "❯ "

// Piece is a run of prompt text with resolved colors; "" means no color.
type Piece struct {
	Text       string
	Foreground string
	Background string
}

// Line is one terminal line: left-aligned pieces and right-aligned pieces.
type Line struct {
	Left  []Piece
	Right []Piece
}

// Options control how a configuration is laid out and drawn.
type Options struct {
	Theme    Theme
	Width    int
	Basic    bool
	Registry *metadata.Registry
	// Data replaces the mock template data when set.
	Data     Context
	Renderer *lipgloss.Renderer
}

func (o Options) withDefaults() Options {
	if o.Theme.Name == "" {
		o.Theme = DarkTheme
	}
	if o.Width <= 0 {
		o.Width = 80
	}
	if o.Registry == nil {
		o.Registry = metadata.Default()
	}
	if o.Data == nil {
		o.Data = MockData()
	}
	if o.Renderer == nil {
		o.Renderer = lipgloss.DefaultRenderer()
	}
	return o
}

// Layout arranges the blocks of cfg into lines. A block flagged newline
// starts a new line, right-aligned blocks share the line of the blocks before
// them, and the last line is the input prompt.
func Layout(cfg *model.Config, opts Options) []Line {
	opts = opts.withDefaults()
	palette, _ := cfg.Attrs.Get("palette")
	paletteMap, _ := palette.(*tree.Map)

	var lines []Line
	cur := Line{}
	started := false
	for _, b := range cfg.Blocks {
		right := b.Alignment() == model.AlignRight || b.Type() == model.BlockRPrompt
		if started && (b.Newline() || !right && len(cur.Right) > 0) {
			lines = append(lines, cur)
			cur = Line{}
		}
		started = true

		pieces := blockPieces(b, opts, paletteMap)
		if right {
			cur.Right = append(cur.Right, pieces...)
		} else {
			cur.Left = append(cur.Left, pieces...)
		}
	}
	if started {
		lines = append(lines, cur)
	}
	lines = append(lines, Line{Left: []Piece{{Text: PromptSymbol, Foreground: opts.Theme.Text}}})

	if opts.Basic {
		for i := range lines {
			lines[i].Left = asciiPieces(lines[i].Left)
			lines[i].Right = asciiPieces(lines[i].Right)
		}
	}
	return lines
}

func blockPieces(b *model.Block, opts Options, palette *tree.Map) []Piece {
	var pieces []Piece
	scopes := make([]colorScope, len(b.Segments))
	prev := colorScope{}
	for i, s := range b.Segments {
		scope := colorScope{
			palette:    palette,
			background: s.Background(),
			foreground: s.Foreground(),
			parentBg:   prev.resolve(prev.background),
			parentFg:   prev.resolve(prev.foreground),
		}
		scopes[i] = scope
		prev = scope
	}

	for i, s := range b.Segments {
		scope := scopes[i]
		bg := scope.resolve(s.Background())
		fg := scope.resolve(s.Foreground())
		if fg == "" {
			fg = defaultForeground
		}

		text := previewText(s, opts.Registry, opts.Data)
		body := spanPieces(ParseColorSpans(text, fg), bg)

		switch s.Style() {
		case model.StylePowerline:
			pieces = append(pieces, body...)
			if bg == "" {
				continue
			}
			symbol := s.PowerlineSymbol()
			if symbol == "" {
				symbol = DefaultPowerlineSymbol
			}
			next := ""
			if i+1 < len(b.Segments) {
				next = scopes[i+1].resolve(b.Segments[i+1].Background())
			}
			pieces = append(pieces, Piece{Text: symbol, Foreground: bg, Background: next})
		case model.StyleDiamond:
			edge := bg
			if edge == "" {
				edge = fg
			}
			leading := s.LeadingDiamond()
			if leading == "" {
				leading = b.LeadingDiamond()
			}
			trailing := s.TrailingDiamond()
			if trailing == "" {
				trailing = b.TrailingDiamond()
			}
			if leading != "" {
				pieces = append(pieces, spanPieces(ParseColorSpans(leading, edge), "")...)
			}
			pieces = append(pieces, body...)
			if trailing != "" {
				pieces = append(pieces, spanPieces(ParseColorSpans(trailing, edge), "")...)
			}
		default:
			pieces = append(pieces, body...)
		}
	}
	return pieces
}

func spanPieces(spans []Span, bg string) []Piece {
	out := make([]Piece, 0, len(spans))
	for _, sp := range spans {
		if sp.Text == "" {
			continue
		}
		out = append(out, Piece{Text: sp.Text, Foreground: sp.Color, Background: bg})
	}
	return out
}

func asciiPieces(pieces []Piece) []Piece {
	for i := range pieces {
		pieces[i].Text = ASCII(pieces[i].Text)
	}
	return pieces
}

// Width returns the number of terminal cells the pieces occupy.
func Width(pieces []Piece) int {
	n := 0
	for _, p := range pieces {
		n += runewidth.StringWidth(p.Text)
	}
	return n
}

// PlainText joins the pieces of a line, padding right-aligned pieces to
// width.
func PlainText(line Line, width int) string {
	var b strings.Builder
	for _, p := range line.Left {
		b.WriteString(p.Text)
	}
	if len(line.Right) > 0 {
		b.WriteString(strings.Repeat(" ", gap(line, width)))
		for _, p := range line.Right {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

func gap(line Line, width int) int {
	pad := width - Width(line.Left) - Width(line.Right)
	if pad < 1 {
		pad = 1
	}
	return pad
}

// Draw paints the lines with terminal colors. Uncolored cells take the
// theme's text color and background.
func Draw(lines []Line, opts Options) string {
	opts = opts.withDefaults()
	r := opts.Renderer

	paint := func(p Piece) string {
		fg, bg := p.Foreground, p.Background
		if fg == "" {
			fg = opts.Theme.Text
		}
		if bg == "" {
			bg = opts.Theme.Background
		}
		return style(r, fg, bg).Render(p.Text)
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		var b strings.Builder
		for _, p := range line.Left {
			b.WriteString(paint(p))
		}
		used := Width(line.Left)
		if len(line.Right) > 0 {
			pad := gap(line, opts.Width)
			b.WriteString(paint(Piece{Text: strings.Repeat(" ", pad)}))
			for _, p := range line.Right {
				b.WriteString(paint(p))
			}
			used += pad + Width(line.Right)
		}
		if used < opts.Width {
			b.WriteString(paint(Piece{Text: strings.Repeat(" ", opts.Width-used)}))
		}
		out = append(out, b.String())
	}
	return strings.Join(out, "\n")
}

// RenderConfig lays out and draws cfg in one step.
func RenderConfig(cfg *model.Config, opts Options) string {
	return Draw(Layout(cfg, opts), opts)
}
