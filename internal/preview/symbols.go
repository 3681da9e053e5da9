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
	"fmt"
	"strings"
)

// Default glyphs.
var (
	DefaultPowerlineSymbol = string(rune(0xE0B0))
	DefaultLeadingDiamond  = string(rune(0xE0B6))
	DefaultTrailingDiamond = string(rune(0xE0B4))
)

// Symbol is a separator glyph from the Powerline range of Nerd Fonts.
type Symbol struct {
	Value string
	Label string
	Code  string
}

func symbol(code rune, label string) Symbol {
	return Symbol{Value: string(code), Label: label, Code: fmt.Sprintf("%04X", code)}
}

// PowerlineSymbols is the catalog offered when picking separators.
var PowerlineSymbols = []Symbol{
	symbol(0xE0B0, "Sharp Right"),
	symbol(0xE0B2, "Sharp Left"),
	symbol(0xE0B4, "Rounded Right"),
	symbol(0xE0B6, "Rounded Left"),
	symbol(0xE0B1, "Sharp Right Thin"),
	symbol(0xE0B3, "Sharp Left Thin"),
	symbol(0xE0B5, "Rounded Right Thin"),
	symbol(0xE0B7, "Rounded Left Thin"),
	symbol(0xE0BC, "Flame Right"),
	symbol(0xE0BE, "Flame Left"),
	symbol(0xE0C0, "Pixelated Right"),
	symbol(0xE0C2, "Pixelated Left"),
	symbol(0xE0C4, "Honeycomb"),
	symbol(0xE0C6, "Honeycomb Outline"),
	symbol(0xE0C8, "Ice"),
	symbol(0xE0CC, "Trapezoid Top"),
	symbol(0xE0CE, "Trapezoid Bottom"),
	symbol(0xE0D2, "Semi-circle Right"),
	symbol(0xE0D4, "Semi-circle Left"),
}

// LeadingDiamondSymbols are the left-pointing glyphs.
var LeadingDiamondSymbols = pick("E0B6", "E0B2", "E0B7", "E0B3", "E0BE", "E0C2", "E0D4")

// TrailingDiamondSymbols are the right-pointing glyphs.
var TrailingDiamondSymbols = pick("E0B0", "E0B4", "E0B1", "E0B5", "E0BC", "E0C0", "E0D2")

func pick(codes ...string) []Symbol {
	want := make(map[string]bool, len(codes))
	for _, c := range codes {
		want[c] = true
	}
	var out []Symbol
	for _, s := range PowerlineSymbols {
		if want[s.Code] {
			out = append(out, s)
		}
	}
	return out
}

// LookupSymbol finds a catalog entry by code ("E0B0") or label, ignoring case.
func LookupSymbol(name string) (Symbol, bool) {
	for _, s := range PowerlineSymbols {
		if strings.EqualFold(s.Code, name) || strings.EqualFold(s.Label, name) {
			return s, true
		}
	}
	return Symbol{}, false
}
