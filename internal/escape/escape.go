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

// Package escape converts between literal Unicode characters and the \uXXXX
// notation used by prompt configuration files for Nerd Font glyphs.
package escape

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

const hexDigits = "0123456789abcdef"

// Escape replaces every code point >= U+0080 with a lowercase \uXXXX escape.
// Code points beyond the basic plane become a UTF-16 surrogate pair.
func Escape(text string) string {
	if !needsEscape(text) {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + 16)
	for _, r := range text {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
			continue
		}
		WriteRune(&b, r)
	}
	return b.String()
}

// WriteRune writes the escaped form of r to b.
func WriteRune(b *strings.Builder, r rune) {
	if r > 0xFFFF {
		hi, lo := utf16.EncodeRune(r)
		writeUnit(b, uint16(hi))
		writeUnit(b, uint16(lo))
		return
	}
	writeUnit(b, uint16(r))
}

func writeUnit(b *strings.Builder, u uint16) {
	b.WriteString(`\u`)
	b.WriteByte(hexDigits[u>>12&0xF])
	b.WriteByte(hexDigits[u>>8&0xF])
	b.WriteByte(hexDigits[u>>4&0xF])
	b.WriteByte(hexDigits[u&0xF])
}

func needsEscape(text string) bool {
	for i := 0; i < len(text); i++ {
		if text[i] >= utf8.RuneSelf {
			return true
		}
	}
	return false
}

// HasEscapable reports whether Escape would change text.
func HasEscapable(text string) bool {
	return needsEscape(text)
}

// Unescape decodes \uXXXX and \u{X...} sequences. Anything that is not a
// well-formed escape is copied through unchanged.
func Unescape(text string) string {
	if !strings.Contains(text, `\u`) {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	i := 0
	for i < len(text) {
		if text[i] != '\\' || i+1 >= len(text) || text[i+1] != 'u' {
			b.WriteByte(text[i])
			i++
			continue
		}

		r, n := decodeAt(text, i)
		if n == 0 {
			b.WriteByte(text[i])
			i++
			continue
		}

		// Join a surrogate pair written as two consecutive escapes.
		if utf16.IsSurrogate(r) && r < 0xDC00 {
			if lo, m := decodeAt(text, i+n); m > 0 && lo >= 0xDC00 && lo <= 0xDFFF {
				b.WriteRune(utf16.DecodeRune(r, lo))
				i += n + m
				continue
			}
		}
		if utf16.IsSurrogate(r) {
			// lone surrogate, no character to produce
			b.WriteString(text[i : i+n])
			i += n
			continue
		}

		b.WriteRune(r)
		i += n
	}
	return b.String()
}

// decodeAt decodes one escape starting at text[i] ("\u..."). It returns the
// rune and the number of bytes consumed, or 0 when no escape is present.
func decodeAt(text string, i int) (rune, int) {
	if i+2 > len(text) || text[i] != '\\' || text[i+1] != 'u' {
		return 0, 0
	}
	rest := text[i+2:]

	if strings.HasPrefix(rest, "{") {
		end := strings.IndexByte(rest, '}')
		if end < 2 || end > 7 {
			return 0, 0
		}
		digits := rest[1:end]
		if !isHex(digits) {
			return 0, 0
		}
		v, err := strconv.ParseUint(digits, 16, 32)
		if err != nil || v > utf8.MaxRune {
			return 0, 0
		}
		return rune(v), 2 + end + 1
	}

	if len(rest) < 4 || !isHex(rest[:4]) {
		return 0, 0
	}
	v, _ := strconv.ParseUint(rest[:4], 16, 32)
	return rune(v), 6
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return len(s) > 0
}
