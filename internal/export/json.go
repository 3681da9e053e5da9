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

package export

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/adaryorg/poshcraft/internal/escape"
	"github.com/adaryorg/poshcraft/internal/tree"
)

// ErrUnsupportedValue is returned for values a format cannot represent.
var ErrUnsupportedValue = errors.New("unsupported value")

const jsonIndent = "  "

// ToJSON writes doc with two-space indentation. Every character at or above
// U+0080 inside a string value is written as an escape so the file survives
// editors and fonts without Nerd Font glyphs; keys are written as they are.
func ToJSON(doc *tree.Map) (string, error) {
	var b strings.Builder
	if err := writeJSON(&b, doc, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

func writeJSON(b *strings.Builder, v any, depth int) error {
	switch val := v.(type) {
	case nil:
		b.WriteString("null")
	case bool:
		b.WriteString(strconv.FormatBool(val))
	case int64:
		b.WriteString(strconv.FormatInt(val, 10))
	case float64:
		s, err := formatNumber(val)
		if err != nil {
			return err
		}
		b.WriteString(s)
	case string:
		writeJSONString(b, val, true)
	case time.Time:
		writeJSONString(b, val.UTC().Format(time.RFC3339Nano), true)
	case []any:
		if len(val) == 0 {
			b.WriteString("[]")
			return nil
		}
		b.WriteString("[\n")
		for i, item := range val {
			indent(b, depth+1)
			if err := writeJSON(b, item, depth+1); err != nil {
				return err
			}
			if i < len(val)-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
		}
		indent(b, depth)
		b.WriteByte(']')
	case *tree.Map:
		if val.Len() == 0 {
			b.WriteString("{}")
			return nil
		}
		b.WriteString("{\n")
		i := 0
		for pair := val.Oldest(); pair != nil; pair = pair.Next() {
			indent(b, depth+1)
			writeJSONString(b, pair.Key, false)
			b.WriteString(": ")
			if err := writeJSON(b, pair.Value, depth+1); err != nil {
				return fmt.Errorf("%s: %w", pair.Key, err)
			}
			if i < val.Len()-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
			i++
		}
		indent(b, depth)
		b.WriteByte('}')
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
	return nil
}

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString(jsonIndent)
	}
}

// formatNumber matches the JavaScript number-to-string rules for the ranges
// prompt configs use: integral values carry no fraction.
func formatNumber(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedValue, f)
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		// Go writes 1e+21 and 1e-07, JavaScript 1e+21 and 1e-7
		s = strings.Replace(s, "e-0", "e-", 1)
		s = strings.Replace(s, "e+0", "e+", 1)
		return s, nil
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

func writeJSONString(b *strings.Builder, s string, escapeUnicode bool) {
	b.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch c {
			case '"':
				b.WriteString(`\"`)
			case '\\':
				b.WriteString(`\\`)
			case '\n':
				b.WriteString(`\n`)
			case '\r':
				b.WriteString(`\r`)
			case '\t':
				b.WriteString(`\t`)
			case '\b':
				b.WriteString(`\b`)
			case '\f':
				b.WriteString(`\f`)
			default:
				if c < 0x20 {
					escape.WriteRune(b, rune(c))
				} else {
					b.WriteByte(c)
				}
			}
			i++
			continue
		}

		r, size := utf8.DecodeRuneInString(s[i:])
		if escapeUnicode || r == utf8.RuneError && size == 1 {
			escape.WriteRune(b, r)
		} else {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	b.WriteByte('"')
}
