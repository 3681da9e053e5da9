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

// Span is a run of text drawn in one color.
type Span struct {
	Text  string
	Color string
}

// ParseColorSpans splits text on inline color markup: <#rrggbb> switches the
// color and </> goes back to defaultColor. Tags do not nest, so an open tag
// inside another simply switches the color; an unclosed tag colors to the
// end. Other angle-bracket text is kept as is. Empty runs are dropped and
// neighbouring runs of one color are merged.
func ParseColorSpans(text, defaultColor string) []Span {
	var spans []Span
	color := defaultColor
	start := 0

	flush := func(end int) {
		if end <= start {
			return
		}
		chunk := text[start:end]
		if n := len(spans); n > 0 && spans[n-1].Color == color {
			spans[n-1].Text += chunk
		} else {
			spans = append(spans, Span{Text: chunk, Color: color})
		}
	}

	i := 0
	for i < len(text) {
		if text[i] != '<' {
			i++
			continue
		}
		if hasPrefixAt(text, i, "</>") {
			flush(i)
			color = defaultColor
			i += 3
			start = i
			continue
		}
		if hex, ok := colorTagAt(text, i); ok {
			flush(i)
			color = "#" + hex
			i += len("<#") + len(hex) + len(">")
			start = i
			continue
		}
		i++
	}
	flush(len(text))

	if len(spans) == 0 {
		return []Span{{Text: "", Color: defaultColor}}
	}
	return spans
}

// StripColorMarkup returns text with every recognized color tag removed.
func StripColorMarkup(text string) string {
	var out []byte
	for _, s := range ParseColorSpans(text, "") {
		out = append(out, s.Text...)
	}
	return string(out)
}

func hasPrefixAt(s string, i int, prefix string) bool {
	return len(s)-i >= len(prefix) && s[i:i+len(prefix)] == prefix
}

// colorTagAt reports whether a <#rrggbb> tag starts at s[i].
func colorTagAt(s string, i int) (string, bool) {
	const tagLen = len("<#rrggbb>")
	if len(s)-i < tagLen || s[i+1] != '#' || s[i+tagLen-1] != '>' {
		return "", false
	}
	hex := s[i+2 : i+tagLen-1]
	for j := 0; j < len(hex); j++ {
		c := hex[j]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return "", false
		}
	}
	return hex, true
}
