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
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/adaryorg/poshcraft/internal/tree"
)

// ToTOML writes doc as TOML. TOML has no null, so null entries are removed
// first. The encoder orders keys itself: plain values before tables, each
// group sorted.
func ToTOML(doc *tree.Map) (string, error) {
	plain, ok := tree.Plain(tree.StripNulls(doc)).(map[string]any)
	if !ok {
		return "", fmt.Errorf("%w: document root", ErrUnsupportedValue)
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(plain); err != nil {
		return "", fmt.Errorf("failed to encode TOML: %w", err)
	}
	return buf.String(), nil
}
