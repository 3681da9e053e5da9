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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adaryorg/poshcraft/internal/clipboard"
	"github.com/adaryorg/poshcraft/internal/logging"
	"github.com/adaryorg/poshcraft/internal/model"
)

// Format is an export format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatTOML}

// ParseFormat maps a user-supplied name to a Format. "yml" is accepted as
// YAML.
func ParseFormat(name string) (Format, bool) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "json":
		return FormatJSON, true
	case "yaml", "yml":
		return FormatYAML, true
	case "toml":
		return FormatTOML, true
	}
	return "", false
}

// copyText is replaced in tests.
var copyText = clipboard.Copy

// Export serializes cfg. Unknown formats fall back to JSON.
func Export(cfg *model.Config, format Format) (string, error) {
	doc := Normalize(cfg)
	switch format {
	case FormatYAML:
		return ToYAML(doc)
	case FormatTOML:
		return ToTOML(doc)
	default:
		return ToJSON(doc)
	}
}

// Filename returns the download name for format, e.g. ohmyposh.yaml.
func Filename(format Format) string {
	switch format {
	case FormatYAML, FormatTOML:
		return "ohmyposh." + string(format)
	default:
		return "ohmyposh.json"
	}
}

// Download writes the export of cfg into dir and returns the file path.
func Download(cfg *model.Config, format Format, dir string) (string, error) {
	content, err := Export(cfg, format)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, Filename(format))
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		logging.Error("Failed to write %s: %v", path, err)
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	logging.Info("Exported configuration to %s", path)
	return path, nil
}

// Copy places the export of cfg on the clipboard and returns the copied text.
func Copy(cfg *model.Config, format Format) (string, error) {
	content, err := Export(cfg, format)
	if err != nil {
		return "", err
	}
	if err := copyText(content); err != nil {
		logging.Error("Failed to copy configuration: %v", err)
		return "", fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	logging.Info("Copied %s configuration to clipboard", format)
	return content, nil
}
