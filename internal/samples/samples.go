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

// Package samples ships a small gallery of ready-made prompt configurations.
package samples

import (
	"embed"
	"errors"
	"fmt"
	"path"

	"github.com/adaryorg/poshcraft/internal/ids"
	"github.com/adaryorg/poshcraft/internal/importer"
	"github.com/adaryorg/poshcraft/internal/model"
)

//go:embed data
var files embed.FS

// ErrUnknown is returned for a sample name that is not in the gallery.
var ErrUnknown = errors.New("unknown sample")

// Sample describes one gallery entry.
type Sample struct {
	Name        string
	Description string
	File        string
}

var gallery = []Sample{
	{Name: "minimal", Description: "Plain folder name and exit status", File: "minimal.json"},
	{Name: "powerline", Description: "Session, path and git joined by powerline arrows", File: "powerline.yaml"},
	{Name: "diamond", Description: "Rounded OS and path capsules with a right-aligned clock", File: "diamond.toml"},
	{Name: "two-line", Description: "Powerline first line, execution time on the right, prompt below", File: "two-line.json"},
}

// List returns the gallery in display order.
func List() []Sample {
	out := make([]Sample, len(gallery))
	copy(out, gallery)
	return out
}

// Names returns the sample names in display order.
func Names() []string {
	names := make([]string, len(gallery))
	for i, s := range gallery {
		names[i] = s.Name
	}
	return names
}

// Find returns the sample registered under name.
func Find(name string) (Sample, bool) {
	for _, s := range gallery {
		if s.Name == name {
			return s, true
		}
	}
	return Sample{}, false
}

// Source returns the raw document of a sample.
func Source(name string) (string, error) {
	s, ok := Find(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknown, name)
	}
	data, err := files.ReadFile(path.Join("data", s.File))
	if err != nil {
		return "", fmt.Errorf("failed to read sample %s: %w", name, err)
	}
	return string(data), nil
}

// Load parses a sample into a configuration with identifiers from gen.
func Load(name string, gen ids.Generator) (*model.Config, error) {
	text, err := Source(name)
	if err != nil {
		return nil, err
	}
	s, _ := Find(name)
	return importer.New(gen).Import(text, s.File)
}
