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

package secrets

import (
	"fmt"
	"strings"

	"github.com/adaryorg/poshcraft/internal/model"
	"github.com/adaryorg/poshcraft/internal/tree"
)

// Finding is a sensitive looking option value.
type Finding struct {
	Path        string // e.g. blocks[0].segments[2].options.api_key
	SegmentType string
	Key         string
	Fingerprint string
	Threat      Threat // the most confident threat
	Threats     []Threat
}

func (f Finding) String() string {
	return fmt.Sprintf("%s (%s): %s", f.Path, f.SegmentType, f.Threat.Reason)
}

// Scan checks every string option value of every segment in cfg.
func Scan(cfg *model.Config) []Finding {
	return NewDetector().Scan(cfg)
}

// Scan checks every string option value of every segment in cfg.
func (d *Detector) Scan(cfg *model.Config) []Finding {
	var findings []Finding
	for i, b := range cfg.Blocks {
		for j, s := range b.Segments {
			opts := s.Options()
			if opts == nil {
				continue
			}
			base := fmt.Sprintf("blocks[%d].segments[%d].options", i, j)
			tree.Walk(opts, base, func(path, value string) {
				key := lastKey(path)
				threats := d.Detect(key, value)
				best, ok := Highest(threats)
				if !ok {
					return
				}
				findings = append(findings, Finding{
					Path:        path,
					SegmentType: s.Type(),
					Key:         key,
					Fingerprint: Fingerprint(value),
					Threat:      best,
					Threats:     threats,
				})
			})
		}
	}
	return findings
}

// lastKey returns the final map key of a walk path, ignoring list indexes.
func lastKey(path string) string {
	for strings.HasSuffix(path, "]") {
		i := strings.LastIndex(path, "[")
		if i < 0 {
			break
		}
		path = path[:i]
	}
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i+1:]
	}
	return path
}

// Level grades findings as "none", "low", "medium" or "high" by their most
// confident threat.
func Level(findings []Finding) string {
	highest := 0.0
	for _, f := range findings {
		if f.Threat.Confidence > highest {
			highest = f.Threat.Confidence
		}
	}
	switch {
	case highest < 0.5:
		return "none"
	case highest < 0.6:
		return "low"
	case highest < 0.8:
		return "medium"
	default:
		return "high"
	}
}
