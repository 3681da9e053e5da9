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
	"github.com/adaryorg/poshcraft/internal/metadata"
	"github.com/adaryorg/poshcraft/internal/model"
)

// MockData returns the sample values templates are rendered against. Each
// call returns a fresh copy.
func MockData() Context {
	return Context{
		"Path":   "~/dev/my-app",
		"Folder": "my-app",

		"UserName": "user",
		"HostName": "laptop",

		"HEAD":         "main",
		"BranchStatus": "↑2",
		"UpstreamIcon": "",
		"Working":      map[string]any{"Changed": false, "String": ""},
		"Staging":      map[string]any{"Changed": false, "String": ""},
		"StashCount":   0,

		"Full":  "v1.2.3",
		"Major": "1",
		"Minor": "2",
		"Patch": "3",
		"Venv":  "venv",

		"CurrentDate": "Monday at 2:45 PM",
		"Format":      "",

		"FormattedMs": "127ms",
		"Ms":          127,

		"EnvironmentName": "production",
		"Context":         "default",
		"Code":            0,
		"Percentage":      85,

		"Premium": map[string]any{
			"Percent": map[string]any{"Gauge": "████░"},
		},
	}
}

// mockText is shown for segments without a template.
var mockText = map[string]string{
	"path":          "~/dev/my-app",
	"git":           "main ↑2",
	"node":          "v20.10.0",
	"python":        "3.11.0",
	"go":            "1.21.0",
	"rust":          "1.74.0",
	"dotnet":        "8.0.0",
	"java":          "17.0.0",
	"azfunc":        "v4.0",
	"az":            "production",
	"docker":        "default",
	"kubectl":       "k8s-prod::default",
	"time":          "Monday at 2:45 PM",
	"session":       "user@laptop",
	"executiontime": "127ms",
	"status":        "❯",
	"battery":       "85%",
	"aws":           "prod@us-east-1",
	"terraform":     "production",
}

// PreviewText returns the text a segment shows in the preview: its rendered
// template, or when it has none the registry's preview text, the built-in
// sample for its type, its display name and finally its raw type.
func PreviewText(seg *model.Segment, reg *metadata.Registry) string {
	return previewText(seg, reg, MockData())
}

func previewText(seg *model.Segment, reg *metadata.Registry, ctx Context) string {
	if tmpl := seg.Template(); tmpl != "" {
		return Render(tmpl, ctx)
	}
	if reg == nil {
		reg = metadata.Default()
	}

	segType := seg.Type()
	meta, known := reg.Lookup(segType)
	if known && meta.PreviewText != "" {
		return meta.PreviewText
	}
	if text, ok := mockText[segType]; ok {
		return text
	}
	if known && meta.Name != "" {
		return meta.Name
	}
	return segType
}
