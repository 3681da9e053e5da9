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

package metadata

// Colors is a background/foreground pair in #rrggbb notation.
type Colors struct {
	Background string
	Foreground string
}

var categoryColors = map[string]Colors{
	"system":    {Background: "#61AFEF", Foreground: "#ffffff"},
	"scm":       {Background: "#98C379", Foreground: "#ffffff"},
	"languages": {Background: "#C678DD", Foreground: "#ffffff"},
	"cloud":     {Background: "#E5C07B", Foreground: "#282c34"},
	"cli":       {Background: "#56B6C2", Foreground: "#ffffff"},
	"web":       {Background: "#7C9FF5", Foreground: "#ffffff"},
	"music":     {Background: "#E06C75", Foreground: "#ffffff"},
	"health":    {Background: "#89CA78", Foreground: "#282c34"},
}

// Per-type colors win over the category scheme.
var typeColors = map[string]Colors{
	"git":           {Background: "#98C379", Foreground: "#ffffff"},
	"path":          {Background: "#61AFEF", Foreground: "#ffffff"},
	"node":          {Background: "#68A063", Foreground: "#ffffff"},
	"python":        {Background: "#4B8BBE", Foreground: "#FFD43B"},
	"go":            {Background: "#00ADD8", Foreground: "#ffffff"},
	"rust":          {Background: "#CE422B", Foreground: "#ffffff"},
	"java":          {Background: "#E76F00", Foreground: "#ffffff"},
	"dotnet":        {Background: "#512BD4", Foreground: "#ffffff"},
	"php":           {Background: "#777BB3", Foreground: "#ffffff"},
	"ruby":          {Background: "#CC342D", Foreground: "#ffffff"},
	"docker":        {Background: "#2496ED", Foreground: "#ffffff"},
	"kubectl":       {Background: "#326CE5", Foreground: "#ffffff"},
	"aws":           {Background: "#FF9900", Foreground: "#232F3E"},
	"az":            {Background: "#0078D4", Foreground: "#ffffff"},
	"azd":           {Background: "#0078D4", Foreground: "#ffffff"},
	"gcp":           {Background: "#EA4335", Foreground: "#ffffff"},
	"terraform":     {Background: "#7B42BC", Foreground: "#ffffff"},
	"status":        {Background: "#98C379", Foreground: "#ffffff"},
	"executiontime": {Background: "#E5C07B", Foreground: "#282c34"},
	"time":          {Background: "#56B6C2", Foreground: "#ffffff"},
	"battery":       {Background: "#E5C07B", Foreground: "#282c34"},
	"root":          {Background: "#E06C75", Foreground: "#ffffff"},
	"react":         {Background: "#61DAFB", Foreground: "#282c34"},
	"angular":       {Background: "#DD0031", Foreground: "#ffffff"},
	"spotify":       {Background: "#1DB954", Foreground: "#ffffff"},
}

var fallbackColors = Colors{Background: "#61AFEF", Foreground: "#ffffff"}

// ColorsFor returns the default colors for a new segment: the per-type
// override, then the category scheme, then the system scheme.
func ColorsFor(segType, category string) Colors {
	if c, ok := typeColors[segType]; ok {
		return c
	}
	if c, ok := categoryColors[category]; ok {
		return c
	}
	return fallbackColors
}

// CategoryColors returns the scheme of a category and whether one exists.
func CategoryColors(category string) (Colors, bool) {
	c, ok := categoryColors[category]
	return c, ok
}
