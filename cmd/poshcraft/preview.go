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

package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adaryorg/poshcraft/internal/clipboard"
	"github.com/adaryorg/poshcraft/internal/model"
	"github.com/adaryorg/poshcraft/internal/preview"
	"github.com/adaryorg/poshcraft/internal/snapshot"
	"github.com/adaryorg/poshcraft/internal/workspace"
)

var (
	previewBackground string
	previewWidth      int
	previewPNG        string
	previewCopyImage  bool
	previewBasic      bool

	renderSet   []string
	renderPlain bool

	segmentsCategories bool
)

var previewCmd = &cobra.Command{
	Use:   "preview [FILE]",
	Short: "Draw the prompt in the terminal",
	Long: `Preview lays out the workspace (or FILE) with mock data and draws it
with terminal colors. --png writes the same lines as an image and
--copy-image puts that image on the clipboard.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := configOrWorkspace(args)
		if err != nil {
			return err
		}
		opts := previewOptions()
		lines := preview.Layout(cfg, opts)
		fmt.Println(preview.Draw(lines, opts))

		if previewPNG != "" {
			if err := snapshot.WriteFile(previewPNG, lines, snapshotOptions(opts)); err != nil {
				return err
			}
			fmt.Println(previewPNG)
		}
		if previewCopyImage {
			var buf bytes.Buffer
			if err := snapshot.Encode(&buf, snapshot.Draw(lines, snapshotOptions(opts))); err != nil {
				return err
			}
			if err := clipboard.CopyImage(buf.Bytes()); err != nil {
				return err
			}
			fmt.Println("Copied preview image to the clipboard")
		}
		return nil
	},
}

var renderCmd = &cobra.Command{
	Use:   "render TEMPLATE",
	Short: "Evaluate a segment template against mock data",
	Long: `Render evaluates a template such as "{{ .Path }} {{ .HEAD }}" with the
preview mock data. --set overrides a value, e.g. --set Folder=src or
--set Env.USER=me. --plain strips <#rrggbb> color markup.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := preview.MockData()
		for _, assignment := range renderSet {
			key, value, err := workspace.ParseAssignment(assignment)
			if err != nil {
				return err
			}
			setPath(ctx, key, value)
		}

		out := preview.Render(args[0], ctx)
		if renderPlain {
			out = preview.StripColorMarkup(out)
		}
		fmt.Println(out)
		return nil
	},
}

var segmentsCmd = &cobra.Command{
	Use:   "segments [QUERY]",
	Short: "List or search segment types",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if segmentsCategories {
			for _, c := range registry.Categories() {
				fmt.Printf("%-14s %d segment(s)\n", c.Name, len(registry.ByCategory(c.ID)))
			}
			return nil
		}

		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		matches := registry.Search(query)
		if len(matches) == 0 {
			return fmt.Errorf("no segment matches %q", query)
		}
		for _, s := range matches {
			fmt.Printf("%-14s %-12s %s\n", s.Type, s.Category, s.Description)
		}
		return nil
	},
}

func init() {
	previewCmd.Flags().StringVar(&previewBackground, "background", "", "dark or light (default from settings)")
	previewCmd.Flags().IntVar(&previewWidth, "width", 0, "Line width (default terminal width)")
	previewCmd.Flags().StringVar(&previewPNG, "png", "", "Also write a PNG snapshot to this file")
	previewCmd.Flags().BoolVar(&previewCopyImage, "copy-image", false, "Copy a PNG snapshot to the clipboard")
	previewCmd.Flags().BoolVar(&previewBasic, "basic", false, "ASCII fallbacks for terminals without Nerd Fonts")

	renderCmd.Flags().StringArrayVar(&renderSet, "set", nil, "Override mock data, Key=Value (repeatable)")
	renderCmd.Flags().BoolVar(&renderPlain, "plain", false, "Strip color markup")

	segmentsCmd.Flags().BoolVar(&segmentsCategories, "categories", false, "List categories instead")

	rootCmd.AddCommand(previewCmd, renderCmd, segmentsCmd)
}

func previewOptions() preview.Options {
	background := previewBackground
	if background == "" {
		background = settings.Preview.Background
	}
	width := previewWidth
	if width <= 0 {
		width = terminalWidth()
	}
	basic := previewBasic || settings.Preview.BasicTerminal || !preview.DetectCapabilities().Unicode
	return preview.Options{
		Theme:    preview.ThemeFor(background),
		Width:    width,
		Basic:    basic,
		Registry: registry,
	}
}

func snapshotOptions(opts preview.Options) snapshot.Options {
	return snapshot.Options{
		Theme:   opts.Theme,
		Width:   opts.Width,
		Padding: 8,
		Scale:   settings.Preview.Scale,
	}
}

// setPath stores value under a dotted key, creating nested maps on the way.
func setPath(ctx preview.Context, key string, value any) {
	parts := strings.Split(strings.TrimPrefix(key, "."), ".")
	cur := map[string]any(ctx)
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[part] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = value
}

// outlineOf returns the preview of cfg as plain text, for watch mode on
// terminals that cannot show colors.
func outlineOf(cfg *model.Config, opts preview.Options) string {
	lines := preview.Layout(cfg, opts)
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, preview.PlainText(line, opts.Width))
	}
	return strings.Join(out, "\n")
}
