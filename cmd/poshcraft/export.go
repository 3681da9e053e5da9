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
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/adaryorg/poshcraft/internal/clipboard"
	"github.com/adaryorg/poshcraft/internal/export"
	"github.com/adaryorg/poshcraft/internal/highlight"
	"github.com/adaryorg/poshcraft/internal/ids"
	"github.com/adaryorg/poshcraft/internal/importer"
	"github.com/adaryorg/poshcraft/internal/logging"
	"github.com/adaryorg/poshcraft/internal/model"
	"github.com/adaryorg/poshcraft/internal/secrets"
	"github.com/adaryorg/poshcraft/internal/workspace"
)

var (
	exportFormat string
	exportOut    string
	exportStdout bool
	exportCopy   bool

	importPaste bool

	convertTo  string
	convertOut string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the workspace configuration",
	Long: `Export writes the workspace as ohmyposh.json, .yaml or .toml into the
output directory. --stdout prints it instead and --copy places it on the
clipboard. Option values that look like credentials are reported first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := resolveFormat(exportFormat)
		if err != nil {
			return err
		}
		cfg, err := loadWorkspace()
		if err != nil {
			return err
		}
		if settings.Export.SchemaURL != "" {
			cfg = cfg.Clone()
			if err := cfg.SetGlobal(model.KeySchema, settings.Export.SchemaURL); err != nil {
				return err
			}
		}
		content, err := export.Export(cfg, format)
		if err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}
		warnSecrets(os.Stderr, cfg)

		switch {
		case exportStdout:
			if err := printDocument(content, string(format)); err != nil {
				return err
			}
			return recordExport(cfg, format, "stdout", "", content)

		case exportCopy:
			if _, err := export.Copy(cfg, format); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Copied %s configuration to the clipboard\n", format)
			return recordExport(cfg, format, "copy", "clipboard", content)

		default:
			dir := exportOut
			if dir == "" {
				dir = settings.Export.OutputDir
			}
			path, err := export.Download(cfg, format, dir)
			if err != nil {
				return err
			}
			fmt.Println(path)
			return recordExport(cfg, format, "download", path, content)
		}
	},
}

var importCmd = &cobra.Command{
	Use:   "import [FILE]",
	Short: "Replace the workspace with a configuration file",
	Long: `Import parses a JSON, YAML or TOML oh-my-posh configuration (by file
extension) and makes it the workspace. --paste reads it from the clipboard
and guesses the format. FILE "-" reads stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			cfg *model.Config
			err error
		)
		switch {
		case importPaste:
			cfg, err = pasteConfig()
		case len(args) == 1:
			cfg, err = readConfig(args[0])
		default:
			return errors.New("a FILE or --paste is required")
		}
		if err != nil {
			var parseErr *importer.ParseError
			if errors.As(err, &parseErr) {
				logging.Warn("Import rejected: %v", parseErr)
			}
			return err
		}
		if err := saveWorkspace(cfg); err != nil {
			return err
		}
		fmt.Printf("Imported %d block(s) and %d segment(s) into workspace %s\n",
			len(cfg.Blocks), len(cfg.AllSegments()), workspaceName)
		return nil
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert FILE",
	Short: "Convert a configuration file between formats",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := resolveFormat(convertTo)
		if err != nil {
			return err
		}
		cfg, err := readConfig(args[0])
		if err != nil {
			return err
		}
		content, err := export.Export(cfg, format)
		if err != nil {
			return err
		}
		if convertOut == "" {
			return printDocument(content, string(format))
		}
		if err := os.MkdirAll(filepath.Dir(convertOut), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(convertOut, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", convertOut, err)
		}
		logging.Info("Converted %s to %s", args[0], convertOut)
		fmt.Println(convertOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "json, yaml or toml (default from settings)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output directory (default from settings)")
	exportCmd.Flags().BoolVar(&exportStdout, "stdout", false, "Print instead of writing a file")
	exportCmd.Flags().BoolVar(&exportCopy, "copy", false, "Copy to the clipboard instead of writing a file")
	exportCmd.MarkFlagsMutuallyExclusive("stdout", "copy", "out")

	importCmd.Flags().BoolVar(&importPaste, "paste", false, "Read the configuration from the clipboard")

	convertCmd.Flags().StringVarP(&convertTo, "to", "t", "", "Target format: json, yaml or toml")
	convertCmd.Flags().StringVarP(&convertOut, "out", "o", "", "Output file (default stdout)")
	convertCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(exportCmd, importCmd, convertCmd)
}

func pasteConfig() (*model.Config, error) {
	text, err := clipboard.Paste()
	if err != nil {
		return nil, err
	}
	name := "clipboard." + highlight.DetectFormat(text)
	logging.Debug("Pasted %d bytes, parsing as %s", len(text), name)
	return importer.New(ids.NewUUID()).Import(text, name)
}

// printDocument writes content to stdout, highlighted when stdout is a
// terminal and highlighting is enabled.
func printDocument(content, format string) error {
	if settings.Export.Highlight && stdoutIsTerminal() {
		h := highlight.New(settings.Export.HighlightTheme, settings.Preview.BasicTerminal)
		if out, err := h.String(content, format); err == nil {
			content = out
		} else {
			logging.Warn("Highlighting failed: %v", err)
		}
	}
	_, err := fmt.Print(content)
	return err
}

// warnSecrets prints one warning per option value that looks like a
// credential and returns how many were found.
func warnSecrets(w io.Writer, cfg *model.Config) int {
	findings := secrets.Scan(cfg)
	for _, f := range findings {
		fmt.Fprintf(w, "warning: %s\n", f)
	}
	if len(findings) > 0 {
		fmt.Fprintf(w, "warning: export risk level %s\n", secrets.Level(findings))
	}
	return len(findings)
}

// recordExport adds the export to the history. Failing to record does not
// fail the export.
func recordExport(cfg *model.Config, format export.Format, action, target, content string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	if _, err := workspace.Record(st, cfg, format, action, target, content); err != nil {
		logging.Error("%v", err)
	}
	return nil
}
