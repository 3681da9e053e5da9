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
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/adaryorg/poshcraft/internal/config"
	"github.com/adaryorg/poshcraft/internal/export"
	"github.com/adaryorg/poshcraft/internal/highlight"
	"github.com/adaryorg/poshcraft/internal/ids"
	"github.com/adaryorg/poshcraft/internal/importer"
	"github.com/adaryorg/poshcraft/internal/logging"
	"github.com/adaryorg/poshcraft/internal/metadata"
	"github.com/adaryorg/poshcraft/internal/model"
	"github.com/adaryorg/poshcraft/internal/storage"
	"github.com/adaryorg/poshcraft/internal/workspace"
)

var (
	configFile    string
	workspaceName string
	verbose       bool
	logLevel      string

	settings *config.Config
	registry *metadata.Registry
	store    *storage.Storage
)

var rootCmd = &cobra.Command{
	Use:   "poshcraft",
	Short: "Build oh-my-posh prompt configurations",
	Long: `poshcraft edits an oh-my-posh prompt configuration kept in a local
workspace, previews it in the terminal and exports it as JSON, YAML or TOML.

  poshcraft tui                 edit interactively
  poshcraft segment add 1 node  add a segment to the first block
  poshcraft preview             draw the prompt
  poshcraft export -f yaml      write ohmyposh.yaml`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configFile != "" {
			settings, err = config.LoadFrom(configFile)
		} else {
			settings, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if logLevel != "" {
			settings.Logging.Level = logLevel
		}

		var console io.Writer
		if verbose {
			console = os.Stderr
		}
		err = logging.InitLogger(
			settings.Logging.LogFile,
			settings.Logging.Level,
			settings.Logging.MaxAge,
			settings.Logging.MaxSize,
			settings.Logging.MaxBackups,
			console,
		)
		if err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		logging.Debug("Running %s", cmd.CommandPath())

		if settings.Metadata.File != "" {
			registry, err = metadata.LoadFile(settings.Metadata.File)
			if err != nil {
				return fmt.Errorf("failed to load segment metadata: %w", err)
			}
		} else {
			registry = metadata.Default()
		}

		if workspaceName == "" {
			workspaceName = settings.Database.Workspace
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			store.Close()
			store = nil
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"Settings file (default ~/.config/poshcraft/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&workspaceName, "workspace", "w", "",
		"Workspace to edit (default from settings)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Mirror log output to stderr")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "",
		"Log level: debug, info, warn, error")
}

func openStore() (*storage.Storage, error) {
	if store != nil {
		return store, nil
	}
	s, err := storage.New(settings.Database.MaxEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	store = s
	return store, nil
}

// loadWorkspace opens the store and the configuration being edited.
func loadWorkspace() (*model.Config, error) {
	st, err := openStore()
	if err != nil {
		return nil, err
	}
	return workspace.Load(st, workspaceName, registry, ids.NewUUID())
}

func saveWorkspace(cfg *model.Config) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	return workspace.Save(st, workspaceName, cfg)
}

// editWorkspace loads the workspace, applies fn and saves the result.
func editWorkspace(fn func(cfg *model.Config) error) error {
	cfg, err := loadWorkspace()
	if err != nil {
		return err
	}
	if err := fn(cfg); err != nil {
		return err
	}
	if err := saveWorkspace(cfg); err != nil {
		return err
	}
	printOutline(cfg)
	return nil
}

// readConfig parses a configuration file. "-" reads stdin and guesses the
// format from the content.
func readConfig(path string) (*model.Config, error) {
	var (
		data []byte
		err  error
	)
	name := path
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
		name = "stdin." + highlight.DetectFormat(string(data))
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return importer.New(ids.NewUUID()).Import(string(data), name)
}

// configOrWorkspace reads the file named by args, or the workspace when
// there is none.
func configOrWorkspace(args []string) (*model.Config, error) {
	if len(args) > 0 {
		return readConfig(args[0])
	}
	return loadWorkspace()
}

func resolveFormat(name string) (export.Format, error) {
	if name == "" {
		name = settings.Export.Format
	}
	format, ok := export.ParseFormat(name)
	if !ok {
		return "", fmt.Errorf("unknown format %q (json, yaml or toml)", name)
	}
	return format, nil
}

// terminalWidth is the configured preview width, else the width of stdout,
// else 80.
func terminalWidth() int {
	if settings != nil && settings.Preview.Width > 0 {
		return settings.Preview.Width
	}
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	return 80
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// printOutline lists blocks and segments with the addresses the edit
// commands accept.
func printOutline(cfg *model.Config) {
	if len(cfg.Blocks) == 0 {
		fmt.Println("(no blocks)")
		return
	}
	for i, b := range cfg.Blocks {
		line := fmt.Sprintf("%d  %s %s", i+1, b.Type(), b.Alignment())
		if b.Newline() {
			line += " newline"
		}
		fmt.Println(line)
		for j, s := range b.Segments {
			fmt.Printf("  %d.%d  %-14s %s\n", i+1, j+1, s.Type(), s.Style())
		}
	}
}
