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

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Export   ExportConfig   `toml:"export"`
	Preview  PreviewConfig  `toml:"preview"`
	Database DatabaseConfig `toml:"database"`
	Metadata MetadataConfig `toml:"metadata"`
	Logging  LoggingConfig  `toml:"logging"`
	Theme    ThemeConfig    `toml:"theme"`
}

type ExportConfig struct {
	Format         string `toml:"format"`
	OutputDir      string `toml:"output_dir"`
	SchemaURL      string `toml:"schema_url"`
	Highlight      bool   `toml:"highlight"`
	HighlightTheme string `toml:"highlight_theme"`
}

type PreviewConfig struct {
	Background    string `toml:"background"` // "dark" or "light"
	Width         int    `toml:"width"`      // 0 follows the terminal
	BasicTerminal bool   `toml:"basic_terminal"`
	Scale         int    `toml:"scale"` // PNG snapshot scale
}

type DatabaseConfig struct {
	MaxEntries int    `toml:"max_entries"`
	Workspace  string `toml:"workspace"`
}

type MetadataConfig struct {
	File string `toml:"file"` // replaces the built-in segment registry when set
}

type LoggingConfig struct {
	Level      string `toml:"level"`
	LogFile    string `toml:"log_file"`
	MaxAge     int    `toml:"max_age"`  // days
	MaxSize    int    `toml:"max_size"` // megabytes
	MaxBackups int    `toml:"max_backups"`
}

type ThemeConfig struct {
	Header   ColorConfig `toml:"header"`
	Status   ColorConfig `toml:"status"`
	Search   ColorConfig `toml:"search"`
	Warning  ColorConfig `toml:"warning"`
	Selected ColorConfig `toml:"selected"`
	Border   ColorConfig `toml:"border"`
}

type ColorConfig struct {
	Foreground string `toml:"foreground"`
	Background string `toml:"background"`
	Bold       bool   `toml:"bold"`
}

// Dir returns ~/.config/poshcraft.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "poshcraft"), nil
}

// Load reads ~/.config/poshcraft/config.toml, writing the defaults first if
// the file does not exist.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	configPath := filepath.Join(dir, "config.toml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := createDefaultConfig(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}
	return LoadFrom(configPath)
}

// LoadFrom reads an explicit config file. Missing values take defaults.
func LoadFrom(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}
	applyDefaults(&config)
	return &config, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var config Config
	config.Export.Highlight = true
	applyDefaults(&config)
	return &config
}

func applyDefaults(config *Config) {
	if config.Export.Format == "" {
		config.Export.Format = "json"
	}
	if config.Export.OutputDir == "" {
		config.Export.OutputDir = "."
	}
	if config.Export.HighlightTheme == "" {
		config.Export.HighlightTheme = "monokai"
	}

	if config.Preview.Background != "light" {
		config.Preview.Background = "dark"
	}
	if config.Preview.Width < 0 {
		config.Preview.Width = 0
	}
	if config.Preview.Scale <= 0 {
		config.Preview.Scale = 2
	}

	if config.Database.MaxEntries <= 0 {
		config.Database.MaxEntries = 1000 // Default fallback
	}
	if config.Database.Workspace == "" {
		config.Database.Workspace = "default"
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	if config.Logging.LogFile == "" {
		config.Logging.LogFile = "~/.config/poshcraft/poshcraft.log"
	}
	if config.Logging.MaxAge <= 0 {
		config.Logging.MaxAge = 30
	}
	if config.Logging.MaxSize <= 0 {
		config.Logging.MaxSize = 10
	}
	if config.Logging.MaxBackups <= 0 {
		config.Logging.MaxBackups = 3
	}

	if config.Theme.Header.Foreground == "" {
		config.Theme.Header.Foreground = "13" // bright magenta
		config.Theme.Header.Bold = true
	}
	if config.Theme.Status.Foreground == "" {
		config.Theme.Status.Foreground = "8"
	}
	if config.Theme.Search.Foreground == "" {
		config.Theme.Search.Foreground = "141" // light purple
		config.Theme.Search.Bold = true
	}
	if config.Theme.Warning.Foreground == "" {
		config.Theme.Warning.Foreground = "9"
		config.Theme.Warning.Bold = true
	}
	if config.Theme.Selected.Foreground == "" {
		config.Theme.Selected.Foreground = "15" // bright white
		config.Theme.Selected.Background = "55" // darker purple
	}
	if config.Theme.Border.Foreground == "" {
		config.Theme.Border.Foreground = "39"
	}
}

func createDefaultConfig(configPath string) error {
	// Ensure config directory exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	file, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(defaultConfig)
	return err
}

const defaultConfig = `[export]
format = "json"
output_dir = "."
schema_url = ""
highlight = true
highlight_theme = "monokai"

[preview]
background = "dark"
width = 0
basic_terminal = false
scale = 2

[database]
max_entries = 1000
workspace = "default"

[metadata]
file = ""

[logging]
level = "info"
log_file = "~/.config/poshcraft/poshcraft.log"
max_age = 30
max_size = 10
max_backups = 3

[theme.header]
foreground = "13"
background = ""
bold = true

[theme.status]
foreground = "8"
background = ""
bold = false

[theme.search]
foreground = "141"
background = ""
bold = true

[theme.warning]
foreground = "9"
background = ""
bold = true

[theme.selected]
foreground = "15"
background = "55"
bold = false

[theme.border]
foreground = "39"
background = ""
bold = false
`
