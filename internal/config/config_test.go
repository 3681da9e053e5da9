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
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfig_DefaultValues(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	// Load config (should create default)
	config, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, ".config", "poshcraft", "config.toml")); err != nil {
		t.Errorf("Expected default config file to be written: %v", err)
	}

	if config.Export.Format != "json" {
		t.Errorf("Expected Export.Format to be 'json', got '%s'", config.Export.Format)
	}
	if !config.Export.Highlight {
		t.Error("Expected Export.Highlight to be true")
	}
	if config.Export.HighlightTheme != "monokai" {
		t.Errorf("Expected HighlightTheme to be 'monokai', got '%s'", config.Export.HighlightTheme)
	}
	if config.Preview.Background != "dark" {
		t.Errorf("Expected Preview.Background to be 'dark', got '%s'", config.Preview.Background)
	}
	if config.Preview.Scale != 2 {
		t.Errorf("Expected Preview.Scale to be 2, got %d", config.Preview.Scale)
	}
	if config.Database.MaxEntries != 1000 {
		t.Errorf("Expected MaxEntries to be 1000, got %d", config.Database.MaxEntries)
	}
	if config.Database.Workspace != "default" {
		t.Errorf("Expected Workspace to be 'default', got '%s'", config.Database.Workspace)
	}
	if config.Logging.Level != "info" || config.Logging.MaxBackups != 3 {
		t.Errorf("Unexpected logging defaults %+v", config.Logging)
	}
	if config.Theme.Header.Foreground != "13" || !config.Theme.Header.Bold {
		t.Errorf("Unexpected header theme %+v", config.Theme.Header)
	}
	if config.Theme.Selected.Background != "55" {
		t.Errorf("Expected Selected.Background to be '55', got '%s'", config.Theme.Selected.Background)
	}
}

func TestConfig_CustomValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	custom := `[export]
format = "yaml"
output_dir = "/tmp/themes"
highlight = false

[preview]
background = "light"
width = 120
basic_terminal = true

[database]
max_entries = 50

[metadata]
file = "/etc/poshcraft/segments.json"

[logging]
level = "debug"

[theme.search]
bold = false
`
	if err := os.WriteFile(path, []byte(custom), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	config, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if config.Export.Format != "yaml" || config.Export.OutputDir != "/tmp/themes" || config.Export.Highlight {
		t.Errorf("Unexpected export section %+v", config.Export)
	}
	if config.Preview.Background != "light" || config.Preview.Width != 120 || !config.Preview.BasicTerminal {
		t.Errorf("Unexpected preview section %+v", config.Preview)
	}
	if config.Database.MaxEntries != 50 {
		t.Errorf("Expected MaxEntries to be 50, got %d", config.Database.MaxEntries)
	}
	if config.Metadata.File != "/etc/poshcraft/segments.json" {
		t.Errorf("Unexpected metadata file %q", config.Metadata.File)
	}
	if config.Logging.Level != "debug" || config.Logging.MaxAge != 30 {
		t.Errorf("Unexpected logging section %+v", config.Logging)
	}

	// Test that missing values fall back to defaults
	if config.Theme.Search.Foreground != "141" {
		t.Errorf("Expected Search.Foreground to default to '141', got '%s'", config.Theme.Search.Foreground)
	}
}

func TestConfig_InvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.toml")
	invalid := `[database]
max_entries = -10

[preview]
background = "purple"
width = -3
scale = 0
`
	if err := os.WriteFile(path, []byte(invalid), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	config, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if config.Database.MaxEntries != 1000 {
		t.Errorf("Expected MaxEntries to fallback to 1000, got %d", config.Database.MaxEntries)
	}
	if config.Preview.Background != "dark" || config.Preview.Width != 0 || config.Preview.Scale != 2 {
		t.Errorf("Unexpected preview fallbacks %+v", config.Preview)
	}
}

func TestConfig_MalformedToml(t *testing.T) {
	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, ".config", "poshcraft")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}

	malformed := `[database
max_entries = 500
invalid syntax here
`
	if err := os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(malformed), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv("HOME", tmpDir)

	_, err := Load()
	if err == nil {
		t.Fatal("Expected error when loading malformed config")
	}
	if !strings.Contains(err.Error(), "failed to decode config file") {
		t.Errorf("Expected decode error, got: %v", err)
	}
}

func TestDefault(t *testing.T) {
	config := Default()
	if !config.Export.Highlight || config.Export.Format != "json" || config.Database.Workspace != "default" {
		t.Errorf("Unexpected defaults %+v", config)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	// Use nested directory that doesn't exist
	configPath := filepath.Join(t.TempDir(), "nonexistent", "config.toml")

	if err := createDefaultConfig(configPath); err != nil {
		t.Fatalf("Failed to create default config: %v", err)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	for _, expected := range []string{
		"[export]",
		"format = \"json\"",
		"[preview]",
		"[database]",
		"max_entries = 1000",
		"[metadata]",
		"[logging]",
		"[theme.header]",
	} {
		if !strings.Contains(string(content), expected) {
			t.Errorf("Expected config to contain '%s'", expected)
		}
	}

	// the written defaults must decode to the same values as Default()
	config, err := LoadFrom(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if *config != *Default() {
		t.Errorf("written defaults differ:\n%+v\n%+v", config, Default())
	}
}

func TestLoad_HomeDirectoryError(t *testing.T) {
	t.Setenv("HOME", "")

	// This should fail on systems where UserHomeDir depends on HOME
	_, err := Load()
	if err == nil {
		// On some systems this might not fail, so we skip the test
		t.Skip("UserHomeDir didn't fail on this system")
	}
	if !strings.Contains(err.Error(), "failed to get user home directory") {
		t.Errorf("Expected home directory error, got: %v", err)
	}
}
