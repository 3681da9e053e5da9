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

// Package clipboard copies exported configurations and preview snapshots to
// the system clipboard and reads pasted configurations back.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	atotto "github.com/atotto/clipboard"
	"golang.design/x/clipboard"

	"github.com/adaryorg/poshcraft/internal/logging"
)

var (
	initOnce sync.Once
	initErr  error
)

// ErrEmpty is returned by Paste when the clipboard holds no text.
var ErrEmpty = errors.New("clipboard is empty")

func ensureInit() error {
	initOnce.Do(func() {
		initErr = clipboard.Init()
	})
	return initErr
}

func isWaylandSession() bool {
	return os.Getenv("WAYLAND_DISPLAY") != ""
}

// Copy places text on the clipboard.
func Copy(content string) error {
	if isWaylandSession() {
		return copyWayland(content)
	}
	return copyX11(content)
}

func copyWayland(content string) error {
	cmd := exec.Command("wl-copy")
	cmd.Stdin = strings.NewReader(content)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("wl-copy failed: %w", err)
	}
	return nil
}

func copyX11(content string) error {
	// CLIPBOARD for GUI paste, PRIMARY for terminals (Shift+Insert)
	if err := atotto.WriteAll(content); err != nil {
		return err
	}

	cmd := exec.Command("xclip", "-selection", "primary")
	cmd.Stdin = strings.NewReader(content)
	if err := cmd.Run(); err != nil {
		logging.Debug("PRIMARY selection not updated: %v", err)
	}
	return nil
}

// Paste returns the text currently on the clipboard.
func Paste() (string, error) {
	var (
		content string
		err     error
	)
	if isWaylandSession() {
		var out []byte
		out, err = exec.Command("wl-paste", "--no-newline").Output()
		content = string(out)
	} else {
		content, err = atotto.ReadAll()
	}
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	if strings.TrimSpace(content) == "" {
		return "", ErrEmpty
	}
	return content, nil
}

// CopyImage places PNG data on the clipboard.
func CopyImage(png []byte) error {
	if isWaylandSession() {
		cmd := exec.Command("wl-copy", "--type", "image/png")
		cmd.Stdin = bytes.NewReader(png)
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("wl-copy image failed: %w", err)
		}
		return nil
	}

	if err := ensureInit(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtImage, png)
	return nil
}
