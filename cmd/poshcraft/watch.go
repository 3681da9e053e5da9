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
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/adaryorg/poshcraft/internal/logging"
	"github.com/adaryorg/poshcraft/internal/preview"
	"github.com/adaryorg/poshcraft/internal/snapshot"
)

var (
	watchInterval time.Duration
	watchPNG      string
)

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Redraw the preview whenever FILE changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return watchFile(ctx, args[0], watchInterval)
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 500*time.Millisecond, "Polling interval")
	watchCmd.Flags().StringVar(&watchPNG, "png", "", "Also keep a PNG snapshot up to date")
	rootCmd.AddCommand(watchCmd)
}

// watchFile polls path until ctx is cancelled and redraws on every change
// of its modification time or size.
func watchFile(ctx context.Context, path string, interval time.Duration) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	cache := snapshot.NewCache(4)
	var lastMod time.Time
	var lastSize int64 = -1

	logging.Info("Watching %s (every %v)", path, interval)
	for {
		if info, err := os.Stat(path); err != nil {
			logging.Warn("Cannot stat %s: %v", path, err)
		} else if !info.ModTime().Equal(lastMod) || info.Size() != lastSize {
			lastMod, lastSize = info.ModTime(), info.Size()
			redraw(path, cache)
		}

		select {
		case <-ctx.Done():
			logging.Info("Stopped watching %s", path)
			return nil
		case <-ticker.C:
		}
	}
}

func redraw(path string, cache *snapshot.Cache) {
	// clear screen, cursor home
	fmt.Print("\x1b[2J\x1b[H")
	fmt.Printf("%s  %s\n\n", path, time.Now().Format("15:04:05"))

	cfg, err := readConfig(path)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	opts := previewOptions()
	if preview.DetectCapabilities().Color {
		fmt.Println(preview.RenderConfig(cfg, opts))
	} else {
		fmt.Println(outlineOf(cfg, opts))
	}

	if watchPNG == "" {
		return
	}
	data, err := cache.PNG(preview.Layout(cfg, opts), snapshotOptions(opts))
	if err != nil {
		logging.Error("Snapshot failed: %v", err)
		return
	}
	if err := os.WriteFile(watchPNG, data, 0644); err != nil {
		logging.Error("Failed to write %s: %v", watchPNG, err)
	}
}
