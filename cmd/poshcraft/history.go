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

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/adaryorg/poshcraft/internal/ids"
	"github.com/adaryorg/poshcraft/internal/importer"
	"github.com/adaryorg/poshcraft/internal/storage"
)

var (
	historyShow    string
	historyRestore string
	historyRemove  string
	historyClear   bool
	historyLimit   int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past exports",
	Long: `History lists copied, printed and downloaded exports, newest first.
IDs may be shortened to any unique prefix.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		cache := storage.NewHistoryCache(st, 8)

		switch {
		case historyClear:
			if err := st.Clear(); err != nil {
				return err
			}
			fmt.Println("History cleared")
			return nil

		case historyRemove != "":
			id, err := st.Resolve(historyRemove)
			if err != nil {
				return err
			}
			if err := st.Delete(id); err != nil {
				return err
			}
			cache.Evict(id)
			fmt.Printf("Removed %s\n", shortID(id))
			return nil

		case historyShow != "":
			id, err := st.Resolve(historyShow)
			if err != nil {
				return err
			}
			content, err := cache.Content(id)
			if err != nil {
				return err
			}
			entry, err := st.Get(id)
			if err != nil {
				return err
			}
			return printDocument(content, entry.Format)

		case historyRestore != "":
			id, err := st.Resolve(historyRestore)
			if err != nil {
				return err
			}
			entry, err := st.Get(id)
			if err != nil {
				return err
			}
			content, err := cache.Content(id)
			if err != nil {
				return err
			}
			cfg, err := importer.New(ids.NewUUID()).Import(content, "history."+entry.Format)
			if err != nil {
				return err
			}
			if err := saveWorkspace(cfg); err != nil {
				return err
			}
			fmt.Printf("Restored %s into workspace %s\n", shortID(id), workspaceName)
			return nil
		}

		entries := cache.List()
		if len(entries) == 0 {
			fmt.Println("No exports yet")
			return nil
		}
		if historyLimit > 0 && len(entries) > historyLimit {
			entries = entries[:historyLimit]
		}
		for _, e := range entries {
			risk := ""
			if e.ThreatLevel != "" && e.ThreatLevel != "none" {
				risk = "  [" + e.ThreatLevel + " risk]"
			}
			fmt.Printf("%s  %-4s  %-8s  %8s  %-14s %s%s\n",
				shortID(e.ID), e.Format, e.Action, humanize.Bytes(uint64(e.Size)),
				humanize.Time(e.Timestamp), e.Target, risk)
		}
		if stats := cache.Stats(); stats.Entries > len(entries) {
			fmt.Printf("(%d of %d shown)\n", len(entries), stats.Entries)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyShow, "show", "", "Print an export")
	historyCmd.Flags().StringVar(&historyRestore, "restore", "", "Load an export back into the workspace")
	historyCmd.Flags().StringVar(&historyRemove, "rm", "", "Remove an export")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Remove every export")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Entries to list (0 for all)")
	historyCmd.MarkFlagsMutuallyExclusive("show", "restore", "rm", "clear")

	rootCmd.AddCommand(historyCmd)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
