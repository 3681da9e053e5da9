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
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adaryorg/poshcraft/internal/ids"
	"github.com/adaryorg/poshcraft/internal/model"
	"github.com/adaryorg/poshcraft/internal/samples"
	"github.com/adaryorg/poshcraft/internal/workspace"
)

var (
	blockType  string
	blockAlign string
	segmentPos int
	resetFrom  string
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "Show the blocks and segments of the workspace",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadWorkspace()
		if err != nil {
			return err
		}
		printOutline(cfg)
		return nil
	},
}

var blockCmd = &cobra.Command{
	Use:   "block",
	Short: "Add, remove, move and change blocks",
	Long: `Blocks are addressed by number, as shown by "poshcraft ls".`,
}

var blockAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Append an empty block",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return editWorkspace(func(cfg *model.Config) error {
			cfg.AddBlock(blockType, blockAlign)
			return nil
		})
	},
}

var blockRmCmd = &cobra.Command{
	Use:   "rm BLOCK",
	Short: "Remove a block and its segments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editWorkspace(func(cfg *model.Config) error {
			b, err := blockAt(cfg, args[0])
			if err != nil {
				return err
			}
			return cfg.RemoveBlock(b.ID)
		})
	},
}

var blockMvCmd = &cobra.Command{
	Use:   "mv BLOCK POSITION",
	Short: "Move a block to another position",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editWorkspace(func(cfg *model.Config) error {
			b, err := blockAt(cfg, args[0])
			if err != nil {
				return err
			}
			pos, err := position(args[1])
			if err != nil {
				return err
			}
			return cfg.MoveBlock(b.ID, pos)
		})
	},
}

var blockSetCmd = &cobra.Command{
	Use:   "set BLOCK KEY=VALUE...",
	Short: "Set block attributes; an empty value removes one",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editWorkspace(func(cfg *model.Config) error {
			b, err := blockAt(cfg, args[0])
			if err != nil {
				return err
			}
			return assign(args[1:], func(key string, value any) error {
				return cfg.SetBlockAttr(b.ID, key, value)
			})
		})
	},
}

var segmentCmd = &cobra.Command{
	Use:   "segment",
	Short: "Add, remove, move and change segments",
	Long: `Segments are addressed as BLOCK.SEGMENT, e.g. 1.2 for the second
segment of the first block, as shown by "poshcraft ls".`,
}

var segmentAddCmd = &cobra.Command{
	Use:   "add BLOCK TYPE",
	Short: "Add a segment with the defaults of its type",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := registry.Lookup(args[1]); !ok {
			return fmt.Errorf("unknown segment type %q, see poshcraft segments", args[1])
		}
		return editWorkspace(func(cfg *model.Config) error {
			b, err := blockAt(cfg, args[0])
			if err != nil {
				return err
			}
			seg, err := cfg.AddSegment(b.ID, args[1], registry)
			if err != nil {
				return err
			}
			if segmentPos > 0 {
				return cfg.MoveSegment(seg.ID, b.ID, segmentPos-1)
			}
			return nil
		})
	},
}

var segmentRmCmd = &cobra.Command{
	Use:   "rm SEGMENT",
	Short: "Remove a segment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editWorkspace(func(cfg *model.Config) error {
			_, s, err := segmentAt(cfg, args[0])
			if err != nil {
				return err
			}
			return cfg.RemoveSegment(s.ID)
		})
	},
}

var segmentMvCmd = &cobra.Command{
	Use:   "mv SEGMENT BLOCK[.POSITION]",
	Short: "Move a segment, possibly into another block",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editWorkspace(func(cfg *model.Config) error {
			_, s, err := segmentAt(cfg, args[0])
			if err != nil {
				return err
			}
			blockArg, posArg, hasPos := strings.Cut(args[1], ".")
			to, err := blockAt(cfg, blockArg)
			if err != nil {
				return err
			}
			pos := len(to.Segments)
			if hasPos {
				if pos, err = position(posArg); err != nil {
					return err
				}
			}
			return cfg.MoveSegment(s.ID, to.ID, pos)
		})
	},
}

var segmentDupCmd = &cobra.Command{
	Use:   "dup SEGMENT",
	Short: "Duplicate a segment in place",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editWorkspace(func(cfg *model.Config) error {
			_, s, err := segmentAt(cfg, args[0])
			if err != nil {
				return err
			}
			_, err = cfg.DuplicateSegment(s.ID)
			return err
		})
	},
}

var segmentSetCmd = &cobra.Command{
	Use:   "set SEGMENT KEY=VALUE...",
	Short: "Set segment attributes; an empty value removes one",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editWorkspace(func(cfg *model.Config) error {
			_, s, err := segmentAt(cfg, args[0])
			if err != nil {
				return err
			}
			return assign(args[1:], func(key string, value any) error {
				return cfg.SetSegmentAttr(s.ID, key, value)
			})
		})
	},
}

var segmentOptCmd = &cobra.Command{
	Use:   "opt SEGMENT KEY=VALUE...",
	Short: "Set segment options; an empty value removes one",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editWorkspace(func(cfg *model.Config) error {
			_, s, err := segmentAt(cfg, args[0])
			if err != nil {
				return err
			}
			return assign(args[1:], func(key string, value any) error {
				return cfg.SetSegmentOption(s.ID, key, value)
			})
		})
	},
}

var globalCmd = &cobra.Command{
	Use:   "global",
	Short: "Change top-level options",
}

var globalSetCmd = &cobra.Command{
	Use:   "set KEY [VALUE] | KEY=VALUE...",
	Short: "Set top-level options; no value removes one",
	Long: `Known options: ` + strings.Join(model.GlobalOptions, ", ") + `.
Any other key is stored as well.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		assignments, err := globalAssignments(args)
		if err != nil {
			return err
		}
		return editWorkspace(func(cfg *model.Config) error {
			return assign(assignments, cfg.SetGlobal)
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Start over from the default configuration or a sample",
	Long: `Reset replaces the workspace with the starter configuration, or with
one of the built-in samples: ` + strings.Join(samples.Names(), ", ") + `.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			cfg *model.Config
			err error
		)
		if resetFrom != "" {
			cfg, err = samples.Load(resetFrom, ids.NewUUID())
			if err != nil {
				return err
			}
		} else {
			cfg = model.Default(registry, ids.NewUUID())
		}
		if err := saveWorkspace(cfg); err != nil {
			return err
		}
		printOutline(cfg)
		return nil
	},
}

var samplesCmd = &cobra.Command{
	Use:   "samples",
	Short: "List the built-in sample configurations",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		for _, s := range samples.List() {
			fmt.Printf("%-10s %s\n", s.Name, s.Description)
		}
	},
}

func init() {
	blockAddCmd.Flags().StringVar(&blockType, "type", model.BlockPrompt, "prompt or rprompt")
	blockAddCmd.Flags().StringVar(&blockAlign, "align", model.AlignLeft, "left or right")
	blockCmd.AddCommand(blockAddCmd, blockRmCmd, blockMvCmd, blockSetCmd)

	segmentAddCmd.Flags().IntVar(&segmentPos, "at", 0, "Position in the block (default last)")
	segmentCmd.AddCommand(segmentAddCmd, segmentRmCmd, segmentMvCmd, segmentDupCmd, segmentSetCmd, segmentOptCmd)

	globalCmd.AddCommand(globalSetCmd)

	resetCmd.Flags().StringVar(&resetFrom, "sample", "", "Start from a built-in sample")

	rootCmd.AddCommand(lsCmd, blockCmd, segmentCmd, globalCmd, resetCmd, samplesCmd)
}

// position parses a 1-based position into an index.
func position(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid position %q", arg)
	}
	return n - 1, nil
}

func blockAt(cfg *model.Config, arg string) (*model.Block, error) {
	i, err := position(arg)
	if err != nil {
		return nil, fmt.Errorf("invalid block %q", arg)
	}
	if i >= len(cfg.Blocks) {
		return nil, fmt.Errorf("block %s: %w", arg, model.ErrNotFound)
	}
	return cfg.Blocks[i], nil
}

func segmentAt(cfg *model.Config, arg string) (*model.Block, *model.Segment, error) {
	blockArg, segArg, ok := strings.Cut(arg, ".")
	if !ok {
		return nil, nil, fmt.Errorf("invalid segment %q, expected BLOCK.SEGMENT", arg)
	}
	b, err := blockAt(cfg, blockArg)
	if err != nil {
		return nil, nil, err
	}
	j, err := position(segArg)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid segment %q", arg)
	}
	if j >= len(b.Segments) {
		return nil, nil, fmt.Errorf("segment %s: %w", arg, model.ErrNotFound)
	}
	return b, b.Segments[j], nil
}

// assign applies each KEY=VALUE through set.
func assign(assignments []string, set func(key string, value any) error) error {
	for _, a := range assignments {
		key, value, err := workspace.ParseAssignment(a)
		if err != nil {
			return err
		}
		if err := set(key, value); err != nil {
			return err
		}
	}
	return nil
}

// globalAssignments accepts "KEY VALUE", a bare "KEY" (unset) or a list of
// KEY=VALUE.
func globalAssignments(args []string) ([]string, error) {
	if strings.Contains(args[0], "=") {
		return args, nil
	}
	switch len(args) {
	case 1:
		return []string{args[0] + "="}, nil
	case 2:
		return []string{args[0] + "=" + args[1]}, nil
	}
	return nil, fmt.Errorf("expected KEY [VALUE] or KEY=VALUE pairs")
}
