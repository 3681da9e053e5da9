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

	"github.com/spf13/cobra"

	"github.com/adaryorg/poshcraft/internal/validate"
)

var validateCategories []string

var validateCmd = &cobra.Command{
	Use:   "validate DIR",
	Short: "Check a folder of shared configurations",
	Long: `Validate checks DIR/<category>/manifest.json for each category and
every configuration file it references. Errors fail the command; warnings
are only printed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := validate.Dir(args[0], validateCategories)
		if err != nil {
			return err
		}
		fmt.Println(validate.Summary(report))
		if !report.OK() {
			return fmt.Errorf("validation failed with %d error(s)", len(report.Errors()))
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringSliceVar(&validateCategories, "category", nil,
		"Category folders to check (default samples,community)")
	rootCmd.AddCommand(validateCmd)
}
