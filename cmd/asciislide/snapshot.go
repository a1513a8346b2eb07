package main

import (
	"fmt"
	"os"

	"github.com/dgallion1/asciislide/internal/htmldom"
	"github.com/spf13/cobra"
)

func newSnapshotCmd() *cobra.Command {
	var (
		output string
		slide  int
	)

	cmd := &cobra.Command{
		Use:   "snapshot DECK",
		Short: "write a rendered deck with one slide active",
		Long: `Load a deck produced by "render" and write it back with slide N active
and all of that slide's fragments revealed, as the browser navigator would
show it. Slides count from 0, the title slide.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if slide < 0 {
				return fmt.Errorf("--slide must be >= 0")
			}
			deck, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			out, err := htmldom.Snapshot(string(deck), slide, logger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), output, out)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().IntVar(&slide, "slide", 0, "slide index to activate")

	return cmd
}
