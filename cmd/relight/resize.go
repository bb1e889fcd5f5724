package main

import (
	"fmt"
	"path/filepath"

	"gradient-relighter/internal/export"

	"github.com/spf13/cobra"
)

var (
	resizeOut string
	resizeMax int
)

var resizeCmd = &cobra.Command{
	Use:   "resize <dir>",
	Short: "Downscale the PNG and GIF outputs of a render for sharing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := args[0]
		out := resizeOut
		if out == "" {
			out = filepath.Join(in, "resized")
		}

		written, err := export.ResizeDir(in, out, resizeMax)
		if err != nil {
			return err
		}
		for _, p := range written {
			fmt.Printf("  %s\n", p)
		}
		fmt.Printf("Resized %d files (max side %d) into %s\n", len(written), resizeMax, out)
		return nil
	},
}

func init() {
	resizeCmd.Flags().StringVarP(&resizeOut, "output", "o", "", "Output directory (default: <dir>/resized)")
	resizeCmd.Flags().IntVar(&resizeMax, "max", 512, "Longest side in pixels")
	rootCmd.AddCommand(resizeCmd)
}
