package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/buildtools/pkg/art"
	"github.com/spf13/cobra"
)

var artVerbose bool

var artCmd = &cobra.Command{
	Use:   "art <file.art>",
	Short: "Display an ART tile file",
	Long: `Display the tile range of a Build engine ART file.

With -v every non-empty tile is listed with its size and animation.

Examples:
  # Summarize TILES000.ART
  buildtools art TILES000.ART

  # List all tiles
  buildtools art TILES000.ART -v`,
	Args: cobra.ExactArgs(1),
	RunE: runArt,
}

func init() {
	rootCmd.AddCommand(artCmd)

	artCmd.Flags().BoolVarP(&artVerbose, "verbose", "v", false,
		"list every non-empty tile")
}

func runArt(cmd *cobra.Command, args []string) error {
	artPath := args[0]

	data, err := readInput(artPath)
	if err != nil {
		return err
	}

	file, err := art.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("failed to decode tiles: %w", err)
	}

	used := 0
	for _, t := range file.Tiles {
		if t.Width > 0 && t.Height > 0 {
			used++
		}
	}

	fmt.Printf("File: %s\n", filepath.Base(artPath))
	fmt.Printf("Version: %d\n", file.Version)
	fmt.Printf("Tiles: %d-%d (%d, %d non-empty)\n", file.Start, file.End, len(file.Tiles), used)

	if !artVerbose {
		return nil
	}

	fmt.Println()
	for i, t := range file.Tiles {
		if t.Width == 0 || t.Height == 0 {
			continue
		}
		a := t.Animation
		fmt.Printf("  [%d] %dx%d", int(file.Start)+i, t.Width, t.Height)
		if a.Frames > 0 {
			fmt.Printf(" frames=%d type=%d speed=%d", a.Frames, a.Type, a.Speed)
		}
		if a.OffsetX != 0 || a.OffsetY != 0 {
			fmt.Printf(" offset=(%d,%d)", a.OffsetX, a.OffsetY)
		}
		fmt.Println()
	}
	return nil
}
