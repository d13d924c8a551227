package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/buildtools/pkg/art"
	"github.com/spf13/cobra"
)

var (
	art2bmpOutput  string
	art2bmpVerbose bool
)

var art2bmpCmd = &cobra.Command{
	Use:   "art2bmp <file.art> <palette.dat>",
	Short: "Convert ART tiles to BMP",
	Long: `Convert the tiles of a Build engine ART file to 8-bit BMP images.

The colors come from the VGA palette at the start of PALETTE.DAT (Duke
Nukem 3D, Shadow Warrior) or BLOOD.PAL. Empty tiles are skipped; every
other tile is written as TILEnnnn.BMP, numbered by its tile index.

Examples:
  # Convert TILES000.ART into TILES000_BMP/
  buildtools art2bmp TILES000.ART PALETTE.DAT

  # Convert to a custom output directory
  buildtools art2bmp TILES000.ART PALETTE.DAT -o tiles/`,
	Args: cobra.ExactArgs(2),
	RunE: runArt2Bmp,
}

func init() {
	rootCmd.AddCommand(art2bmpCmd)

	art2bmpCmd.Flags().StringVarP(&art2bmpOutput, "output", "o", "",
		"output directory")
	art2bmpCmd.Flags().BoolVarP(&art2bmpVerbose, "verbose", "v", false,
		"print verbose progress information")
}

func runArt2Bmp(cmd *cobra.Command, args []string) error {
	input := args[0]

	data, err := readInput(input)
	if err != nil {
		return err
	}
	file, err := art.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", input, err)
	}

	palData, err := readInput(args[1])
	if err != nil {
		return err
	}
	pal, err := art.ReadPalette(palData)
	if err != nil {
		return fmt.Errorf("failed to read palette: %w", err)
	}

	outputDir := art2bmpOutput
	if outputDir == "" {
		outputDir = strings.TrimSuffix(input, filepath.Ext(input)) + "_BMP"
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	count := 0
	for i := range file.Tiles {
		t := &file.Tiles[i]
		if t.Width == 0 || t.Height == 0 {
			continue
		}

		outPath := filepath.Join(outputDir, fmt.Sprintf("TILE%04d.BMP", int(file.Start)+i))
		if art2bmpVerbose {
			fmt.Printf("Converting tile %d -> %s\n", int(file.Start)+i, outPath)
		}
		if err := t.WriteBMPFile(outPath, pal); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
		count++
	}

	fmt.Printf("Converted %d tiles\n", count)
	return nil
}
