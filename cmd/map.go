package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/buildtools/pkg/mapfile"
	"github.com/spf13/cobra"
)

var mapCmd = &cobra.Command{
	Use:   "map <file.map>",
	Short: "Display a level map",
	Long: `Display the player start and object counts of a Build engine level map.

Unencrypted (DNM) maps are supported. Blood maps are recognized and
rejected.

Examples:
  # Display E1L1.MAP
  buildtools map E1L1.MAP`,
	Args: cobra.ExactArgs(1),
	RunE: runMap,
}

func init() {
	rootCmd.AddCommand(mapCmd)
}

func runMap(cmd *cobra.Command, args []string) error {
	mapPath := args[0]

	data, err := readInput(mapPath)
	if err != nil {
		return err
	}

	m, err := mapfile.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("failed to decode map: %w", err)
	}

	fmt.Printf("File: %s\n", filepath.Base(mapPath))
	fmt.Printf("Version: %d\n", m.Version)
	fmt.Printf("Start: (%d, %d, %d) angle %d in sector %d\n", m.X, m.Y, m.Z, m.Angle, m.Sector)
	fmt.Printf("Sectors: %d\n", len(m.Sectors))
	fmt.Printf("Walls: %d\n", len(m.Walls))
	fmt.Printf("Sprites: %d\n", len(m.Sprites))
	return nil
}
