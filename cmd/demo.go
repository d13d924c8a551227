package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/buildtools/pkg/dmo"
	"github.com/spf13/cobra"
)

// Duke Nukem 3D samples input 30 times a second (TICRATE / TICSPERFRAME).
const demoTicsPerSecond = 30

var demoRepack string

var demoCmd = &cobra.Command{
	Use:   "demo <file.dmo>",
	Short: "Display a DMO demo recording",
	Long: `Display the header of a Duke Nukem 3D demo recording and count its inputs.

Demos from v1.3D, v1.4/1.5 (Atomic), xDuke, nDuke, hDuke and ProDuke are
recognized by their version byte. The player inputs are stored as blocks of
compressed, delta-coded records; decoding all of them validates the file.

With -r the demo is encoded again and written to the given path.

Examples:
  # Display a demo
  buildtools demo DEMO1.DMO

  # Decode and re-encode a demo
  buildtools demo DEMO1.DMO -r DEMO1.NEW.DMO`,
	Args: cobra.ExactArgs(1),
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().StringVarP(&demoRepack, "repack", "r", "",
		"re-encode the demo and write it to this path")
}

func runDemo(cmd *cobra.Command, args []string) error {
	demoPath := args[0]

	data, err := readInput(demoPath)
	if err != nil {
		return err
	}

	demo, err := dmo.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("failed to decode demo: %w", err)
	}

	fmt.Printf("File: %s\n", filepath.Base(demoPath))
	fmt.Printf("Version: %d\n", demo.Version)
	if demo.Version.HasGRPVersion() {
		fmt.Printf("GRP version: % X\n", demo.GRPVersion[:])
	}
	fmt.Printf("Map: %s (episode %d, level %d)\n", demo.Map, int(demo.Volume)+1, int(demo.Level)+1)
	fmt.Printf("Skill: %d\n", demo.Skill)
	fmt.Printf("Mode: %d\n", demo.Mode)
	fmt.Printf("Players: %d\n", demo.Players)

	var names []string
	for i := 0; i < int(demo.Players) && i < len(demo.Names); i++ {
		names = append(names, demo.Names[i])
	}
	if len(names) > 0 {
		fmt.Printf("Names: %s\n", strings.Join(names, ", "))
	}

	tics := 0
	if demo.Players > 0 {
		tics = len(demo.Inputs) / int(demo.Players)
	}
	length := time.Duration(tics) * time.Second / demoTicsPerSecond
	fmt.Printf("Tics: %d (%s)\n", tics, length.Round(time.Second))

	if demoRepack == "" {
		return nil
	}

	out, err := demo.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode demo: %w", err)
	}
	if err := os.WriteFile(demoRepack, out, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", demoRepack, err)
	}

	fmt.Printf("\nRepacked: %s (%d bytes, original %d bytes)\n", demoRepack, len(out), len(data))
	return nil
}
