package cmd

import (
	"fmt"

	"github.com/buildtools/pkg/storage"
	"github.com/spf13/cobra"
)

var (
	extractFilter  string
	extractOutput  string
	extractVerbose bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <archive>",
	Short: "Extract files from an archive",
	Long: `Extract files from Build engine archives.

Supported formats:
  - GRP (KenSilverman group files, Duke Nukem 3D and Shadow Warrior)
  - RFF (Blood resource files, encrypted directories included)
  - SSI (Sunstorm Interactive add-on packages, versions 1 and 2)
  - PK3 (zip archives used by source ports)

Files are written several at a time. Paths inside PK3 archives become
subdirectories of the output directory.

Examples:
  # Extract all files from DUKE3D.GRP
  buildtools extract DUKE3D.GRP

  # Extract only maps
  buildtools extract DUKE3D.GRP -f .map

  # Extract to a custom output directory
  buildtools extract BLOOD.RFF -o extracted/`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractFilter, "filter", "f", "",
		"filter extracted files (case-insensitive substring match)")
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "data",
		"output directory for extracted files")
	extractCmd.Flags().BoolVarP(&extractVerbose, "verbose", "v", false,
		"print verbose progress information")
}

func runExtract(cmd *cobra.Command, args []string) error {
	archivePath := args[0]

	data, err := readInput(archivePath)
	if err != nil {
		return err
	}

	archive, err := storage.Open(data)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}

	fmt.Printf("Extracting: %s\n", archivePath)
	fmt.Printf("Format: %s\n", archive.Format())
	fmt.Printf("Files: %d\n", len(archive.Files()))
	if extractFilter != "" {
		fmt.Printf("Filter: %s\n", extractFilter)
	}
	fmt.Println()

	opts := storage.ExtractOptions{
		Filter:    extractFilter,
		OutputDir: extractOutput,
		Verbose:   extractVerbose,
	}
	n, err := storage.Extract(cmd.Context(), archive, opts)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	fmt.Printf("Extraction complete! %d files written to %s\n", n, extractOutput)
	return nil
}
