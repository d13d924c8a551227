package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/buildtools/pkg/storage"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <archive>",
	Short: "List the files in an archive",
	Long: `List the files stored in a GRP, RFF, SSI or PK3 archive.

The format is detected from the first bytes of the file.

Examples:
  # List the contents of the Duke Nukem 3D group file
  buildtools list DUKE3D.GRP

  # List a Blood resource file
  buildtools list BLOOD.RFF`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	archivePath := args[0]

	data, err := readInput(archivePath)
	if err != nil {
		return err
	}

	archive, err := storage.Open(data)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}

	files := archive.Files()
	fmt.Printf("File: %s\n", filepath.Base(archivePath))
	fmt.Printf("Format: %s\n", archive.Format())
	switch a := archive.(type) {
	case *storage.RFF:
		fmt.Printf("Version: 0x%X\n", a.Version)
	case *storage.SSI:
		fmt.Printf("Version: %d\n", a.Version)
		fmt.Printf("Title: %s\n", a.Title)
		if a.RunFile != "" {
			fmt.Printf("Run file: %s\n", a.RunFile)
		}
	}
	fmt.Printf("Files: %d\n", len(files))
	fmt.Println()

	total := 0
	for _, f := range files {
		fmt.Printf("  %-12s %10d bytes\n", f.Name, len(f.Data))
		total += len(f.Data)
	}
	fmt.Printf("\n%d bytes in %d files\n", total, len(files))
	return nil
}
