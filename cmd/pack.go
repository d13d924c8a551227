package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/buildtools/pkg/storage"
	"github.com/spf13/cobra"
)

var (
	packOutput  string
	packVerbose bool
)

var packCmd = &cobra.Command{
	Use:   "pack <archive> <input_dir>",
	Short: "Pack files into an archive",
	Long: `Pack modified files back into a Build engine archive.

Every file in the input directory replaces the archive entry of the same
name (compared case-insensitively) or is appended as a new entry. Entries
without a file in the input directory are kept unchanged. Subdirectories
are only packed into PK3 archives.

If the archive does not exist yet, a new one is created; its format is
taken from the extension (.grp, .rff, .ssi, .pk3 or .zip).

Examples:
  # Repack DUKE3D.GRP with the files in data/, writing DUKE3D.NEW.GRP
  buildtools pack DUKE3D.GRP data/ -o DUKE3D.NEW.GRP

  # Create a new group file from a directory
  buildtools pack MYMOD.GRP mymod/ -v`,
	Args: cobra.ExactArgs(2),
	RunE: runPack,
}

func init() {
	rootCmd.AddCommand(packCmd)

	packCmd.Flags().StringVarP(&packOutput, "output", "o", "",
		"output archive (default: overwrite <archive>)")
	packCmd.Flags().BoolVarP(&packVerbose, "verbose", "v", false,
		"print verbose progress information")
}

func runPack(cmd *cobra.Command, args []string) error {
	archivePath := args[0]
	inputDir := args[1]

	if info, err := os.Stat(inputDir); os.IsNotExist(err) {
		return fmt.Errorf("input directory not found: %s", inputDir)
	} else if err != nil {
		return fmt.Errorf("failed to stat input directory: %w", err)
	} else if !info.IsDir() {
		return fmt.Errorf("input path is not a directory: %s", inputDir)
	}

	archive, err := loadOrCreate(archivePath)
	if err != nil {
		return err
	}

	output := packOutput
	if output == "" {
		output = archivePath
	}

	fmt.Printf("Archive: %s (%s, %d files)\n", archivePath, archive.Format(), len(archive.Files()))
	fmt.Printf("Input directory: %s\n", inputDir)
	fmt.Printf("Output: %s\n", output)
	fmt.Println()

	res, err := storage.PackDir(archive, inputDir, storage.PackOptions{Verbose: packVerbose})
	if err != nil {
		return fmt.Errorf("packing failed: %w", err)
	}

	data, err := archive.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode archive: %w", err)
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	fmt.Printf("Packing complete! %d replaced, %d added, %d bytes\n", res.Replaced, res.Added, len(data))
	return nil
}

func loadOrCreate(path string) (storage.Archive, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		format, err := storage.FormatFromExt(path)
		if err != nil {
			return nil, err
		}
		fmt.Printf("Creating new %s archive\n", format)
		return storage.New(format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read archive: %w", err)
	}

	archive, err := storage.Open(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	return archive, nil
}
