package storage

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// PackOptions configures the packing process.
type PackOptions struct {
	Verbose bool // Print detailed progress
}

// PackResult counts what PackDir changed.
type PackResult struct {
	Replaced int
	Added    int
}

// PackDir copies every regular file in dir into the archive, replacing
// entries with the same name and appending the rest. Only PK3 archives hold
// paths, so subdirectories are walked for them alone.
func PackDir(a Archive, dir string, opts PackOptions) (PackResult, error) {
	var res PackResult
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && a.Format() != FormatPK3 {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		if a.Replace(name, data) {
			res.Replaced++
			if opts.Verbose {
				fmt.Printf("\treplaced %s\n", name)
			}
			return nil
		}
		a.AddFile(name, data)
		res.Added++
		if opts.Verbose {
			fmt.Printf("\tadded %s\n", name)
		}
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("failed to pack %s: %w", dir, err)
	}
	return res, nil
}
