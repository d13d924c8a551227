package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ExtractOptions configures the extraction process.
type ExtractOptions struct {
	Filter    string // Only extract files containing this string (case-insensitive)
	OutputDir string // Output directory (default: "data")
	Verbose   bool   // Print detailed progress
}

// Extract writes the archive's files below opts.OutputDir, several at a time,
// and returns how many it wrote. Names using '/' create subdirectories.
func Extract(ctx context.Context, a Archive, opts ExtractOptions) (int, error) {
	if opts.OutputDir == "" {
		opts.OutputDir = "data"
	}
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	var files []File
	for _, f := range a.Files() {
		if opts.Filter != "" && !strings.Contains(strings.ToLower(f.Name), strings.ToLower(opts.Filter)) {
			continue
		}
		files = append(files, f)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, f := range files {
		f := f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return extractFile(f, opts)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(files), nil
}

func extractFile(f File, opts ExtractOptions) error {
	name := filepath.FromSlash(f.Name)
	if !filepath.IsLocal(name) {
		return fmt.Errorf("%w: %q", ErrUnsafePath, f.Name)
	}
	outPath := filepath.Join(opts.OutputDir, name)

	if dir := filepath.Dir(outPath); dir != opts.OutputDir {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if opts.Verbose {
		fmt.Printf("\t%s\n", outPath)
	}

	if err := os.WriteFile(outPath, f.Data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	return nil
}
