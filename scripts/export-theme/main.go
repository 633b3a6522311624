package main

import (
	"bytes"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	pagegen "github.com/goliatone/go-pagegen"
	"github.com/goliatone/go-pagegen/pkg/site"
)

// export-theme copies the embedded manifest, theme and partials to disk so a
// site can start from the bundled page and edit it:
//
//	go run ./scripts/export-theme -output src
//	pagegen -templates src -partials src/partials -manifest src/manifest.yaml
func main() {
	var (
		outputDir = flag.String("output", "src", "directory receiving the theme")
		force     = flag.Bool("force", false, "overwrite existing files")
	)
	flag.Parse()

	written, err := export(*outputDir, *force)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to export theme: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Theme exported to %s (%d files)\n", *outputDir, written)
}

func export(dir string, force bool) (int, error) {
	written := 0
	copyTree := func(fsys fs.FS, prefix string) error {
		return fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			data, err := fs.ReadFile(fsys, path)
			if err != nil {
				return err
			}
			if err := writeFile(filepath.Join(dir, prefix, filepath.FromSlash(path)), data, force); err != nil {
				return err
			}
			written++
			return nil
		})
	}

	if err := copyTree(pagegen.EmbeddedTheme(), ""); err != nil {
		return written, err
	}
	if err := copyTree(pagegen.EmbeddedPartials(), "partials"); err != nil {
		return written, err
	}
	if err := writeFile(filepath.Join(dir, "manifest.yaml"), site.DefaultManifestBytes(), force); err != nil {
		return written, err
	}
	return written + 1, nil
}

func writeFile(path string, data []byte, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s exists (use -force to overwrite)", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
}
