package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"ddsm2pnm/internal/status"
	"ddsm2pnm/pkg/chaincode"
	"ddsm2pnm/pkg/overlay"
	"ddsm2pnm/pkg/pnm"
)

const usageText = `overlaydump
===========

Parse a DDSM overlay annotation file and print one summary line per
abnormality. With -rows and -cols the boundary and core outlines are also
rasterized and written as plain PBM masks next to the overlay file (or into
-mask-dir).

Usage: overlaydump [flags] <overlay-file>

Flags:
`

func usage() {
	fmt.Fprint(os.Stderr, usageText)
	flag.PrintDefaults()
}

func main() {
	rows := flag.Int("rows", 0, "Image rows for mask generation (0 disables masks)")
	cols := flag.Int("cols", 0, "Image cols for mask generation (0 disables masks)")
	maskDir := flag.String("mask-dir", "", "Directory for generated masks (default: alongside the overlay file)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Usage = usage
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	if flag.NArg() != 1 {
		usage()
		os.Exit(status.Syntax)
	}
	overlayPath := flag.Arg(0)

	abnormalities, err := overlay.ParseFile(overlayPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to parse overlay")
		os.Exit(status.FromError(err))
	}

	for i, ab := range abnormalities {
		fmt.Printf("abnormality %d: lesion_types=%q assessment=%d subtlety=%d pathology=%q outlines=%d cores=%d\n",
			i+1, ab.LesionTypes, ab.Assessment, ab.Subtlety, ab.Pathology, ab.TotalOutlines, len(ab.Cores))
	}

	if *rows <= 0 || *cols <= 0 {
		return
	}

	dir := *maskDir
	if dir == "" {
		dir = filepath.Dir(overlayPath)
	} else if err := os.MkdirAll(dir, 0755); err != nil {
		log.Error().Err(err).Msg("failed to create mask directory")
		os.Exit(status.File)
	}

	base := strings.TrimSuffix(filepath.Base(overlayPath), filepath.Ext(overlayPath))
	for i, ab := range abnormalities {
		name := fmt.Sprintf("%s-abnormality%d-boundary.pbm", base, i+1)
		if err := writeMask(ab.Boundary, *rows, *cols, filepath.Join(dir, name)); err != nil {
			log.Error().Err(err).Str("mask", name).Msg("mask generation failed")
			os.Exit(status.FromError(err))
		}
		log.Debug().Str("mask", name).Msg("wrote boundary mask")

		for j, core := range ab.Cores {
			name := fmt.Sprintf("%s-abnormality%d-core%d.pbm", base, i+1, j+1)
			if err := writeMask(core, *rows, *cols, filepath.Join(dir, name)); err != nil {
				log.Error().Err(err).Str("mask", name).Msg("mask generation failed")
				os.Exit(status.FromError(err))
			}
			log.Debug().Str("mask", name).Msg("wrote core mask")
		}
	}
}

// writeMask rasterizes one outline and writes it as a plain PBM file.
func writeMask(gen *chaincode.MaskGenerator, rows, cols int, path string) error {
	mask, err := gen.Generate(rows, cols)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return pnm.WriteMask(f, mask, filepath.Base(path))
}
