package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog"

	"ddsm2pnm/internal/status"
	"ddsm2pnm/pkg/calibration"
	"ddsm2pnm/pkg/config"
	"ddsm2pnm/pkg/pnm"
	"ddsm2pnm/pkg/rawimage"
)

const usageText = `ddsm2pnm
========

Convert a DDSM mammogram image from raw byte pairs to plain PNM format.

Usage: ddsm2pnm [flags] <raw-file> <num-rows> <num-cols> <digitizer>

* <raw-file> holds big-endian unsigned 16-bit samples in row-major order,
  exactly num-rows * num-cols of them. A file ending in .zst is
  decompressed on the fly.

* <num-rows> and <num-cols> are the image dimensions from the case's
  ".ics" file.

* <digitizer> is one of "dba", "howtek-mgh", "howtek-ismd" and "lumisys"
  and selects the calibration curve that maps raw grey levels to optical
  densities.

On success the output is written to <raw-file><suffix> (default suffix
"-converted.pnm", overwriting any existing file) and the output filename is
printed to standard output. On failure a message is printed to standard
error and the exit code identifies the error kind; the output file may be
partially written and must be treated as invalid.

Flags:
`

func usage() {
	fmt.Fprint(os.Stderr, usageText)
	flag.PrintDefaults()
}

func main() {
	configPath := flag.String("config", "ddsm2pnm.yaml", "Path to the YAML configuration file")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	stats := flag.Bool("stats", false, "Log grey level statistics for the decoded image")
	noVerify := flag.Bool("no-verify", false, "Skip the exhaustive calibration self-check")
	flag.Usage = usage
	flag.Parse()

	log := newLogger(*verbose)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to load configuration")
		os.Exit(status.File)
	}

	args := flag.Args()
	if len(args) != 4 {
		usage()
		os.Exit(status.Syntax)
	}

	inputPath := args[0]

	rows, err := strconv.Atoi(args[1])
	if err != nil {
		log.Error().Str("rows", args[1]).Msg("number of rows is not an integer")
		os.Exit(status.Syntax)
	}
	cols, err := strconv.Atoi(args[2])
	if err != nil {
		log.Error().Str("cols", args[2]).Msg("number of cols is not an integer")
		os.Exit(status.Syntax)
	}

	digitizer, err := calibration.ParseDigitizer(args[3])
	if err != nil {
		log.Error().Err(err).Msg("bad digitizer name")
		os.Exit(status.Syntax)
	}

	if cfg.Conversion.VerifyCalibration && !*noVerify {
		if err := calibration.Verify(); err != nil {
			log.Error().Err(err).Msg("calibration self-check failed")
			os.Exit(status.FromError(err))
		}
		log.Debug().Msg("calibration self-check passed")
	}

	outputPath := inputPath + cfg.Conversion.OutputSuffix
	reportStats := cfg.Conversion.ReportStats || *stats

	if err := convert(log, inputPath, outputPath, rows, cols, digitizer, reportStats); err != nil {
		log.Error().Err(err).Msg("conversion failed")
		os.Exit(status.FromError(err))
	}

	// Calling scripts read the output filename from stdout.
	fmt.Println(outputPath)
}

// newLogger builds a console logger at the requested verbosity.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// convert decodes the raw stream and writes the PNM file. The default path
// streams one sample at a time; with reportStats the raster is materialized
// so statistics can be computed over it.
func convert(log zerolog.Logger, inputPath, outputPath string, rows, cols int,
	digitizer calibration.Digitizer, reportStats bool) error {

	in, closeIn, err := openInput(inputPath)
	if err != nil {
		return err
	}
	defer closeIn()

	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	dec, err := rawimage.NewDecoder(digitizer, rows, cols, log)
	if err != nil {
		return err
	}

	comment := pnm.Comment(digitizer.BitsPerPixel())

	if reportStats {
		raster, err := dec.Decode(in)
		if err != nil {
			return err
		}
		s := rawimage.ComputeStats(raster)
		log.Info().
			Uint16("min", s.Min).
			Uint16("max", s.Max).
			Float64("mean", s.Mean).
			Float64("stddev", s.StdDev).
			Msg("grey level statistics")
		return pnm.WriteRaster(out, raster, comment)
	}

	w, err := pnm.NewWriter(out, rows, cols, comment)
	if err != nil {
		return err
	}
	if err := dec.DecodeStream(in, w.WriteSample); err != nil {
		return err
	}
	return w.Flush()
}

// openInput opens the raw file, transparently decompressing zstd input.
func openInput(path string) (io.Reader, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	if !strings.HasSuffix(path, ".zst") {
		return f, func() { f.Close() }, nil
	}

	zr, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return zr, func() {
		zr.Close()
		f.Close()
	}, nil
}
