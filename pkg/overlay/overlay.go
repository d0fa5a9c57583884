// Package overlay parses DDSM overlay annotation files. An overlay file is
// line-oriented text: a header declaring how many abnormalities follow, then
// one block per abnormality holding the radiologist's findings and the chain
// coded outlines of the annotated regions. Mask reconstruction is deferred;
// parsing only wraps each outline in a MaskGenerator, since the image
// dimensions live in the separate case description file and masks are large.
package overlay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"ddsm2pnm/pkg/chaincode"
)

// ErrFormat is returned for any malformed overlay text: missing or
// non-numeric header, missing TOTAL_OUTLINES, a block count different from
// the declared total, or a bad chain code line.
var ErrFormat = errors.New("malformed overlay file")

// Keywords of the overlay file format.
const (
	kwTotalAbnormalities = "TOTAL_ABNORMALITIES"
	kwAbnormality        = "ABNORMALITY"
	kwLesionType         = "LESION_TYPE"
	kwAssessment         = "ASSESSMENT"
	kwSubtlety           = "SUBTLETY"
	kwPathology          = "PATHOLOGY"
	kwTotalOutlines      = "TOTAL_OUTLINES"
	kwBoundary           = "BOUNDARY"
	kwCore               = "CORE"
)

// maxLineBytes bounds a single overlay line. Boundary chain codes for a
// full mammogram run to hundreds of kilobytes.
const maxLineBytes = 16 * 1024 * 1024

// Abnormality is one annotated finding. Records are immutable once parsed;
// the mask generators they carry may be invoked any number of times.
type Abnormality struct {
	// LesionTypes holds the LESION_TYPE descriptor of each lesion line, in
	// file order. The source format allows this to be empty.
	LesionTypes []string

	// Assessment is the radiologist's assessment score.
	Assessment int

	// Subtlety is the subtlety score.
	Subtlety int

	// Pathology is the pathology label.
	Pathology string

	// TotalOutlines is the outline count declared by the block.
	TotalOutlines int

	// Boundary generates the mask of the full annotated region.
	Boundary *chaincode.MaskGenerator

	// Cores generate the masks of the core sub-regions, if any.
	Cores []*chaincode.MaskGenerator
}

// ParseFile reads and parses an overlay file from disk.
func ParseFile(path string) ([]Abnormality, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads the full overlay text and returns the abnormality records in
// file order. The number of records always equals the declared total, or
// parsing fails.
func Parse(r io.Reader) ([]Abnormality, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	total, headerIdx, err := findHeader(lines)
	if err != nil {
		return nil, err
	}

	// Locate the marker line of each abnormality block.
	var starts []int
	for i := headerIdx + 1; i < len(lines); i++ {
		fields := strings.Fields(lines[i])
		if len(fields) >= 1 && fields[0] == kwAbnormality {
			starts = append(starts, i)
		}
	}
	if len(starts) != total {
		return nil, fmt.Errorf("%w: declared %d abnormalities, found %d markers",
			ErrFormat, total, len(starts))
	}

	abnormalities := make([]Abnormality, 0, total)
	for i, start := range starts {
		end := len(lines)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		ab, err := parseBlock(lines[start:end])
		if err != nil {
			return nil, fmt.Errorf("abnormality %d: %w", i+1, err)
		}
		abnormalities = append(abnormalities, ab)
	}
	return abnormalities, nil
}

// readLines collects the input as a line slice, tolerating very long chain
// code lines.
func readLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)

	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// findHeader locates the TOTAL_ABNORMALITIES line and extracts the count.
func findHeader(lines []string) (total, index int, err error) {
	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 || fields[0] != kwTotalAbnormalities {
			continue
		}
		if len(fields) < 2 {
			return 0, 0, fmt.Errorf("%w: %s line has no count", ErrFormat, kwTotalAbnormalities)
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return 0, 0, fmt.Errorf("%w: non-numeric abnormality count %q", ErrFormat, fields[1])
		}
		return n, i, nil
	}
	return 0, 0, fmt.Errorf("%w: no %s header", ErrFormat, kwTotalAbnormalities)
}

// parseBlock parses one abnormality block: the field lines in any order,
// then the outline section that starts after TOTAL_OUTLINES.
func parseBlock(block []string) (Abnormality, error) {
	var ab Abnormality
	outlineStart := -1

	for i, line := range block {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))

		switch fields[0] {
		case kwLesionType:
			ab.LesionTypes = append(ab.LesionTypes, rest)
		case kwAssessment:
			n, err := strconv.Atoi(rest)
			if err != nil {
				return ab, fmt.Errorf("%w: bad %s value %q", ErrFormat, kwAssessment, rest)
			}
			ab.Assessment = n
		case kwSubtlety:
			n, err := strconv.Atoi(rest)
			if err != nil {
				return ab, fmt.Errorf("%w: bad %s value %q", ErrFormat, kwSubtlety, rest)
			}
			ab.Subtlety = n
		case kwPathology:
			ab.Pathology = rest
		case kwTotalOutlines:
			n, err := strconv.Atoi(rest)
			if err != nil {
				return ab, fmt.Errorf("%w: bad %s value %q", ErrFormat, kwTotalOutlines, rest)
			}
			ab.TotalOutlines = n
			outlineStart = i + 1
		}
		if outlineStart >= 0 {
			break
		}
	}

	if outlineStart < 0 {
		return ab, fmt.Errorf("%w: no %s line", ErrFormat, kwTotalOutlines)
	}

	if err := parseOutlines(block[outlineStart:], &ab); err != nil {
		return ab, err
	}
	if ab.Boundary == nil {
		return ab, fmt.Errorf("%w: no boundary outline", ErrFormat)
	}
	return ab, nil
}

// outline section states: which kind the next chain code line belongs to.
const (
	kindNone = iota
	kindBoundary
	kindCore
)

// parseOutlines walks the lines after TOTAL_OUTLINES. BOUNDARY and CORE
// keyword lines switch the kind of the chain codes that follow and are
// themselves discarded; every other non-blank line is a chain code.
func parseOutlines(lines []string, ab *Abnormality) error {
	kind := kindNone
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		switch {
		case strings.Contains(line, kwBoundary):
			kind = kindBoundary
		case strings.Contains(line, kwCore):
			kind = kindCore
		default:
			gen, err := chaincode.NewMaskGenerator(line)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrFormat, err)
			}
			switch kind {
			case kindBoundary:
				ab.Boundary = gen
			case kindCore:
				ab.Cores = append(ab.Cores, gen)
			default:
				return fmt.Errorf("%w: chain code before %s or %s keyword",
					ErrFormat, kwBoundary, kwCore)
			}
		}
	}
	return nil
}
