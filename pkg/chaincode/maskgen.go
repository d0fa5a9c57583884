package chaincode

import (
	"fmt"
	"strings"

	"ddsm2pnm/internal/models"
)

// MaskGenerator defers mask reconstruction for one chain code until the
// target dimensions are known. Masks are large and the dimensions live in a
// separate case description file, so overlay parsing stores generators
// rather than masks. A generator is immutable after construction; Generate
// allocates a fresh mask per call and is safe for concurrent use.
type MaskGenerator struct {
	encoded string
}

// NewMaskGenerator wraps one encoded chain code line. The line must end
// with the sentinel; full parsing is deferred to Generate.
func NewMaskGenerator(line string) (*MaskGenerator, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasSuffix(trimmed, Sentinel) {
		return nil, fmt.Errorf("%w: missing %q terminator", ErrFormat, Sentinel)
	}
	return &MaskGenerator{encoded: trimmed}, nil
}

// Encoded returns the underlying chain code line.
func (g *MaskGenerator) Encoded() string {
	return g.encoded
}

// Generate reconstructs the solid region mask at the given dimensions.
// Each invocation is independent; calling it twice with the same
// dimensions yields identical masks.
func (g *MaskGenerator) Generate(rows, cols int) (*models.Mask, error) {
	code, err := Parse(g.encoded)
	if err != nil {
		return nil, err
	}
	return Rasterize(code, rows, cols)
}
