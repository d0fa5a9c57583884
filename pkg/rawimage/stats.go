package rawimage

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"ddsm2pnm/internal/models"
)

// Stats summarizes the grey level distribution of a decoded raster. The
// archive tooling tracked the minimum and maximum pixel values while
// decoding; this keeps that facility and adds the first two moments.
type Stats struct {
	// Min and Max are the smallest and largest normalized grey levels.
	Min, Max uint16

	// Mean is the average normalized grey level.
	Mean float64

	// StdDev is the standard deviation of the normalized grey levels.
	StdDev float64
}

// ComputeStats calculates summary statistics over all pixels of a raster.
func ComputeStats(r *models.Raster) Stats {
	vals := make([]float64, len(r.Pix))
	for i, p := range r.Pix {
		vals[i] = float64(p)
	}

	mean, std := stat.MeanStdDev(vals, nil)
	return Stats{
		Min:    uint16(floats.Min(vals)),
		Max:    uint16(floats.Max(vals)),
		Mean:   mean,
		StdDev: std,
	}
}
