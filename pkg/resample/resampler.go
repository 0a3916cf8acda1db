// Package resample converts a sparse list of voxel samples into a dense,
// cube-shaped volume suitable for hardware trilinear sampling.
package resample

import (
	"fmt"
	"log"
	"math"

	"smokevolume/internal/models"
)

// Result holds the dense volume together with the geometry used to build it
type Result struct {
	// Volume is the zero-initialized cube the samples were scattered into
	Volume *models.Volume

	// Bounds is the bounding box of the qualifying samples
	Bounds models.Bounds

	// Occupied is false when no sample reached the epsilon threshold
	Occupied bool

	// Offset is the per-axis translation applied to every sample
	Offset [3]int

	// Dropped counts the samples skipped under the Drop policy
	Dropped int
}

// Side is the cube edge length
func (r *Result) Side() int {
	return r.Volume.Side
}

// Resample computes the bounding cube of the samples, recenters them and
// scatters them into a freshly allocated dense volume.
//
// The process consists of:
// 1. Computing the bounds of all samples with |value| >= opts.Epsilon
// 2. Deriving a single cube side from the largest axis extent
// 3. Computing a per-axis centering offset
// 4. Writing every sample, qualifying or not, at its recentered position
//
// Samples that collide on a cell overwrite each other in input order. A
// sample that falls outside the cube, or has a coordinate beyond
// ±models.MaxCoordinate, either aborts the call with a *models.RangeError or
// is dropped, depending on opts.OutOfRange. Such far samples never enter
// the bounds. The cube side is capped by opts.MaxSide and by
// models.MaxVolumeSide. Empty input yields a 1³ volume holding a single zero.
//
// The input slice is not modified.
func Resample(samples []models.Sample, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	bounds, occupied := ComputeBounds(samples, opts)
	side := CubeSide(bounds)
	limit := models.MaxVolumeSide
	if opts.MaxSide > 0 && opts.MaxSide < limit {
		limit = opts.MaxSide
	}
	if side > limit {
		return nil, &models.ConfigurationError{
			Field:  "maxSide",
			Reason: fmt.Sprintf("bounds %s need a cube of side %d, limit is %d", bounds, side, limit),
		}
	}

	offset := Offsets(bounds, side)
	if opts.BoundsMode == Tight {
		offset[0] -= bounds.XMin
		offset[1] -= bounds.YMin
		offset[2] -= bounds.ZMin
	}

	res := &Result{
		Volume:   models.NewVolume(side),
		Bounds:   bounds,
		Occupied: occupied,
		Offset:   offset,
	}

	if err := scatter(res, samples, opts); err != nil {
		return nil, err
	}
	return res, nil
}

// ComputeBounds returns the bounding box of the samples whose magnitude
// reaches opts.Epsilon, and whether any sample did. Samples outside
// ±models.MaxCoordinate are ignored.
//
// Each axis is updated with strict comparisons: a value below the running
// minimum moves the minimum, otherwise a value above the running maximum
// moves the maximum. In OriginAnchored mode every bound starts at zero; in
// Tight mode the first qualifying sample seeds the box.
func ComputeBounds(samples []models.Sample, opts Options) (models.Bounds, bool) {
	var b models.Bounds
	occupied := false

	for _, s := range samples {
		if !s.InRange() || !qualifies(s.Value, opts.Epsilon) {
			continue
		}

		if !occupied && opts.BoundsMode == Tight {
			b = models.Bounds{
				XMin: s.X, XMax: s.X,
				YMin: s.Y, YMax: s.Y,
				ZMin: s.Z, ZMax: s.Z,
			}
		}
		occupied = true

		b.XMin, b.XMax = widen(b.XMin, b.XMax, s.X)
		b.YMin, b.YMax = widen(b.YMin, b.YMax, s.Y)
		b.ZMin, b.ZMax = widen(b.ZMin, b.ZMax, s.Z)
	}

	return b, occupied
}

// CubeSide is the largest axis extent plus one
func CubeSide(b models.Bounds) int {
	ex, ey, ez := b.Extent()
	return max(ex, ey, ez) + 1
}

// Offsets returns (side - extent) / 2 per axis, using truncating division
func Offsets(b models.Bounds, side int) [3]int {
	ex, ey, ez := b.Extent()
	return [3]int{
		(side - ex) / 2,
		(side - ey) / 2,
		(side - ez) / 2,
	}
}

func scatter(res *Result, samples []models.Sample, opts Options) error {
	vol := res.Volume
	for _, s := range samples {
		x, y, z := s.X, s.Y, s.Z
		if s.InRange() {
			x += res.Offset[0]
			y += res.Offset[1]
			z += res.Offset[2]
		}

		// Per-axis check; a flat-index check alone would let one axis wrap into the next.
		if !s.InRange() || !vol.Contains(x, y, z) {
			rangeErr := &models.RangeError{Sample: s, Target: [3]int{x, y, z}, Side: vol.Side}
			if opts.OutOfRange == Reject {
				return rangeErr
			}
			log.Printf("Warning: dropping sample: %v", rangeErr)
			res.Dropped++
			continue
		}

		vol.Data[vol.Index(x, y, z)] = s.Value * opts.Brightness
	}
	return nil
}

func qualifies(v float32, epsilon float64) bool {
	return math.Abs(float64(v)) >= epsilon
}

func widen(lo, hi, v int) (int, int) {
	if v < lo {
		lo = v
	} else if v > hi {
		hi = v
	}
	return lo, hi
}
