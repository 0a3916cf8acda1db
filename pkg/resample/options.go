package resample

import (
	"fmt"
	"math"

	"smokevolume/internal/models"
)

// DefaultEpsilon is the magnitude below which a sample does not influence
// the bounding box.
const DefaultEpsilon = 1e-7

// DefaultMaxSide caps the cube edge; 1024³ float32 cells is 4 GiB.
const DefaultMaxSide = 1024

// BoundsMode selects how the running bounding box is seeded
type BoundsMode int

const (
	// OriginAnchored starts every bound at zero, so the box always contains
	// the origin. Matches the reference loader.
	OriginAnchored BoundsMode = iota

	// Tight seeds the box from the first qualifying sample and translates
	// samples by the box minimum when scattering.
	Tight
)

func (m BoundsMode) String() string {
	switch m {
	case OriginAnchored:
		return "origin"
	case Tight:
		return "tight"
	default:
		return fmt.Sprintf("BoundsMode(%d)", int(m))
	}
}

// ParseBoundsMode accepts "origin" or "tight"
func ParseBoundsMode(s string) (BoundsMode, error) {
	switch s {
	case "origin", "":
		return OriginAnchored, nil
	case "tight":
		return Tight, nil
	default:
		return 0, &models.ConfigurationError{Field: "boundsMode", Reason: fmt.Sprintf("unknown mode %q (must be origin or tight)", s)}
	}
}

// OutOfRangePolicy decides what happens to a sample that lands outside the cube
type OutOfRangePolicy int

const (
	// Reject aborts the whole resample with a *models.RangeError
	Reject OutOfRangePolicy = iota

	// Drop skips the sample, logs a warning and counts it
	Drop
)

func (p OutOfRangePolicy) String() string {
	switch p {
	case Reject:
		return "reject"
	case Drop:
		return "drop"
	default:
		return fmt.Sprintf("OutOfRangePolicy(%d)", int(p))
	}
}

// ParseOutOfRangePolicy accepts "reject" or "drop"
func ParseOutOfRangePolicy(s string) (OutOfRangePolicy, error) {
	switch s {
	case "reject", "":
		return Reject, nil
	case "drop":
		return Drop, nil
	default:
		return 0, &models.ConfigurationError{Field: "outOfRange", Reason: fmt.Sprintf("unknown policy %q (must be reject or drop)", s)}
	}
}

// Options controls a resample run
type Options struct {
	// Epsilon is the minimum |value| for a sample to count toward the bounds
	Epsilon float64

	// Brightness multiplies every value written to the volume
	Brightness float32

	// BoundsMode selects origin-anchored or tight bounds
	BoundsMode BoundsMode

	// OutOfRange selects the policy for samples that fall outside the cube
	OutOfRange OutOfRangePolicy

	// MaxSide rejects cubes larger than this edge length. Zero disables the check.
	MaxSide int
}

// DefaultOptions returns the options used by the reference loader
func DefaultOptions() Options {
	return Options{
		Epsilon:    DefaultEpsilon,
		Brightness: 1,
		BoundsMode: OriginAnchored,
		OutOfRange: Reject,
		MaxSide:    DefaultMaxSide,
	}
}

// Validate checks the options for values the resampler cannot work with
func (o Options) Validate() error {
	if o.Epsilon < 0 || math.IsNaN(o.Epsilon) {
		return &models.ConfigurationError{Field: "epsilon", Reason: fmt.Sprintf("must be a non-negative number, got %v", o.Epsilon)}
	}
	b := float64(o.Brightness)
	if math.IsNaN(b) || math.IsInf(b, 0) {
		return &models.ConfigurationError{Field: "brightness", Reason: fmt.Sprintf("must be finite, got %v", o.Brightness)}
	}
	if o.BoundsMode != OriginAnchored && o.BoundsMode != Tight {
		return &models.ConfigurationError{Field: "boundsMode", Reason: o.BoundsMode.String()}
	}
	if o.OutOfRange != Reject && o.OutOfRange != Drop {
		return &models.ConfigurationError{Field: "outOfRange", Reason: o.OutOfRange.String()}
	}
	if o.MaxSide < 0 {
		return &models.ConfigurationError{Field: "maxSide", Reason: fmt.Sprintf("must be >= 0, got %d", o.MaxSide)}
	}
	return nil
}
