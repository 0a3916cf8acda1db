package models

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// SampleArity is the number of scalars that make up one sample in a flat
// sample stream: x, y, z and the voxel value.
const SampleArity = 4

// MaxCoordinate bounds the magnitude of a voxel coordinate. Every integer
// up to 2^24 is exact in a float32, and extents built from such coordinates
// cannot overflow an int.
const MaxCoordinate = 1 << 24

// Sample represents one active voxel read from a sparse grid
type Sample struct {
	// X, Y, Z are the integer voxel coordinates
	X, Y, Z int

	// Value is the scalar stored at the voxel (density for smoke grids)
	Value float32
}

// InRange reports whether every coordinate lies within ±MaxCoordinate
func (s Sample) InRange() bool {
	return inRange(s.X) && inRange(s.Y) && inRange(s.Z)
}

func inRange(v int) bool {
	return v >= -MaxCoordinate && v <= MaxCoordinate
}

// CoordinateFromFloat truncates v toward zero. NaN, infinities and
// magnitudes above MaxCoordinate are rejected.
func CoordinateFromFloat(v float64) (int, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("coordinate %v is not finite", v)
	}
	if math.Abs(v) > MaxCoordinate {
		return 0, fmt.Errorf("coordinate %v exceeds ±%d", v, MaxCoordinate)
	}
	return int(v), nil
}

// SamplesFromFlat groups a flat [x, y, z, value, ...] stream into samples.
// Coordinates are truncated toward zero.
func SamplesFromFlat(data []float32) ([]Sample, error) {
	if len(data)%SampleArity != 0 {
		return nil, fmt.Errorf("flat sample stream has %d values, not a multiple of %d", len(data), SampleArity)
	}

	samples := make([]Sample, len(data)/SampleArity)
	for i := range samples {
		base := i * SampleArity
		var coord [3]int
		for axis := range coord {
			c, err := CoordinateFromFloat(float64(data[base+axis]))
			if err != nil {
				return nil, fmt.Errorf("sample %d: %w", i, err)
			}
			coord[axis] = c
		}
		samples[i] = Sample{
			X:     coord[0],
			Y:     coord[1],
			Z:     coord[2],
			Value: data[base+3],
		}
	}
	return samples, nil
}

// Flatten is the inverse of SamplesFromFlat
func Flatten(samples []Sample) []float32 {
	data := make([]float32, 0, len(samples)*SampleArity)
	for _, s := range samples {
		data = append(data, float32(s.X), float32(s.Y), float32(s.Z), s.Value)
	}
	return data
}

// Bounds is the integer bounding box of the samples that carry a
// non-negligible value.
type Bounds struct {
	XMin, XMax int
	YMin, YMax int
	ZMin, ZMax int
}

// Extent returns max - min for every axis
func (b Bounds) Extent() (x, y, z int) {
	return b.XMax - b.XMin, b.YMax - b.YMin, b.ZMax - b.ZMin
}

// Box converts the bounds to a gonum box in voxel units. The max corner is
// exclusive so a single voxel has unit size.
func (b Bounds) Box() r3.Box {
	return r3.Box{
		Min: r3.Vec{X: float64(b.XMin), Y: float64(b.YMin), Z: float64(b.ZMin)},
		Max: r3.Vec{X: float64(b.XMax + 1), Y: float64(b.YMax + 1), Z: float64(b.ZMax + 1)},
	}
}

func (b Bounds) String() string {
	return fmt.Sprintf("x: [%d, %d], y: [%d, %d], z: [%d, %d]", b.XMin, b.XMax, b.YMin, b.YMax, b.ZMin, b.ZMax)
}
