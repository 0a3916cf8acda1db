package models

// Volume represents a dense cubic scalar volume ready for upload as a
// single-channel 3D texture
type Volume struct {
	// Data is the volume as a 1D array, x-major then y then z
	Data []float32

	// Side is the edge length of the cube in voxels
	Side int
}

// MaxVolumeSide is the hard limit on the cube edge, whatever the configured
// maximum. 4096³ float32 cells is 256 GiB.
const MaxVolumeSide = 1 << 12

// NewVolume allocates a zero-filled cube of the given side. The caller must
// keep side within [1, MaxVolumeSide].
func NewVolume(side int) *Volume {
	return &Volume{
		Data: make([]float32, side*side*side),
		Side: side,
	}
}

// Index returns the flat offset of (x, y, z)
func (v *Volume) Index(x, y, z int) int {
	return x*v.Side*v.Side + y*v.Side + z
}

// Contains reports whether (x, y, z) lies inside the cube
func (v *Volume) Contains(x, y, z int) bool {
	return x >= 0 && x < v.Side &&
		y >= 0 && y < v.Side &&
		z >= 0 && z < v.Side
}

// At returns the value at (x, y, z). The caller must ensure the coordinate
// is inside the cube.
func (v *Volume) At(x, y, z int) float32 {
	return v.Data[v.Index(x, y, z)]
}

// Len is the number of cells, Side³
func (v *Volume) Len() int {
	return len(v.Data)
}

// SizeBytes is the size of Data once uploaded as 32-bit floats
func (v *Volume) SizeBytes() uint64 {
	return uint64(len(v.Data)) * 4
}
