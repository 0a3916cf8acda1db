package grid

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"smokevolume/internal/compress"
	"smokevolume/internal/models"
)

// sampleBytes is the size of one x, y, z, value record
const sampleBytes = models.SampleArity * 4

// BinarySource holds a single grid stored as little-endian float32 records
type BinarySource struct {
	name    string
	samples []models.Sample
}

// OpenBinary reads a binary grid file from disk
func OpenBinary(path, name string, c compress.Compression) (*BinarySource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r, err := compress.NewReader(file, c)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	src, err := NewBinarySource(name, r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return src, nil
}

// NewBinarySource decodes the whole record stream from r
func NewBinarySource(name string, r io.Reader) (*BinarySource, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data)%sampleBytes != 0 {
		return nil, fmt.Errorf("stream length %d is not a multiple of %d bytes", len(data), sampleBytes)
	}

	flat := make([]float32, len(data)/4)
	for i := range flat {
		flat[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}

	samples, err := models.SamplesFromFlat(flat)
	if err != nil {
		return nil, err
	}
	return &BinarySource{name: name, samples: samples}, nil
}

// WriteBinary encodes samples in the format read by NewBinarySource
func WriteBinary(w io.Writer, samples []models.Sample) error {
	return binary.Write(w, binary.LittleEndian, models.Flatten(samples))
}

// GridNames returns the single grid name
func (s *BinarySource) GridNames() []string {
	return []string{s.name}
}

// ReadGrid returns a copy of the samples when name matches
func (s *BinarySource) ReadGrid(name string) ([]models.Sample, error) {
	if name != s.name {
		return nil, fmt.Errorf("no grid named %q", name)
	}
	return append([]models.Sample(nil), s.samples...), nil
}
