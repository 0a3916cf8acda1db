// Package grid reads active voxels from sparse grid files and hands them out
// as flat sample sequences, one named grid at a time.
package grid

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"smokevolume/internal/compress"
	"smokevolume/internal/models"
)

// DefaultGridName is the grid conventionally holding smoke density
const DefaultGridName = "density"

// Source is a file holding one or more named scalar grids
type Source interface {
	// GridNames lists the grids in file order
	GridNames() []string

	// ReadGrid returns the active voxels of the named grid
	ReadGrid(name string) ([]models.Sample, error)
}

// ReadGrid returns the samples of the grid called name. Every other grid is
// skipped with a log line; if several grids share the name the last one is
// kept. A file without a matching grid yields an empty sample slice and no
// error.
func ReadGrid(src Source, name string) ([]models.Sample, error) {
	var samples []models.Sample
	found := false

	for _, gridName := range src.GridNames() {
		if gridName != name {
			log.Printf("skipping grid %s", gridName)
			continue
		}

		var err error
		samples, err = src.ReadGrid(gridName)
		if err != nil {
			return nil, fmt.Errorf("failed to read grid %q: %w", gridName, err)
		}
		found = true
	}

	if !found {
		log.Printf("Warning: no grid named %q, using empty sample set", name)
		return []models.Sample{}, nil
	}
	return samples, nil
}

// Open picks a source implementation from the file extension:
//
//	.csv                 CSVSource, one grid per value column
//	.f32, .raw           BinarySource, uncompressed
//	.snappy, .sz         BinarySource, snappy compressed
//	.zst                 BinarySource, zstd compressed
//
// Binary files carry a single grid, registered under gridName.
func Open(path, gridName string) (Source, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return OpenCSV(path)
	case ".f32", ".raw":
		return OpenBinary(path, gridName, compress.Uncompressed)
	case ".snappy", ".sz":
		return OpenBinary(path, gridName, compress.Snappy)
	case ".zst":
		return OpenBinary(path, gridName, compress.Zstd)
	default:
		return nil, fmt.Errorf("unsupported grid file extension %q", ext)
	}
}
