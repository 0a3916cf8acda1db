package grid

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"smokevolume/internal/models"
)

// CSVSource is a table of active voxels with header x,y,z followed by one
// column per named grid.
type CSVSource struct {
	names []string
	grids [][]models.Sample
}

// OpenCSV reads a CSV grid file from disk
func OpenCSV(path string) (*CSVSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	src, err := NewCSVSource(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return src, nil
}

// NewCSVSource parses the whole table from r
func NewCSVSource(r io.Reader) (*CSVSource, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header row")
	}
	if err != nil {
		return nil, err
	}
	if len(header) < models.SampleArity {
		return nil, fmt.Errorf("header has %d columns, need x,y,z and at least one grid", len(header))
	}
	for i, axis := range []string{"x", "y", "z"} {
		if !strings.EqualFold(strings.TrimSpace(header[i]), axis) {
			return nil, fmt.Errorf("column %d must be %q, got %q", i, axis, header[i])
		}
	}

	src := &CSVSource{
		names: make([]string, 0, len(header)-3),
		grids: make([][]models.Sample, len(header)-3),
	}
	for _, name := range header[3:] {
		src.names = append(src.names, strings.TrimSpace(name))
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, err
		}

		var coord [3]int
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseFloat(record[i], 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad coordinate %q: %w", line, record[i], err)
			}
			coord[i], err = models.CoordinateFromFloat(float64(float32(v)))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
		}

		for g := range src.names {
			v, err := strconv.ParseFloat(record[3+g], 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad %s value %q: %w", line, src.names[g], record[3+g], err)
			}
			src.grids[g] = append(src.grids[g], models.Sample{
				X: coord[0], Y: coord[1], Z: coord[2],
				Value: float32(v),
			})
		}
	}

	return src, nil
}

// GridNames returns the value column names
func (s *CSVSource) GridNames() []string {
	return s.names
}

// ReadGrid returns a copy of the samples in the named column
func (s *CSVSource) ReadGrid(name string) ([]models.Sample, error) {
	for i := len(s.names) - 1; i >= 0; i-- {
		if s.names[i] == name {
			return append([]models.Sample(nil), s.grids[i]...), nil
		}
	}
	return nil, fmt.Errorf("no grid named %q", name)
}
