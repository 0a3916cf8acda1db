// Package export writes sparse samples and dense volumes to disk.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"smokevolume/internal/models"
	"smokevolume/pkg/grid"
)

// WriteCSV writes a header row followed by one comma-separated row per
// sample. The header must name exactly one column per sample field.
func WriteCSV(w io.Writer, header []string, samples []models.Sample) error {
	if err := checkHeader(header); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(header, ",") + "\n"); err != nil {
		return err
	}

	var row []byte
	for _, s := range samples {
		row = row[:0]
		row = strconv.AppendInt(row, int64(s.X), 10)
		row = append(row, ',')
		row = strconv.AppendInt(row, int64(s.Y), 10)
		row = append(row, ',')
		row = strconv.AppendInt(row, int64(s.Z), 10)
		row = append(row, ',')
		row = strconv.AppendFloat(row, float64(s.Value), 'g', -1, 32)
		row = append(row, '\n')
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// SaveCSV writes the samples to a CSV file at path
func SaveCSV(path string, header []string, samples []models.Sample) error {
	if err := checkHeader(header); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating csv file: %w", err)
	}

	if err := WriteCSV(file, header, samples); err != nil {
		file.Close()
		return fmt.Errorf("error writing csv file: %w", err)
	}
	return file.Close()
}

// GridToCSV reads the named grid from src and saves it with header
// x,y,z,<gridName>.
func GridToCSV(src grid.Source, gridName, path string) error {
	samples, err := grid.ReadGrid(src, gridName)
	if err != nil {
		return err
	}
	return SaveCSV(path, []string{"x", "y", "z", gridName}, samples)
}

func checkHeader(header []string) error {
	if len(header) != models.SampleArity {
		return &models.ConfigurationError{
			Field:  "csv header",
			Reason: fmt.Sprintf("has %d columns, samples have %d fields", len(header), models.SampleArity),
		}
	}
	return nil
}
