package export

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"smokevolume/internal/compress"
	"smokevolume/internal/models"
	"smokevolume/pkg/grid"
	"smokevolume/pkg/resample"
)

// TestWriteCSV verifies the header row and one line per sample
func TestWriteCSV(t *testing.T) {
	samples := []models.Sample{
		{X: 0, Y: 0, Z: 0, Value: 1},
		{X: -3, Y: 4, Z: 12, Value: 0.5},
		{X: 7, Y: 8, Z: 9, Value: 1e-8},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, []string{"x", "y", "z", "density"}, samples); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != len(samples)+1 {
		t.Fatalf("Expected %d lines, got %d: %q", len(samples)+1, len(lines), buf.String())
	}

	expected := []string{
		"x,y,z,density",
		"0,0,0,1",
		"-3,4,12,0.5",
		"7,8,9,1e-08",
	}
	for i, want := range expected {
		if lines[i] != want {
			t.Errorf("Line %d: expected %q, got %q", i, want, lines[i])
		}
	}
}

// TestWriteCSVArity verifies a header that does not match the sample fields
// fails before anything is written
func TestWriteCSVArity(t *testing.T) {
	samples := []models.Sample{{X: 1, Y: 2, Z: 3, Value: 4}}

	for _, header := range [][]string{
		{"x", "y", "z"},
		{"x", "y", "z", "density", "temperature"},
		nil,
	} {
		var buf bytes.Buffer
		err := WriteCSV(&buf, header, samples)

		var cfgErr *models.ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Errorf("Header %v: expected ConfigurationError, got %v", header, err)
		}
		if buf.Len() != 0 {
			t.Errorf("Header %v: expected no output, got %q", header, buf.String())
		}
	}

	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := SaveCSV(path, []string{"x"}, samples); err == nil {
		t.Error("Expected SaveCSV to reject short header")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected no file to be created for a rejected header")
	}
}

// TestGridToCSV verifies CSV export round trips through the CSV grid source
func TestGridToCSV(t *testing.T) {
	samples := []models.Sample{
		{X: 1, Y: 2, Z: 3, Value: 0.75},
		{X: 4, Y: 5, Z: 6, Value: 0.125},
	}
	var buf bytes.Buffer
	if err := grid.WriteBinary(&buf, samples); err != nil {
		t.Fatalf("WriteBinary failed: %v", err)
	}
	src, err := grid.NewBinarySource("density", &buf)
	if err != nil {
		t.Fatalf("NewBinarySource failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out", "density.csv")
	if err := GridToCSV(src, "density", path); err != nil {
		t.Fatalf("GridToCSV failed: %v", err)
	}

	csvSrc, err := grid.OpenCSV(path)
	if err != nil {
		t.Fatalf("OpenCSV failed: %v", err)
	}
	got, err := grid.ReadGrid(csvSrc, "density")
	if err != nil {
		t.Fatalf("ReadGrid failed: %v", err)
	}
	if len(got) != len(samples) {
		t.Fatalf("Expected %d samples, got %d", len(samples), len(got))
	}
	for i := range samples {
		if got[i] != samples[i] {
			t.Errorf("Sample %d: expected %v, got %v", i, samples[i], got[i])
		}
	}
}

// TestSaveLoadVolume verifies the raw dump and its sidecar for every codec
func TestSaveLoadVolume(t *testing.T) {
	samples := []models.Sample{
		{X: 0, Y: 0, Z: 0, Value: 1.0},
		{X: 2, Y: 0, Z: 0, Value: 0.5},
		{X: 0, Y: 2, Z: 0, Value: 0.25},
	}
	opts := resample.DefaultOptions()
	res, err := resample.Resample(samples, opts)
	if err != nil {
		t.Fatalf("Resample failed: %v", err)
	}

	for _, c := range []compress.Compression{compress.Uncompressed, compress.Snappy, compress.Zstd} {
		t.Run(c.String(), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "smoke.raw"+c.Ext())
			meta := NewMetadata("density", res, opts, c)
			if err := SaveVolume(path, res.Volume, meta); err != nil {
				t.Fatalf("SaveVolume failed: %v", err)
			}

			vol, loaded, err := LoadVolume(path)
			if err != nil {
				t.Fatalf("LoadVolume failed: %v", err)
			}

			if loaded.Side != 3 || loaded.Compression != c.String() {
				t.Errorf("Unexpected metadata: %+v", loaded)
			}
			if loaded.Offset != [3]int{0, 0, 1} {
				t.Errorf("Expected offset [0 0 1], got %v", loaded.Offset)
			}
			if loaded.Bounds.Max != [3]int{2, 2, 0} {
				t.Errorf("Expected max bounds [2 2 0], got %v", loaded.Bounds.Max)
			}
			if loaded.Texture.Format != "R32F" {
				t.Errorf("Expected R32F texture format, got %s", loaded.Texture.Format)
			}

			if vol.Len() != res.Volume.Len() {
				t.Fatalf("Expected %d cells, got %d", res.Volume.Len(), vol.Len())
			}
			for i := range vol.Data {
				if vol.Data[i] != res.Volume.Data[i] {
					t.Errorf("Cell %d: expected %f, got %f", i, res.Volume.Data[i], vol.Data[i])
				}
			}
		})
	}
}

// TestWriteVolumeSize verifies the uncompressed dump is 4 bytes per cell
func TestWriteVolumeSize(t *testing.T) {
	vol := models.NewVolume(4)
	var buf bytes.Buffer
	if err := WriteVolume(&buf, vol, compress.Uncompressed); err != nil {
		t.Fatalf("WriteVolume failed: %v", err)
	}
	if uint64(buf.Len()) != vol.SizeBytes() {
		t.Errorf("Expected %d bytes, got %d", vol.SizeBytes(), buf.Len())
	}

	if _, err := ReadVolume(&buf, 5, compress.Uncompressed); err == nil {
		t.Error("Expected error reading a larger cube than was written")
	}
}

// TestLoadVolumeBadSide verifies a corrupted sidecar side is refused before allocation
func TestLoadVolumeBadSide(t *testing.T) {
	res, err := resample.Resample([]models.Sample{{X: 1, Value: 1}}, resample.DefaultOptions())
	if err != nil {
		t.Fatalf("Resample failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "smoke.raw")
	if err := SaveVolume(path, res.Volume, NewMetadata("density", res, resample.DefaultOptions(), compress.Uncompressed)); err != nil {
		t.Fatalf("SaveVolume failed: %v", err)
	}

	for _, side := range []string{"0", "-3", "4097", "2000000000"} {
		sidecar := "grid: density\nside: " + side + "\ncompression: none\n"
		if err := os.WriteFile(path+".yaml", []byte(sidecar), 0644); err != nil {
			t.Fatal(err)
		}
		if _, _, err := LoadVolume(path); err == nil {
			t.Errorf("Side %s: expected error", side)
		}
	}
}
