// Package pipeline runs the full load → resample → export sequence for one
// smoke grid.
package pipeline

import (
	"fmt"
	"log"
	"math"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/gonum/stat"

	"smokevolume/internal/compress"
	"smokevolume/internal/models"
	"smokevolume/pkg/export"
	"smokevolume/pkg/grid"
	"smokevolume/pkg/resample"
	"smokevolume/pkg/visualization"
)

// Stats summarises a resampled volume
type Stats struct {
	// Samples is the number of active voxels read from the grid
	Samples int

	// Dropped is the number of samples skipped under the drop policy
	Dropped int

	// NonZero is the number of cells holding a non-zero value
	NonZero int

	// Occupancy is NonZero divided by the cell count
	Occupancy float64

	// Mean and StdDev are taken over the non-zero cells
	Mean   float64
	StdDev float64

	// Max is the largest cell value
	Max float64

	// Elapsed is the wall time of Process
	Elapsed time.Duration
}

// Params holds the pipeline configuration
type Params struct {
	// InputFile is the sparse grid file (.csv, .f32, .snappy, .zst)
	InputFile string

	// GridName is the grid to read, "density" by default
	GridName string

	// Options control the resampler
	Options resample.Options

	// OutputFile is the raw volume dump. Empty skips writing the volume.
	OutputFile string

	// Compression is applied to OutputFile
	Compression compress.Compression

	// CSVFile, when set, receives the sparse samples as x,y,z,<grid>
	CSVFile string

	// SaveSlices writes JPEG stacks along x, y and z under SlicesDir
	SaveSlices bool
	SlicesDir  string

	// Verbose prints progress lines
	Verbose bool
}

// Pipeline loads one grid and turns it into a dense volume
type Pipeline struct {
	params *Params

	samples []models.Sample
	result  *resample.Result
	stats   Stats
}

// NewPipeline creates a pipeline for the provided parameters
func NewPipeline(params *Params) *Pipeline {
	if params.GridName == "" {
		params.GridName = grid.DefaultGridName
	}
	return &Pipeline{params: params}
}

func (p *Pipeline) logf(format string, args ...interface{}) {
	if p.params.Verbose {
		fmt.Printf(format+"\n", args...)
	}
}

// Process runs the complete pipeline
func (p *Pipeline) Process() error {
	start := time.Now()

	// Step 1: Read the sparse grid
	p.logf("Step 1: Reading grid %q from %s...", p.params.GridName, p.params.InputFile)
	src, err := grid.Open(p.params.InputFile, p.params.GridName)
	if err != nil {
		return fmt.Errorf("failed to open grid file: %w", err)
	}
	p.samples, err = grid.ReadGrid(src, p.params.GridName)
	if err != nil {
		return err
	}
	p.logf("Read %d active voxels", len(p.samples))

	// Step 2: Export the sparse samples
	if p.params.CSVFile != "" {
		p.logf("Step 2: Exporting samples to %s...", p.params.CSVFile)
		header := []string{"x", "y", "z", p.params.GridName}
		if err := export.SaveCSV(p.params.CSVFile, header, p.samples); err != nil {
			return fmt.Errorf("failed to export csv: %w", err)
		}
	}

	// Step 3: Resample into a dense cube
	p.logf("Step 3: Resampling into dense volume...")
	p.result, err = resample.Resample(p.samples, p.params.Options)
	if err != nil {
		return fmt.Errorf("failed to resample grid: %w", err)
	}
	if !p.result.Occupied {
		log.Printf("Warning: no voxel of grid %q reached epsilon %g, volume is degenerate",
			p.params.GridName, p.params.Options.Epsilon)
	}
	p.logf("Bounds %s, side %d, offset %v, %s",
		p.result.Bounds, p.result.Side(), p.result.Offset, humanize.Bytes(p.result.Volume.SizeBytes()))

	// Step 4: Save the volume and its metadata
	if p.params.OutputFile != "" {
		p.logf("Step 4: Saving volume to %s...", p.params.OutputFile)
		meta := export.NewMetadata(p.params.GridName, p.result, p.params.Options, p.params.Compression)
		if err := export.SaveVolume(p.params.OutputFile, p.result.Volume, meta); err != nil {
			return fmt.Errorf("failed to save volume: %w", err)
		}
	}

	// Step 5: Save slice stacks for inspection
	if p.params.SaveSlices {
		p.logf("Step 5: Saving slice stacks to %s...", p.params.SlicesDir)
		viewer := visualization.NewViewer(p.result.Volume, 1.0)
		for _, axis := range []string{"x", "y", "z"} {
			if err := viewer.SaveSliceSequence(axis, filepath.Join(p.params.SlicesDir, axis)); err != nil {
				log.Printf("Warning: Failed to save %s-axis slices: %v", axis, err)
			}
		}
	}

	// Step 6: Calculate statistics
	p.logf("Step 6: Calculating volume statistics...")
	p.stats = computeStats(p.result)
	p.stats.Samples = len(p.samples)
	p.stats.Elapsed = time.Since(start)

	return nil
}

// computeStats measures the non-zero cells of the volume
func computeStats(res *resample.Result) Stats {
	data := res.Volume.Data
	nonZero := make([]float64, 0, len(data))
	maxValue := float64(data[0])
	for _, v := range data {
		if v != 0 {
			nonZero = append(nonZero, float64(v))
		}
		maxValue = math.Max(maxValue, float64(v))
	}

	stats := Stats{
		Dropped:   res.Dropped,
		NonZero:   len(nonZero),
		Occupancy: float64(len(nonZero)) / float64(len(data)),
		Max:       maxValue,
	}
	if len(nonZero) > 0 {
		if len(nonZero) > 1 {
			stats.Mean, stats.StdDev = stat.MeanStdDev(nonZero, nil)
		} else {
			stats.Mean = nonZero[0]
		}
	}
	return stats
}

// GetResult returns the resample result, nil before Process succeeds
func (p *Pipeline) GetResult() *resample.Result {
	return p.result
}

// GetSamples returns the samples read in step 1
func (p *Pipeline) GetSamples() []models.Sample {
	return p.samples
}

// GetStats returns the statistics gathered by Process
func (p *Pipeline) GetStats() Stats {
	return p.stats
}
