package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/natefinch/lumberjack"

	"smokevolume/pkg/config"
	"smokevolume/pkg/pipeline"
)

func main() {
	// Parse command line arguments
	inputFile := flag.String("input", "", "Sparse grid file (.csv, .f32, .snappy, .zst)")
	gridName := flag.String("grid", "", "Grid to resample (default from config: density)")
	configPath := flag.String("config", "smokevolume.yaml", "Configuration file (.yaml or .toml)")
	outputFile := flag.String("output", "", "Raw volume output file")
	brightness := flag.Float64("brightness", 0, "Multiplier applied to every density")
	boundsMode := flag.String("bounds", "", "Bounds mode: origin or tight")
	outOfRange := flag.String("out-of-range", "", "Out-of-range policy: reject or drop")
	compression := flag.String("compression", "", "Volume compression: none, snappy or zstd")
	csvFile := flag.String("csv", "", "Export the sparse samples to this CSV file")
	saveSlices := flag.Bool("slices", false, "Save JPEG slice stacks along all axes")
	slicesDir := flag.String("slices-dir", "", "Directory to save slice stacks")
	initConfig := flag.Bool("init-config", false, "Write a default configuration file to -config and exit")
	flag.Parse()

	if *initConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to create config file: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	// Validate inputs
	if *inputFile == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Flags given on the command line take precedence over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "grid":
			cfg.Grid.Name = *gridName
		case "output":
			cfg.Output.VolumeFile = *outputFile
		case "brightness":
			cfg.Resample.Brightness = float32(*brightness)
		case "bounds":
			cfg.Resample.BoundsMode = *boundsMode
		case "out-of-range":
			cfg.Resample.OutOfRange = *outOfRange
		case "compression":
			cfg.Output.Compression = *compression
		case "csv":
			cfg.Output.CSVFile = *csvFile
		case "slices":
			cfg.Output.SaveSlices = *saveSlices
		case "slices-dir":
			cfg.Output.SlicesDir = *slicesDir
		}
	})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	opts, err := cfg.ResampleOptions()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	codec, err := cfg.Compression()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.Output.LogFile != "" {
		fmt.Printf("Sending log messages to: %s\n", cfg.Output.LogFile)
		log.SetOutput(&lumberjack.Logger{
			Filename: cfg.Output.LogFile,
			MaxSize:  cfg.Output.LogMaxSizeMB, // megabytes
			MaxAge:   cfg.Output.LogMaxAgeDays,
		})
	}

	// A bare volume name picks up the codec extension
	volumeFile := cfg.Output.VolumeFile
	if ext := codec.Ext(); volumeFile != "" && ext != "" && filepath.Ext(volumeFile) != ext {
		volumeFile += ext
	}

	fmt.Println("================================")
	fmt.Println("SPARSE SMOKE GRID TO DENSE VOLUME")
	fmt.Println("================================")

	params := &pipeline.Params{
		InputFile:   *inputFile,
		GridName:    cfg.Grid.Name,
		Options:     opts,
		OutputFile:  volumeFile,
		Compression: codec,
		CSVFile:     cfg.Output.CSVFile,
		SaveSlices:  cfg.Output.SaveSlices,
		SlicesDir:   cfg.Output.SlicesDir,
		Verbose:     cfg.Output.Verbose,
	}

	p := pipeline.NewPipeline(params)
	if err := p.Process(); err != nil {
		log.Fatalf("Resampling failed: %v", err)
	}

	res := p.GetResult()
	stats := p.GetStats()
	fmt.Printf("\nResampling completed successfully in %.2f seconds!\n", stats.Elapsed.Seconds())
	if volumeFile != "" {
		fmt.Printf("Volume saved to: %s (metadata %s.yaml)\n", volumeFile, volumeFile)
	}

	fmt.Printf("\nVolume summary:\n")
	fmt.Printf("================\n")
	fmt.Printf("Grid: %s\n", params.GridName)
	fmt.Printf("Bounds: %s\n", res.Bounds)
	fmt.Printf("Cube side: %d (%s cells, %s)\n",
		res.Side(), humanize.Comma(int64(res.Volume.Len())), humanize.Bytes(res.Volume.SizeBytes()))
	fmt.Printf("Offsets: x=%d y=%d z=%d\n", res.Offset[0], res.Offset[1], res.Offset[2])
	fmt.Printf("Samples read: %s\n", humanize.Comma(int64(stats.Samples)))
	if stats.Dropped > 0 {
		fmt.Printf("Samples dropped: %s\n", humanize.Comma(int64(stats.Dropped)))
	}
	fmt.Printf("Non-zero cells: %s (%.2f%% occupancy)\n", humanize.Comma(int64(stats.NonZero)), stats.Occupancy*100)
	fmt.Printf("Density mean: %.6f, stddev: %.6f, max: %.6f\n", stats.Mean, stats.StdDev, stats.Max)

	if cfg.Output.SaveSlices {
		fmt.Printf("\nSlice stacks saved under: %s\n", cfg.Output.SlicesDir)
	}
}
