package export

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"smokevolume/internal/compress"
	"smokevolume/internal/models"
	"smokevolume/pkg/resample"
)

// Metadata describes a raw volume dump so it can be uploaded as a 3D texture
// without re-running the resampler.
type Metadata struct {
	Grid        string  `yaml:"grid"`
	Side        int     `yaml:"side"`
	Compression string  `yaml:"compression"`
	Brightness  float32 `yaml:"brightness"`
	BoundsMode  string  `yaml:"boundsMode"`

	Bounds struct {
		Min [3]int `yaml:"min"`
		Max [3]int `yaml:"max"`
	} `yaml:"bounds"`
	Offset  [3]int `yaml:"offset"`
	Dropped int    `yaml:"dropped"`

	// Texture hints for the uploader
	Texture struct {
		Format string `yaml:"format"`
		Layout string `yaml:"layout"`
		Filter string `yaml:"filter"`
		Wrap   string `yaml:"wrap"`
	} `yaml:"texture"`
}

// NewMetadata fills a sidecar from a resample result
func NewMetadata(gridName string, res *resample.Result, opts resample.Options, c compress.Compression) *Metadata {
	meta := &Metadata{
		Grid:        gridName,
		Side:        res.Side(),
		Compression: c.String(),
		Brightness:  opts.Brightness,
		BoundsMode:  opts.BoundsMode.String(),
		Offset:      res.Offset,
		Dropped:     res.Dropped,
	}
	b := res.Bounds
	meta.Bounds.Min = [3]int{b.XMin, b.YMin, b.ZMin}
	meta.Bounds.Max = [3]int{b.XMax, b.YMax, b.ZMax}

	meta.Texture.Format = "R32F"
	meta.Texture.Layout = "x-major"
	meta.Texture.Filter = "linear"
	meta.Texture.Wrap = "repeat"
	return meta
}

// WriteVolume writes the cells as little-endian float32 in storage order
func WriteVolume(w io.Writer, vol *models.Volume, c compress.Compression) error {
	cw, err := compress.NewWriter(w, c)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(cw)
	var buf [4]byte
	for _, v := range vol.Data {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
		if _, err := bw.Write(buf[:]); err != nil {
			cw.Close()
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		cw.Close()
		return err
	}
	return cw.Close()
}

// ReadVolume reads a cube of the given side written by WriteVolume
func ReadVolume(r io.Reader, side int, c compress.Compression) (*models.Volume, error) {
	if side < 1 || side > models.MaxVolumeSide {
		return nil, fmt.Errorf("side must be in [1, %d], got %d", models.MaxVolumeSide, side)
	}

	cr, err := compress.NewReader(r, c)
	if err != nil {
		return nil, err
	}
	defer cr.Close()

	vol := models.NewVolume(side)
	if err := binary.Read(bufio.NewReader(cr), binary.LittleEndian, vol.Data); err != nil {
		return nil, fmt.Errorf("failed to read %d cells: %w", vol.Len(), err)
	}
	return vol, nil
}

// SaveVolume writes the raw volume to path and the metadata to path + ".yaml"
func SaveVolume(path string, vol *models.Volume, meta *Metadata) error {
	c, err := compress.Parse(meta.Compression)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating volume file: %w", err)
	}
	if err := WriteVolume(file, vol, c); err != nil {
		file.Close()
		return fmt.Errorf("error writing volume file: %w", err)
	}
	if err := file.Close(); err != nil {
		return err
	}

	data, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("error marshaling metadata: %w", err)
	}
	if err := os.WriteFile(path+".yaml", data, 0644); err != nil {
		return fmt.Errorf("error writing metadata file: %w", err)
	}
	return nil
}

// LoadVolume reads a volume and its sidecar written by SaveVolume
func LoadVolume(path string) (*models.Volume, *Metadata, error) {
	data, err := os.ReadFile(path + ".yaml")
	if err != nil {
		return nil, nil, fmt.Errorf("error reading metadata file: %w", err)
	}
	meta := &Metadata{}
	if err := yaml.Unmarshal(data, meta); err != nil {
		return nil, nil, fmt.Errorf("error parsing metadata file: %w", err)
	}

	c, err := compress.Parse(meta.Compression)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	vol, err := ReadVolume(file, meta.Side, c)
	if err != nil {
		return nil, nil, err
	}
	return vol, meta, nil
}
