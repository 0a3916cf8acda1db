package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"

	"smokevolume/internal/models"
)

// Viewer extracts 2D cross sections from a dense smoke volume so the
// resampled data can be inspected without a GPU.
type Viewer struct {
	// volume holds the dense cube
	volume *models.Volume

	// gain scales cell values before they are mapped to 16-bit gray
	gain float64
}

// NewViewer creates a viewer over vol. Values are multiplied by gain and
// clamped to [0, 1] when rendered.
func NewViewer(vol *models.Volume, gain float64) *Viewer {
	if gain <= 0 {
		gain = 1
	}
	return &Viewer{
		volume: vol,
		gain:   gain,
	}
}

// ExtractSlice extracts a 2D slice from the volume perpendicular to axis.
// An x slice spans (z, y), a y slice spans (x, z), a z slice spans (x, y).
func (v *Viewer) ExtractSlice(axis string, position int) (*image.Gray16, error) {
	side := v.volume.Side
	if position < 0 {
		return nil, fmt.Errorf("position must be non-negative")
	}
	if position >= side {
		return nil, fmt.Errorf("position %d exceeds side %d", position, side)
	}

	img := image.NewGray16(image.Rect(0, 0, side, side))

	switch axis {
	case "x", "X":
		for y := 0; y < side; y++ {
			for z := 0; z < side; z++ {
				img.SetGray16(z, y, v.gray(position, y, z))
			}
		}

	case "y", "Y":
		for z := 0; z < side; z++ {
			for x := 0; x < side; x++ {
				img.SetGray16(x, z, v.gray(x, position, z))
			}
		}

	case "z", "Z":
		for y := 0; y < side; y++ {
			for x := 0; x < side; x++ {
				img.SetGray16(x, y, v.gray(x, y, position))
			}
		}

	default:
		return nil, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	return img, nil
}

func (v *Viewer) gray(x, y, z int) color.Gray16 {
	value := float64(v.volume.At(x, y, z)) * v.gain
	if math.IsNaN(value) {
		return color.Gray16{}
	}
	return color.Gray16{Y: uint16(math.Max(0, math.Min(65535, value*65535)))}
}

// SaveSlice saves an extracted slice as a JPEG image
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
}

// SaveSliceSequence extracts and saves every slice along the specified axis
func (v *Viewer) SaveSliceSequence(axis string, outputDir string) error {
	switch axis {
	case "x", "X", "y", "Y", "z", "Z":
	default:
		return fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	for pos := 0; pos < v.volume.Side; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.jpg", axis, pos))
		if err := v.SaveSlice(img, filename); err != nil {
			return err
		}
	}

	return nil
}
