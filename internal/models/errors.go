package models

import "fmt"

// RangeError reports a sample whose recentered coordinate falls outside the
// dense cube.
type RangeError struct {
	// Sample is the offending input sample
	Sample Sample

	// Target is the recentered coordinate the sample mapped to, or the raw
	// coordinate when it exceeds MaxCoordinate
	Target [3]int

	// Side is the edge length of the cube
	Side int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("sample (%d, %d, %d) maps to (%d, %d, %d), outside cube of side %d",
		e.Sample.X, e.Sample.Y, e.Sample.Z, e.Target[0], e.Target[1], e.Target[2], e.Side)
}

// ConfigurationError reports an invalid option or a malformed export request
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
