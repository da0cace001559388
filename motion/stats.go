package motion

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// FieldStats summarizes the displacement magnitudes of a field.
type FieldStats struct {
	Blocks          int
	MeanMagnitude   float64
	StdDevMagnitude float64
	MaxMagnitude    float64
	StaticFraction  float64
}

// Stats computes magnitude statistics over every block of the field.
func (f *Field) Stats() FieldStats {
	if len(f.Vectors) == 0 {
		return FieldStats{}
	}

	mags := make([]float64, len(f.Vectors))
	static := 0
	for i, v := range f.Vectors {
		mags[i] = math.Hypot(float64(v.DX), float64(v.DY))
		if v.IsZero() {
			static++
		}
	}

	mean, std := stat.MeanStdDev(mags, nil)
	if len(mags) < 2 {
		std = 0
	}
	return FieldStats{
		Blocks:          len(mags),
		MeanMagnitude:   mean,
		StdDevMagnitude: std,
		MaxMagnitude:    floats.Max(mags),
		StaticFraction:  float64(static) / float64(len(mags)),
	}
}
