package voi

import (
	"gonum.org/v1/gonum/stat"
)

// MinMax returns the smallest and largest sample in one pass.
func MinMax(buf *PhysicalBuffer) (min, max float64, err error) {
	if buf.Len() == 0 {
		return 0, 0, ErrEmptyBuffer
	}
	min, max = buf.data[0], buf.data[0]
	for _, v := range buf.data[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max, nil
}

// Stats summarizes a PhysicalBuffer.
type Stats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

// Describe computes range, mean and sample standard deviation.
func Describe(buf *PhysicalBuffer) (Stats, error) {
	min, max, err := MinMax(buf)
	if err != nil {
		return Stats{}, err
	}
	s := Stats{Min: min, Max: max}
	if buf.Len() == 1 {
		s.Mean = buf.data[0]
		return s, nil
	}
	s.Mean, s.StdDev = stat.MeanStdDev(buf.data, nil)
	return s, nil
}
