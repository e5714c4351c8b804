package blob

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Stats summarizes the components that survived a Filter.
//
// Smallest, Biggest, Mean and StdDev are zero when Count is zero.
type Stats struct {
	MinSize  int     `json:"min_size"`
	Count    int     `json:"count"`
	Disabled int     `json:"disabled"`
	Smallest int     `json:"smallest"`
	Biggest  int     `json:"biggest"`
	Total    int     `json:"total"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
}

// Average returns Total / Count rounded down, or 0 without components.
func (s Stats) Average() int {
	if s.Count == 0 {
		return 0
	}
	return s.Total / s.Count
}

func (s Stats) String() string {
	if s.Count == 0 {
		return "No objects detected"
	}
	return fmt.Sprintf("Groups shown = %5d ( smallest = %6d biggest = %6d AVG = %6d)",
		s.Count, s.Smallest, s.Biggest, s.Average())
}

// Filter disables every component smaller than minSize and enables the
// rest, then computes the statistics of the enabled ones. Disabled
// components stay in the registry, so a later Filter with a lower
// threshold brings them back.
func (f *Forest) Filter(minSize int) Stats {
	s := Stats{MinSize: minSize, Smallest: math.MaxInt, Biggest: -1}
	sizes := make([]float64, 0, f.meta.len())

	for _, r := range f.meta.regions {
		if r.Size < minSize {
			r.Enabled = false
			s.Disabled++
			continue
		}
		r.Enabled = true
		if r.Size > s.Biggest {
			s.Biggest = r.Size
		}
		if r.Size < s.Smallest {
			s.Smallest = r.Size
		}
		s.Total += r.Size
		s.Count++
		sizes = append(sizes, float64(r.Size))
	}

	if s.Count == 0 {
		s.Smallest, s.Biggest = 0, 0
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(sizes, nil)
	if s.Count == 1 {
		// The sample deviation of a single value is NaN.
		s.StdDev = 0
	}
	return s
}
