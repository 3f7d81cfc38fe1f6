// Package tsgen generates synthetic, deterministic time series for the
// periodicity and model package tests.
//
// Grounded on the teacher repo's BulkSimul (simulate.go), which builds a
// jittered-period, normally-distributed TimeSeries from a PRNG; this
// package keeps the same "period + jitter + Gaussian noise" generation
// idiom but makes it deterministic (a caller-supplied seed) and emits the
// engine's own DataTimePoint series instead of the teacher's DataUnit.
package tsgen

import (
	"math"
	"math/rand"

	"github.com/usefulrisk/timeseria"
)

// Options configures synthetic series generation.
type Options struct {
	Seed       int64
	Count      int
	Resolution float64 // seconds between points
	StartT     float64 // epoch seconds of the first point
	Period     int     // dominant periodicity, in units of Resolution; 0 = no periodicity
	Amplitude  float64
	Mean       float64
	NoiseStdev float64
}

// Periodic builds a uniform-resolution DataTimePoint series with a
// sinusoidal component of the requested period plus Gaussian noise,
// exercised by the periodicity detector and the periodic-average model's
// fit/reconstruct/forecast tests.
func Periodic(opt Options) (*timeseria.Series[timeseria.DataTimePoint], error) {
	r := rand.New(rand.NewSource(opt.Seed))
	s, err := timeseria.NewSeries[timeseria.DataTimePoint]()
	if err != nil {
		return nil, err
	}
	for i := 0; i < opt.Count; i++ {
		t := opt.StartT + float64(i)*opt.Resolution
		v := opt.Mean
		if opt.Period > 0 {
			phase := float64(i%opt.Period) / float64(opt.Period)
			v += opt.Amplitude * math.Sin(2*math.Pi*phase)
		}
		v += r.NormFloat64() * opt.NoiseStdev
		if err := s.Append(timeseria.NewDataTimePoint(t, timeseria.NewScalarData(v), timeseria.UTC)); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// WithGaps rebuilds a DataTimeSlot series with the [loT, hiT) window's data
// zeroed and coverage set to 0, simulating the resampler's zero-filled
// low-coverage output so reconstruction tests have a gap to fill.
func WithGaps(s *timeseria.Series[timeseria.DataTimeSlot], loT, hiT float64) (*timeseria.Series[timeseria.DataTimeSlot], error) {
	out, err := timeseria.NewSeries[timeseria.DataTimeSlot]()
	if err != nil {
		return nil, err
	}
	for _, e := range s.Elements() {
		if e.Start.T >= loT && e.Start.T < hiT {
			cov := 0.0
			e = timeseria.DataTimeSlot{
				TimeSlot: e.TimeSlot,
				Data:     timeseria.ZeroData(e.Data.Shape()),
				Coverage: &cov,
				Indexes:  e.Indexes,
			}
			e.Indexes.SetLoss(1)
		}
		if err := out.Append(e); err != nil {
			return nil, err
		}
	}
	return out, nil
}
