// Package resample implements the resampling/aggregation transform: given
// a variable- or uniform-resolution input point series and a target unit,
// produce a slot series of that span, anchored at the first input point's
// timestamp, with per-slot coverage and data-loss tracking.
//
// Grounded on the teacher repo's Regularize (regularize.go), which walks a
// fixed-period grid accumulating points per window and filling empty
// windows with NaN. This package keeps the "walk the grid, accumulate,
// fill the gaps" shape but replaces Regularize's window-membership test
// (does a point's timestamp fall in [prevEnd, windowEnd]) with the spec's
// validity-interval overlap-integral rule (§4.C), which weights a point's
// contribution by how much of its validity region intersects the slot
// rather than an all-or-nothing membership test, and marks coverage/loss
// explicitly instead of emitting NaN.
package resample

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/usefulrisk/timeseria"
	"github.com/usefulrisk/timeseria/internal/tsstats"
	"github.com/usefulrisk/timeseria/unit"
)

// Options configures a resampling run.
type Options struct {
	// Unit is the target slot span.
	Unit unit.PhysicalUnit
	// SamplingInterval overrides the inferred input sampling interval
	// (spec §4.C.5); zero means infer it.
	SamplingInterval float64
	// Logger receives a warning when upsampling is requested. A nil
	// Logger is replaced with zap.NewNop(), matching the library-not-daemon
	// silence-by-default posture of the teacher repo.
	Logger *zap.SugaredLogger
}

func (o Options) logger() *zap.SugaredLogger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop().Sugar()
}

// validityInterval is the [lo, hi) region of the timeline a single input
// point is considered representative of, per spec §4.C.1.
type validityInterval struct {
	lo, hi float64
	value  float64
}

// Resample implements spec §4.C for a scalar DataTimePoint input series.
// It returns a DataTimeSlot series of target-unit slots whose grid starts at
// the first input point's timestamp.
func Resample(s *timeseria.Series[timeseria.DataTimePoint], opt Options) (*timeseria.Series[timeseria.DataTimeSlot], error) {
	if s.Len() == 0 {
		return nil, timeseria.ErrEmptySeries
	}
	if opt.Unit.Seconds <= 0 {
		return nil, fmt.Errorf("%w: target unit must be positive", timeseria.ErrUnsupported)
	}

	elements := s.Elements()
	samplingInterval := opt.SamplingInterval
	if samplingInterval <= 0 {
		samplingInterval = inferSamplingInterval(elements)
	}
	if opt.Unit.Seconds < samplingInterval {
		opt.logger().Warnw("upsampling requested: target interval shorter than source sampling interval",
			"target_seconds", opt.Unit.Seconds, "source_seconds", samplingInterval)
	}

	regions := validityRegions(elements, samplingInterval)

	// The grid is anchored at the first point's own timestamp rather than
	// an absolute epoch multiple of U: anchoring to an epoch-floor would
	// shift slot boundaries away from the data whenever t0 isn't already
	// a multiple of U (e.g. downsampling [60,120,180,240] at U=120 would
	// start the grid at 0 instead of 60), which disagrees with a
	// uniformly-sampled input reproducing its own values at matching
	// resolution (P4). t0 is trivially "floor-aligned to itself".
	t0 := elements[0].T
	U := opt.Unit.Seconds
	gridStart := t0
	tLast := elements[len(elements)-1].T

	out, err := timeseria.NewSeries[timeseria.DataTimeSlot]()
	if err != nil {
		return nil, err
	}

	shape := elements[0].Data.Shape()
	tz := elements[0].TZ

	slotStart := gridStart
	regionIdx := 0
	for slotStart < tLast {
		slotEnd := slotStart + U

		var values, overlaps []float64
		for regionIdx < len(regions) && regions[regionIdx].hi <= slotStart {
			regionIdx++
		}
		for j := regionIdx; j < len(regions) && regions[j].lo < slotEnd; j++ {
			ov := overlap(regions[j].lo, regions[j].hi, slotStart, slotEnd)
			if ov <= 0 {
				continue
			}
			values = append(values, regions[j].value)
			overlaps = append(overlaps, ov)
		}

		totalOverlap := floats.Sum(overlaps)
		coverage := clip01(totalOverlap / U)

		var data timeseria.Data
		if coverage > 0 {
			data = timeseria.NewScalarData(floats.Dot(values, overlaps) / totalOverlap)
		} else {
			data = timeseria.ZeroData(shape)
		}

		slot := timeseria.DataTimeSlot{
			TimeSlot: timeseria.NewTimeSlot(
				timeseria.NewTimePoint(slotStart, tz),
				timeseria.NewTimePoint(slotEnd, tz),
			),
			Data:     data,
			Coverage: floatPtr(coverage),
		}
		slot.Indexes.SetLoss(1 - coverage)

		if err := out.Append(slot); err != nil {
			return nil, err
		}
		slotStart = slotEnd
	}

	return out, nil
}

// validityRegions computes each input point's validity interval as a
// forward (left-closed) zero-order-hold region: a point is taken to
// represent the timeline from its own timestamp up to the next point's
// timestamp, so that a slot grid anchored at the data's own timestamps
// reproduces those same boundaries exactly (spec §8 scenarios 1-2 and
// property P4). The last point extends forward by the inferred sampling
// interval, since there is no next point to bound it.
func validityRegions(elements []timeseria.DataTimePoint, samplingInterval float64) []validityInterval {
	n := len(elements)
	regions := make([]validityInterval, n)
	for i, e := range elements {
		v, _ := e.Data.Get("0")
		lo := e.T
		hi := e.T + samplingInterval
		if i < n-1 {
			hi = elements[i+1].T
		}
		regions[i] = validityInterval{lo: lo, hi: hi, value: v}
	}
	return regions
}

// overlap returns the length of the intersection of [aLo,aHi) and
// [bLo,bHi), collapsing slivers below the package's relative tolerance to
// zero (spec §4.C numerical edge).
func overlap(aLo, aHi, bLo, bHi float64) float64 {
	lo := math.Max(aLo, bLo)
	hi := math.Min(aHi, bHi)
	d := hi - lo
	if d <= 0 {
		return 0
	}
	scale := math.Max(math.Abs(aHi-aLo), math.Abs(bHi-bLo))
	if d <= timeseria.RelTolerance*scale {
		return 0
	}
	return d
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func floatPtr(v float64) *float64 { return &v }

// inferSamplingInterval implements spec §4.C.5 directly on raw point
// deltas (Series.Resolution already implements the identical algorithm
// generically; this copy avoids a dependency from resample back onto a
// specific Series method signature and operates on the already-extracted
// element slice this package needs anyway).
func inferSamplingInterval(elements []timeseria.DataTimePoint) float64 {
	if len(elements) < 2 {
		return 1
	}
	n := len(elements) - 1
	if n > 10000 {
		n = 10000
	}
	deltas := make([]float64, n)
	for i := 0; i < n; i++ {
		deltas[i] = elements[i+1].T - elements[i].T
	}
	median, err := tsstats.Median(append([]float64(nil), deltas...))
	if err != nil {
		return deltas[0]
	}
	filtered := make([]float64, 0, len(deltas))
	for _, d := range deltas {
		if median == 0 || d <= 10*median {
			filtered = append(filtered, d)
		}
	}
	if len(filtered) == 0 {
		filtered = deltas
	}
	counts := map[float64]int{}
	best, bestCount := filtered[0], 0
	for _, d := range filtered {
		r := math.Round(d*1e6) / 1e6
		counts[r]++
		if counts[r] > bestCount {
			bestCount = counts[r]
			best = r
		}
	}
	return best
}
