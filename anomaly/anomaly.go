// Package anomaly implements the residual-based anomaly detector (spec
// §4.G): wrap a fitted forecaster, fit a Normal distribution to its
// one-step-ahead residuals, and flag points whose residual exceeds k
// standard deviations.
//
// Grounded on the teacher repo's outlier family (outliers.go: PercCleaning,
// ZscoreCleaning, Peirce), which all follow the same "compute a bound from
// the distribution of residual-like values, then partition points against
// it" shape; this package keeps that shape but computes the bound from
// forecast residuals rather than raw measurements, and returns an annotated
// copy of the series (data_indexes.anomaly) instead of splitting it into two.
package anomaly

import (
	"math"

	"github.com/usefulrisk/timeseria"
	"github.com/usefulrisk/timeseria/internal/tsstats"
)

// defaultK is the default threshold multiplier (spec §4.G default k=3).
const defaultK = 3.0

// Forecaster is the minimal capability the detector needs: one-step-ahead
// prediction from a given index.
type Forecaster interface {
	Predict(s *timeseria.Series[timeseria.DataTimePoint], n int, fromIndex int) (*timeseria.Series[timeseria.DataTimePoint], error)
}

// Detector wraps a fitted Forecaster with the Normal(mu, sigma) it fit
// over that forecaster's residuals on a reference series.
type Detector struct {
	forecaster Forecaster
	window     int
	mu         float64
	sigma      float64
	k          float64
	fitted     bool
}

// New builds an unfitted detector around forecaster, using window as the
// minimum lookback before the first evaluable point (i > window) and k as
// the threshold multiplier (0 defaults to 3).
func New(forecaster Forecaster, window int, k float64) *Detector {
	if k == 0 {
		k = defaultK
	}
	return &Detector{forecaster: forecaster, window: window, k: k}
}

// Fit computes residuals r_i = |actual_i - predicted_i| for i > window and
// fits Normal(mu, sigma) over them (spec §4.G steps 1-2).
func (d *Detector) Fit(s *timeseria.Series[timeseria.DataTimePoint]) error {
	if s.Len() <= d.window {
		return timeseria.ErrInsufficientData
	}

	elements := s.Elements()
	var residuals []float64
	for i := d.window + 1; i < len(elements); i++ {
		forecast, err := d.forecaster.Predict(s, 1, i-1)
		if err != nil {
			return err
		}
		if forecast.Len() != 1 {
			continue
		}
		predicted, _ := forecast.At(0).Data.Get("0")
		actual, _ := elements[i].Data.Get("0")
		residuals = append(residuals, math.Abs(actual-predicted))
	}
	if len(residuals) == 0 {
		return timeseria.ErrInsufficientData
	}

	mean, err := tsstats.Mean(residuals)
	if err != nil {
		return err
	}
	sigma := 0.0
	if len(residuals) >= 2 {
		sigma, err = tsstats.PopStdDev(residuals)
		if err != nil {
			return err
		}
	}

	d.mu = mean
	d.sigma = sigma
	d.fitted = true
	return nil
}

// Threshold returns sigma * k, the absolute-residual cutoff above which a
// point is flagged anomalous.
func (d *Detector) Threshold() float64 { return d.sigma * d.k }

// Apply implements spec §4.G step 4: returns a new series (the input is
// never mutated in place) with data_indexes.anomaly set to 1 where the
// one-step-ahead residual exceeds Threshold(), else 0. When details is
// true, every element's data is rewritten as a mapping carrying its
// original labels plus "predicted" and "AE", uniformly across the series.
func (d *Detector) Apply(s *timeseria.Series[timeseria.DataTimePoint], details bool) (*timeseria.Series[timeseria.DataTimePoint], error) {
	if !d.fitted {
		return nil, timeseria.ErrNotFitted
	}

	out, err := timeseria.NewSeries[timeseria.DataTimePoint]()
	if err != nil {
		return nil, err
	}

	elements := s.Elements()
	threshold := d.Threshold()

	for i, e := range elements {
		dup := e
		dup.Data = e.Data.Clone()
		dup.Indexes = e.Indexes

		predicted, hasForecast := 0.0, false
		if i > d.window {
			forecast, perr := d.forecaster.Predict(s, 1, i-1)
			if perr != nil {
				return nil, perr
			}
			if forecast.Len() == 1 {
				predicted, _ = forecast.At(0).Data.Get("0")
				hasForecast = true
			}
		}

		residual := 0.0
		if hasForecast {
			actual, _ := e.Data.Get("0")
			residual = math.Abs(actual - predicted)
		}
		dup.Indexes.SetAnomaly(hasForecast && residual > threshold)

		// Every element gets the same treatment regardless of hasForecast
		// so the series keeps a uniform data shape (I3): positions without
		// a forecast (inside the window, or a short tail prediction) get
		// predicted=0, AE=0 rather than being left with a differently
		// shaped payload.
		if details {
			dup.Data = withDetails(dup.Data, predicted, residual)
		}

		if err := out.Append(dup); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// withDetails builds a mapping payload carrying every label of the
// original data plus "predicted" and "AE", so the whole output series
// gains the same two extra labels uniformly (required by I3).
func withDetails(original timeseria.Data, predicted, ae float64) timeseria.Data {
	m := make(map[string]float64, len(original.Labels())+2)
	for _, label := range original.Labels() {
		v, _ := original.Get(label)
		m[label] = v
	}
	m["predicted"] = predicted
	m["AE"] = ae
	return timeseria.NewMappingData(m)
}
