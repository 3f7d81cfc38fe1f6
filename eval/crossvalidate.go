package eval

import (
	"math"

	"github.com/usefulrisk/timeseria"
	"github.com/usefulrisk/timeseria/internal/tsstats"
)

// FitFunc fits a fresh Forecaster on a training fold.
type FitFunc func(train *timeseria.Series[timeseria.DataTimePoint]) (Forecaster, error)

// CrossValidateOptions configures CrossValidate.
type CrossValidateOptions struct {
	Rounds   int
	Evaluate Options
}

// CrossValidateResult holds, per metric, the mean and sample standard
// deviation across rounds.
type CrossValidateResult struct {
	Mean   map[Metric]float64
	Stddev map[Metric]float64
}

// CrossValidate implements spec §4.F cross_validate: partition s into
// equal contiguous index folds, fit on everything but fold i, evaluate on
// fold i, and aggregate mean/stddev per metric across rounds. A round in
// which any step has fewer than two evaluable anchors fails with
// ErrInsufficientData.
func CrossValidate(fit FitFunc, s *timeseria.Series[timeseria.DataTimePoint], opt CrossValidateOptions) (CrossValidateResult, error) {
	rounds := opt.Rounds
	if rounds <= 0 {
		rounds = 10
	}
	n := s.Len()
	if n == 0 {
		return CrossValidateResult{}, timeseria.ErrEmptySeries
	}
	if rounds > n {
		rounds = n
	}

	foldSize := n / rounds
	if foldSize == 0 {
		foldSize = 1
	}

	metricSamples := map[Metric][]float64{}

	for i := 0; i < rounds; i++ {
		lo := i * foldSize
		hi := lo + foldSize
		if i == rounds-1 {
			hi = n
		}
		if hi <= lo {
			continue
		}

		train, err := excludeFold(s, lo, hi)
		if err != nil {
			return CrossValidateResult{}, err
		}
		fold, err := s.SliceIndex(lo, hi)
		if err != nil {
			return CrossValidateResult{}, err
		}
		if fold.Len() < 2 {
			return CrossValidateResult{}, timeseria.ErrInsufficientData
		}

		forecaster, err := fit(train)
		if err != nil {
			return CrossValidateResult{}, err
		}

		evalOpt := opt.Evaluate
		evalOpt.Details = true
		result, err := Evaluate(forecaster, fold, evalOpt)
		if err != nil {
			return CrossValidateResult{}, err
		}
		for _, step := range result.PerStep {
			if step.Anchors < 2 {
				return CrossValidateResult{}, timeseria.ErrInsufficientData
			}
		}
		for metric, v := range result.Overall {
			if !math.IsNaN(v) {
				metricSamples[metric] = append(metricSamples[metric], v)
			}
		}
	}

	out := CrossValidateResult{Mean: map[Metric]float64{}, Stddev: map[Metric]float64{}}
	for metric, samples := range metricSamples {
		if len(samples) == 0 {
			continue
		}
		mean, err := tsstats.Mean(samples)
		if err != nil {
			return CrossValidateResult{}, err
		}
		out.Mean[metric] = mean
		if len(samples) < 2 {
			out.Stddev[metric] = 0
			continue
		}
		sd, err := tsstats.StdDev(samples)
		if err != nil {
			return CrossValidateResult{}, err
		}
		out.Stddev[metric] = sd
	}
	return out, nil
}

// excludeFold returns s with the [lo, hi) index range removed, by
// concatenating the two surrounding slices.
func excludeFold(s *timeseria.Series[timeseria.DataTimePoint], lo, hi int) (*timeseria.Series[timeseria.DataTimePoint], error) {
	out, err := timeseria.NewSeries[timeseria.DataTimePoint]()
	if err != nil {
		return nil, err
	}
	for i, e := range s.Elements() {
		if i >= lo && i < hi {
			continue
		}
		if err := out.Append(e); err != nil {
			return nil, err
		}
	}
	return out, nil
}
