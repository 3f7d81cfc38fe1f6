// Package eval implements the evaluation and cross-validation harness
// (spec §4.F): slide a window of forecaster calls over a series, compare
// against ground truth, and aggregate RMSE/MAE/MAPE.
//
// Grounded on aouyang1/go-forecaster's forecast/forecast.go, which
// computes residual-based scores via gonum.org/v1/gonum/stat; this
// package reuses that stats-via-gonum idiom for the metric aggregation
// step while implementing the sliding-window/fold harness itself, which
// has no analogue in the teacher repo (a pure container library with no
// evaluation layer at all).
package eval

import (
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/usefulrisk/timeseria"
)

// Metric identifies a requested score.
type Metric string

const (
	RMSE Metric = "RMSE"
	MAE  Metric = "MAE"
	MAPE Metric = "MAPE"
)

// Forecaster is the minimal capability evaluate needs: predict n steps
// past fromIndex.
type Forecaster interface {
	Predict(s *timeseria.Series[timeseria.DataTimePoint], n int, fromIndex int) (*timeseria.Series[timeseria.DataTimePoint], error)
}

// Options configures Evaluate.
type Options struct {
	Steps   []int
	Limit   int
	Metrics []Metric
	Window  int
	Details bool
	Logger  *zap.SugaredLogger
}

func (o Options) logger() *zap.SugaredLogger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop().Sugar()
}

// StepScores holds the metric values for one forecast horizon.
type StepScores struct {
	Step    int
	Scores  map[Metric]float64
	Anchors int
}

// Result is Evaluate's return value: optional per-step detail plus the
// overall average across steps.
type Result struct {
	PerStep []StepScores
	Overall map[Metric]float64
}

// Evaluate implements spec §4.F: for each requested step k, slide a
// window over s, forecasting k steps ahead from each anchor with enough
// left-context, and accumulate absolute/squared/percentage errors against
// the true values.
func Evaluate(f Forecaster, s *timeseria.Series[timeseria.DataTimePoint], opt Options) (Result, error) {
	if s.Len() == 0 {
		return Result{}, timeseria.ErrEmptySeries
	}

	steps := opt.Steps
	if len(steps) == 0 {
		steps = []int{1, 2, 3}
	}
	metrics := opt.Metrics
	if len(metrics) == 0 {
		metrics = []Metric{RMSE, MAE, MAPE}
	}
	window := opt.Window
	if window <= 0 {
		window = 1
	}

	elements := s.Elements()
	result := Result{Overall: map[Metric]float64{}}
	overallErrs := map[Metric][]float64{}

	for _, k := range steps {
		var actual, predicted []float64
		anchors := 0
		for i := window; i+k <= len(elements); i++ {
			if opt.Limit > 0 && anchors >= opt.Limit {
				break
			}
			forecast, err := f.Predict(s, k, i-1)
			if err != nil {
				return Result{}, err
			}
			if forecast.Len() != k {
				continue
			}
			clean := true
			for j := 0; j < k; j++ {
				if elements[i+j].Indexes.Loss() > 0 {
					clean = false
					break
				}
			}
			if !clean {
				continue
			}
			for j := 0; j < k; j++ {
				a, _ := elements[i+j].Data.Get("0")
				p, _ := forecast.At(j).Data.Get("0")
				actual = append(actual, a)
				predicted = append(predicted, p)
			}
			anchors++
		}

		if anchors == 0 {
			opt.logger().Warnw("no evaluable anchors for step", "step", k)
		} else if opt.Limit > 0 && anchors < opt.Limit {
			opt.logger().Warnw("fewer anchors available than limit", "step", k, "anchors", anchors, "limit", opt.Limit)
		}

		scores := computeMetrics(actual, predicted, metrics)
		result.PerStep = append(result.PerStep, StepScores{Step: k, Scores: scores, Anchors: anchors})
		for _, m := range metrics {
			overallErrs[m] = append(overallErrs[m], scores[m])
		}
	}

	for _, m := range metrics {
		vals := overallErrs[m]
		if len(vals) == 0 {
			continue
		}
		result.Overall[m] = stat.Mean(vals, nil)
	}

	if !opt.Details {
		result.PerStep = nil
	}
	return result, nil
}

func computeMetrics(actual, predicted []float64, metrics []Metric) map[Metric]float64 {
	out := map[Metric]float64{}
	if len(actual) == 0 {
		for _, m := range metrics {
			out[m] = math.NaN()
		}
		return out
	}
	for _, m := range metrics {
		switch m {
		case RMSE:
			out[m] = rmse(actual, predicted)
		case MAE:
			out[m] = mae(actual, predicted)
		case MAPE:
			out[m] = mape(actual, predicted)
		}
	}
	return out
}

func rmse(actual, predicted []float64) float64 {
	sqErrs := make([]float64, len(actual))
	for i := range actual {
		d := actual[i] - predicted[i]
		sqErrs[i] = d * d
	}
	return math.Sqrt(stat.Mean(sqErrs, nil))
}

func mae(actual, predicted []float64) float64 {
	absErrs := make([]float64, len(actual))
	for i := range actual {
		absErrs[i] = math.Abs(actual[i] - predicted[i])
	}
	return stat.Mean(absErrs, nil)
}

func mape(actual, predicted []float64) float64 {
	pctErrs := make([]float64, 0, len(actual))
	for i := range actual {
		if actual[i] == 0 {
			continue
		}
		pctErrs = append(pctErrs, math.Abs((actual[i]-predicted[i])/actual[i]))
	}
	if len(pctErrs) == 0 {
		return 0
	}
	return stat.Mean(pctErrs, nil) * 100
}
