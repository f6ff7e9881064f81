// Copyright 2025 Data612 Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package eval

import (
	"context"
	"math"

	"github.com/SalouaDaouki/Data612Summer25/dataset"
	"github.com/SalouaDaouki/Data612Summer25/model"
	"github.com/SalouaDaouki/Data612Summer25/split"
	"github.com/juju/errors"
	"gonum.org/v1/gonum/stat"
)

// CrossValidateResult holds per-fold metrics of one cross-validation run.
type CrossValidateResult struct {
	Folds []Result
}

// CrossValidate refits a model on every fold produced by the splitter and
// evaluates it. The seed fixes the folds: the same data, splitter and seed
// reproduce the same result for deterministic models.
func CrossValidate(ctx context.Context, m model.Model, data *dataset.Dataset, splitter split.Splitter,
	seed int64, fitConfig *model.FitConfig, opts *Options) (CrossValidateResult, error) {
	var cv CrossValidateResult
	for _, scheme := range splitter(data, seed) {
		if err := m.Fit(ctx, scheme.Train, fitConfig); err != nil {
			return CrossValidateResult{}, errors.Trace(err)
		}
		result, err := Evaluate(ctx, m, scheme, opts)
		if err != nil {
			return CrossValidateResult{}, errors.Trace(err)
		}
		cv.Folds = append(cv.Folds, result)
	}
	return cv, nil
}

// MeanAndMargin aggregates one metric over folds: the mean of the defined
// fold values and the half-width of the 95% confidence interval. Folds where
// the metric is NaN are skipped; with no defined fold both returns are NaN.
func (cv CrossValidateResult) MeanAndMargin(metric func(Result) float64) (mean, margin float64) {
	values := make([]float64, 0, len(cv.Folds))
	for _, fold := range cv.Folds {
		if v := metric(fold); !math.IsNaN(v) {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return math.NaN(), math.NaN()
	}
	mean = stat.Mean(values, nil)
	if len(values) == 1 {
		return mean, 0
	}
	margin = 1.96 * stat.StdDev(values, nil) / math.Sqrt(float64(len(values)))
	return mean, margin
}
