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
	"fmt"
	"math"
	"testing"

	"github.com/SalouaDaouki/Data612Summer25/dataset"
	"github.com/SalouaDaouki/Data612Summer25/model"
	"github.com/SalouaDaouki/Data612Summer25/split"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func evalDataset() *dataset.Dataset {
	d := dataset.NewDataset()
	for u := 0; u < 12; u++ {
		for i := 0; i < 10; i++ {
			if (u+i)%3 == 0 {
				continue // keep the matrix sparse
			}
			d.Add(fmt.Sprintf("u%d", u), fmt.Sprintf("i%d", i), float32(1+(u*i)%5))
		}
	}
	return d
}

func TestEvaluate(t *testing.T) {
	data := evalDataset()
	scheme := split.NewRatioSplitter(1, 0.5, 2)(data, 42)[0]
	m := model.NewPopular(nil)
	assert.NoError(t, m.Fit(context.Background(), scheme.Train, nil))
	opts := NewOptions()
	opts.TopN = 5
	result, err := Evaluate(context.Background(), m, scheme, opts)
	assert.NoError(t, err)
	for name, value := range map[string]float64{
		"Precision":   result.Precision,
		"Recall":      result.Recall,
		"Novelty":     result.Novelty,
		"Diversity":   result.Diversity,
		"Serendipity": result.Serendipity,
	} {
		assert.False(t, math.IsNaN(value), name)
		assert.GreaterOrEqual(t, value, 0.0, name)
		assert.LessOrEqual(t, value, 1.0, name)
	}
	assert.GreaterOrEqual(t, result.RMSE, result.MAE)
	// pure function: a second run over the same fitted model matches
	again, err := Evaluate(context.Background(), m, scheme, opts)
	assert.NoError(t, err)
	assert.Equal(t, result, again)
}

// alienModel recommends identifiers outside the train catalog.
type alienModel struct{}

func (alienModel) SetParams(model.Params) {}

func (alienModel) GetParams() model.Params {
	return nil
}

func (alienModel) Fit(context.Context, *dataset.Dataset, *model.FitConfig) error {
	return nil
}

func (alienModel) Predict(_, _ string) float32 {
	return 3
}

func (alienModel) Recommend(string, []model.Rated, int) []string {
	return []string{"alien"}
}

func TestEvaluateAlignment(t *testing.T) {
	data := evalDataset()
	scheme := split.NewRatioSplitter(1, 0.5, 2)(data, 42)[0]
	_, err := Evaluate(context.Background(), alienModel{}, scheme, nil)
	assert.True(t, errors.IsNotValid(errors.Cause(err)))
}

func TestCrossValidate(t *testing.T) {
	data := evalDataset()
	m := model.NewPopular(nil)
	cv, err := CrossValidate(context.Background(), m, data, split.NewKFoldSplitter(3, 2), 0, nil, nil)
	assert.NoError(t, err)
	assert.Len(t, cv.Folds, 3)
	mean, margin := cv.MeanAndMargin(func(r Result) float64 { return r.Precision })
	assert.False(t, math.IsNaN(mean))
	assert.GreaterOrEqual(t, margin, 0.0)
}

func TestCrossValidateDegenerate(t *testing.T) {
	data := evalDataset()
	m := model.NewPopular(nil)
	opts := NewOptions()
	opts.TopN = 1 // single-item lists leave diversity undefined everywhere
	cv, err := CrossValidate(context.Background(), m, data, split.NewKFoldSplitter(3, 2), 0, nil, opts)
	assert.NoError(t, err)
	mean, margin := cv.MeanAndMargin(func(r Result) float64 { return r.Diversity })
	assert.True(t, math.IsNaN(mean))
	assert.True(t, math.IsNaN(margin))
}
