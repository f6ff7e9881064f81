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

package model

import (
	"context"
	"sort"

	"github.com/SalouaDaouki/Data612Summer25/dataset"
	"github.com/chewxy/math32"
	"github.com/juju/errors"
)

// Hybrid blends two fitted models. Rating predictions are the weighted mean
// of the member predictions, top-N lists are merged by weighted Borda count
// over the member rankings. Params:
//
//	Weight - The weight of the first model in [0, 1]. Default is 0.5.
type Hybrid struct {
	BaseModel
	first     Model
	second    Model
	weight    float32
	itemCount int
}

func NewHybrid(first, second Model, params Params) *Hybrid {
	h := &Hybrid{first: first, second: second}
	h.SetParams(params)
	return h
}

func (h *Hybrid) SetParams(params Params) {
	h.BaseModel.SetParams(params)
	h.weight = params.GetFloat32(Weight, 0.5)
}

func (h *Hybrid) Fit(ctx context.Context, trainSet *dataset.Dataset, config *FitConfig) error {
	h.itemCount = trainSet.ItemCount()
	if err := h.first.Fit(ctx, trainSet, config); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(h.second.Fit(ctx, trainSet, config))
}

// Predict averages the member predictions by weight. A member returning NaN
// drops out of the average; NaN from both members is NaN.
func (h *Hybrid) Predict(userId, itemId string) float32 {
	a := h.first.Predict(userId, itemId)
	b := h.second.Predict(userId, itemId)
	switch {
	case math32.IsNaN(a) && math32.IsNaN(b):
		return math32.NaN()
	case math32.IsNaN(a):
		return b
	case math32.IsNaN(b):
		return a
	default:
		return h.weight*a + (1-h.weight)*b
	}
}

func (h *Hybrid) Recommend(userId string, known []Rated, n int) []string {
	// Pull full rankings from both members so that Borda positions are
	// comparable.
	depth := h.itemCount
	rankA := h.first.Recommend(userId, known, depth)
	rankB := h.second.Recommend(userId, known, depth)
	if len(rankA) == 0 && len(rankB) == 0 {
		return nil
	}
	scores := make(map[string]float32)
	for pos, itemId := range rankA {
		scores[itemId] += h.weight * float32(depth-pos)
	}
	for pos, itemId := range rankB {
		scores[itemId] += (1 - h.weight) * float32(depth-pos)
	}
	merged := make([]string, 0, len(scores))
	for itemId := range scores {
		merged = append(merged, itemId)
	}
	sort.Slice(merged, func(i, j int) bool {
		if scores[merged[i]] != scores[merged[j]] {
			return scores[merged[i]] > scores[merged[j]]
		}
		return merged[i] < merged[j]
	})
	if n > len(merged) {
		n = len(merged)
	}
	return merged[:n]
}
