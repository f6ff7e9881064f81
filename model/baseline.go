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
	"sync"
	"time"

	"github.com/SalouaDaouki/Data612Summer25/base/log"
	"github.com/SalouaDaouki/Data612Summer25/dataset"
	"github.com/chewxy/math32"
	"go.uber.org/zap"
)

// Popular ranks items by the number of ratings they received in the train
// set. Rating predictions fall back to the item mean.
type Popular struct {
	BaseModel
	itemDict   *dataset.FreqDict
	counts     []float32
	itemMeans  []float32
	globalMean float32
}

func NewPopular(params Params) *Popular {
	p := new(Popular)
	p.SetParams(params)
	return p
}

func (p *Popular) Fit(_ context.Context, trainSet *dataset.Dataset, _ *FitConfig) error {
	start := time.Now()
	p.Init()
	p.itemDict = trainSet.ItemDict()
	p.counts = make([]float32, trainSet.ItemCount())
	p.itemMeans = make([]float32, trainSet.ItemCount())
	p.globalMean = trainSet.Mean()
	for itemIndex, ratings := range trainSet.ItemRatings() {
		p.counts[itemIndex] = float32(len(ratings))
		sum := float32(0)
		for _, r := range ratings {
			sum += r.B
		}
		if len(ratings) > 0 {
			p.itemMeans[itemIndex] = sum / float32(len(ratings))
		} else {
			p.itemMeans[itemIndex] = p.globalMean
		}
	}
	log.Logger().Debug("fit popular complete", zap.Duration("fit_time", time.Since(start)))
	return nil
}

func (p *Popular) Predict(_, itemId string) float32 {
	itemIndex := p.itemDict.Index(itemId)
	if itemIndex == dataset.NotId {
		return math32.NaN()
	}
	return p.itemMeans[itemIndex]
}

func (p *Popular) Recommend(_ string, known []Rated, n int) []string {
	return rankCandidates(p.itemDict, known, n, func(itemIndex int) float32 {
		return p.counts[itemIndex]
	})
}

// Random ranks items uniformly at random and predicts ratings drawn from
// N(mean, stddev) of the train set, clamped to the observed rating range.
// The generator is seeded by the RandomState parameter.
type Random struct {
	BaseModel
	mu       sync.Mutex
	itemDict *dataset.FreqDict
	mean     float32
	stdDev   float32
	low      float32
	high     float32
}

func NewRandom(params Params) *Random {
	r := new(Random)
	r.SetParams(params)
	return r
}

func (r *Random) Fit(_ context.Context, trainSet *dataset.Dataset, _ *FitConfig) error {
	r.Init()
	r.itemDict = trainSet.ItemDict()
	r.mean = trainSet.Mean()
	r.stdDev = trainSet.StdDev()
	r.low = trainSet.Min()
	r.high = trainSet.Max()
	return nil
}

func (r *Random) Predict(_, itemId string) float32 {
	if r.itemDict.Index(itemId) == dataset.NotId {
		return math32.NaN()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ret := float32(r.rng.NormFloat64())*r.stdDev + r.mean
	// Crop prediction
	if ret < r.low {
		ret = r.low
	} else if ret > r.high {
		ret = r.high
	}
	return ret
}

func (r *Random) Recommend(_ string, known []Rated, n int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return rankCandidates(r.itemDict, known, n, func(int) float32 {
		return r.rng.Float32()
	})
}
