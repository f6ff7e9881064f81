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
	"math/rand"
	"sort"

	"github.com/SalouaDaouki/Data612Summer25/dataset"
	"github.com/chewxy/math32"
)

// Rated is one revealed rating of a user profile.
type Rated struct {
	ItemId string
	Rating float32
}

// Model is a recommender fitted on a train set. A fitted model predicts the
// rating of a (user, item) pair and produces a ranked top-N list against a
// revealed user profile.
type Model interface {
	SetParams(params Params)
	GetParams() Params
	// Fit trains the model on a train set.
	Fit(ctx context.Context, trainSet *dataset.Dataset, config *FitConfig) error
	// Predict returns the predicted rating of a (user, item) pair, or NaN
	// when the model cannot score the pair.
	Predict(userId, itemId string) float32
	// Recommend returns a ranked list of at most n items for a user,
	// excluding the items of the known profile. A user the model cannot
	// score receives an empty list, never an error.
	Recommend(userId string, known []Rated, n int) []string
}

type FitConfig struct {
	Jobs    int
	Verbose int
}

func NewFitConfig() *FitConfig {
	return &FitConfig{
		Jobs:    1,
		Verbose: 10,
	}
}

func (config *FitConfig) SetJobs(jobs int) *FitConfig {
	config.Jobs = jobs
	return config
}

func (config *FitConfig) LoadDefaultIfNil() *FitConfig {
	if config == nil {
		return NewFitConfig()
	}
	return config
}

// BaseModel hosts hyper-parameters and the seeded random generator shared by
// all models. The seed comes from the RandomState parameter, never from
// process-global random state.
type BaseModel struct {
	Params    Params
	rng       *rand.Rand
	randState int64
}

func (b *BaseModel) SetParams(params Params) {
	b.Params = params
	b.randState = params.GetInt64(RandomState, 0)
}

func (b *BaseModel) GetParams() Params {
	return b.Params
}

// Init resets the random generator before fitting.
func (b *BaseModel) Init() {
	b.rng = rand.New(rand.NewSource(b.randState))
}

// rankCandidates scores every item of the dictionary not present in the
// known profile and returns the ids of the n best. NaN scores mark items the
// model cannot recommend. Ties break on dense item index, which makes
// rankings deterministic.
func rankCandidates(itemDict *dataset.FreqDict, known []Rated, n int, score func(itemIndex int) float32) []string {
	excluded := make(map[int]struct{}, len(known))
	for _, r := range known {
		if itemIndex := itemDict.Index(r.ItemId); itemIndex != dataset.NotId {
			excluded[itemIndex] = struct{}{}
		}
	}
	type scored struct {
		itemIndex int
		score     float32
	}
	candidates := make([]scored, 0, itemDict.Count())
	for itemIndex := 0; itemIndex < itemDict.Count(); itemIndex++ {
		if _, exist := excluded[itemIndex]; exist {
			continue
		}
		s := score(itemIndex)
		if math32.IsNaN(s) {
			continue
		}
		candidates = append(candidates, scored{itemIndex, s})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].itemIndex < candidates[j].itemIndex
	})
	if n > len(candidates) {
		n = len(candidates)
	}
	rankList := make([]string, 0, n)
	for _, c := range candidates[:n] {
		itemId, _ := itemDict.String(c.itemIndex)
		rankList = append(rankList, itemId)
	}
	return rankList
}
