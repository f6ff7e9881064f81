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

package split

import (
	"math/rand"

	"github.com/SalouaDaouki/Data612Summer25/dataset"
)

// AllButOne reveals all ratings of an evaluation user except one.
const AllButOne = -1

// Scheme is one evaluation fold. Train holds the ratings used to fit a model,
// Known the ratings revealed to the model at prediction time and Unknown the
// withheld ground truth. All three share the dictionaries of the source
// dataset, so dense indices are aligned across them.
//
// Invariants: Known and Unknown are disjoint per user, every rating of an
// evaluation user lands in exactly one of the two, and every user present in
// Unknown also has entries in Train.
type Scheme struct {
	Train   *dataset.Dataset
	Known   *dataset.Dataset
	Unknown *dataset.Dataset
}

// Splitter partitions a dataset into evaluation folds. The seed is explicit:
// two calls with the same dataset and seed produce identical folds.
type Splitter func(data *dataset.Dataset, seed int64) []Scheme

// splitUsers distributes the ratings of evaluation users between known and
// unknown. The first `given` ratings of a shuffled profile are revealed and
// also added to the train set; the rest are withheld. Users with no more
// ratings than `given` requires keep everything in known and contribute an
// empty unknown set, which downstream metrics must tolerate.
func splitUser(rng *rand.Rand, scheme *Scheme, data *dataset.Dataset, userIndex int32, given int) {
	ratings := data.UserRatingsByIndex(userIndex)
	if len(ratings) == 0 {
		return
	}
	reveal := given
	if given == AllButOne {
		reveal = len(ratings) - 1
	} else if reveal < 1 {
		reveal = 1
	}
	if reveal > len(ratings) {
		reveal = len(ratings)
	}
	if reveal == 0 {
		// A single rating cannot be both revealed and withheld. Keep it in
		// train so the user never appears in unknown without train entries.
		scheme.Train.AddIndex(userIndex, ratings[0].A, ratings[0].B)
		scheme.Known.AddIndex(userIndex, ratings[0].A, ratings[0].B)
		return
	}
	perm := rng.Perm(len(ratings))
	for i, p := range perm {
		r := ratings[p]
		if i < reveal {
			scheme.Train.AddIndex(userIndex, r.A, r.B)
			scheme.Known.AddIndex(userIndex, r.A, r.B)
		} else {
			scheme.Unknown.AddIndex(userIndex, r.A, r.B)
		}
	}
}

func newScheme(data *dataset.Dataset) Scheme {
	return Scheme{
		Train:   data.Empty(),
		Known:   data.Empty(),
		Unknown: data.Empty(),
	}
}

// NewRatioSplitter splits users into a training set and an evaluation set.
// All ratings of training users go to the train set. Evaluation users reveal
// `given` ratings (or all but one for AllButOne) as known and withhold the
// rest as unknown. The split is repeated `repeat` times.
func NewRatioSplitter(repeat int, trainRatio float64, given int) Splitter {
	return func(data *dataset.Dataset, seed int64) []Scheme {
		rng := rand.New(rand.NewSource(seed))
		schemes := make([]Scheme, repeat)
		for i := 0; i < repeat; i++ {
			scheme := newScheme(data)
			perm := rng.Perm(data.UserCount())
			trainSize := int(float64(data.UserCount()) * trainRatio)
			for _, u := range perm[:trainSize] {
				for _, r := range data.UserRatingsByIndex(int32(u)) {
					scheme.Train.AddIndex(int32(u), r.A, r.B)
				}
			}
			for _, u := range perm[trainSize:] {
				splitUser(rng, &scheme, data, int32(u), given)
			}
			schemes[i] = scheme
		}
		return schemes
	}
}

// NewKFoldSplitter creates a k-fold cross-validation splitter over users.
// Each fold evaluates one chunk of users and trains on the ratings of all
// others plus the revealed ratings of the evaluated chunk.
func NewKFoldSplitter(k, given int) Splitter {
	return func(data *dataset.Dataset, seed int64) []Scheme {
		rng := rand.New(rand.NewSource(seed))
		perm := rng.Perm(data.UserCount())
		schemes := make([]Scheme, k)
		foldSize := data.UserCount() / k
		begin, end := 0, 0
		for i := 0; i < k; i++ {
			end += foldSize
			if i < data.UserCount()%k {
				end++
			}
			scheme := newScheme(data)
			for _, u := range perm[:begin] {
				for _, r := range data.UserRatingsByIndex(int32(u)) {
					scheme.Train.AddIndex(int32(u), r.A, r.B)
				}
			}
			for _, u := range perm[end:] {
				for _, r := range data.UserRatingsByIndex(int32(u)) {
					scheme.Train.AddIndex(int32(u), r.A, r.B)
				}
			}
			for _, u := range perm[begin:end] {
				splitUser(rng, &scheme, data, int32(u), given)
			}
			schemes[i] = scheme
			begin = end
		}
		return schemes
	}
}

// NewLeaveOneOutSplitter withholds exactly one random rating per user as
// ground truth and reveals the rest. Users with a single rating keep it in
// the train set and are not evaluated.
func NewLeaveOneOutSplitter(repeat int) Splitter {
	return func(data *dataset.Dataset, seed int64) []Scheme {
		rng := rand.New(rand.NewSource(seed))
		schemes := make([]Scheme, repeat)
		for i := 0; i < repeat; i++ {
			scheme := newScheme(data)
			for u := 0; u < data.UserCount(); u++ {
				splitUser(rng, &scheme, data, int32(u), AllButOne)
			}
			schemes[i] = scheme
		}
		return schemes
	}
}
