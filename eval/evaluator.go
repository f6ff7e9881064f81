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
	"sort"
	"time"

	"github.com/SalouaDaouki/Data612Summer25/base/log"
	"github.com/SalouaDaouki/Data612Summer25/common/parallel"
	"github.com/SalouaDaouki/Data612Summer25/dataset"
	"github.com/SalouaDaouki/Data612Summer25/model"
	"github.com/SalouaDaouki/Data612Summer25/split"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Options controls one evaluation run.
type Options struct {
	// TopN is the recommendation list length.
	TopN int
	// GoodThreshold labels unknown ratings at or above it as relevant for
	// hit-style metrics. Zero disables the threshold and every withheld
	// rating counts as relevant.
	GoodThreshold float32
	// UnpopularQuantile is the popularity-count quantile above which items
	// stop counting as serendipitous.
	UnpopularQuantile float64
	// Jobs bounds per-user parallelism.
	Jobs int
}

func NewOptions() *Options {
	return &Options{
		TopN:              10,
		UnpopularQuantile: 0.9,
		Jobs:              1,
	}
}

func (opts *Options) LoadDefaultIfNil() *Options {
	if opts == nil {
		return NewOptions()
	}
	return opts
}

// Result carries the aggregate metrics of one fold. A NaN value means the
// metric was undefined for every user of the fold.
type Result struct {
	Precision   float64
	Recall      float64
	RMSE        float64
	MAE         float64
	Novelty     float64
	Diversity   float64
	Serendipity float64
}

// Evaluate walks a fitted model over one evaluation fold: it collects a
// top-N list and rating predictions per evaluation user, derives popularity,
// similarity and the unpopular set from the train matrix, and aggregates the
// metrics. Recommended item identifiers are checked against the train
// catalog before any metric is computed.
func Evaluate(ctx context.Context, m model.Model, scheme split.Scheme, opts *Options) (Result, error) {
	opts = opts.LoadDefaultIfNil()
	start := time.Now()
	userDict := scheme.Train.UserDict()
	userIndices := evaluationUsers(scheme)

	type userEval struct {
		userId    string
		top       []string
		predicted Ratings
		actual    Ratings
		relevant  mapset.Set[string]
	}
	evals := make([]userEval, len(userIndices))
	err := parallel.Parallel(ctx, len(userIndices), opts.Jobs, func(_, job int) error {
		userIndex := userIndices[job]
		userId, _ := userDict.String(int(userIndex))
		known := make([]model.Rated, 0, len(scheme.Known.UserRatingsByIndex(userIndex)))
		for _, r := range scheme.Known.UserRatingsByIndex(userIndex) {
			itemId, _ := scheme.Train.ItemDict().String(int(r.A))
			known = append(known, model.Rated{ItemId: itemId, Rating: r.B})
		}
		e := userEval{
			userId:    userId,
			top:       m.Recommend(userId, known, opts.TopN),
			predicted: make(Ratings),
			actual:    make(Ratings),
			relevant:  mapset.NewThreadUnsafeSet[string](),
		}
		for _, r := range scheme.Unknown.UserRatingsByIndex(userIndex) {
			itemId, _ := scheme.Train.ItemDict().String(int(r.A))
			pair := Pair{A: userId, B: itemId}
			e.actual[pair] = float64(r.B)
			e.predicted[pair] = float64(m.Predict(userId, itemId))
			if opts.GoodThreshold == 0 || r.B >= opts.GoodThreshold {
				e.relevant.Add(itemId)
			}
		}
		evals[job] = e
		return nil
	})
	if err != nil {
		return Result{}, errors.Trace(err)
	}

	recommended := make(TopList, len(evals))
	relevant := make(Relevance, len(evals))
	predicted := make(Ratings)
	actual := make(Ratings)
	itemDict := scheme.Train.ItemDict()
	for _, e := range evals {
		for _, itemId := range e.top {
			if itemDict.Index(itemId) == dataset.NotId {
				return Result{}, errors.NotValidf("recommended item %q outside the train catalog", itemId)
			}
		}
		recommended[e.userId] = e.top
		relevant[e.userId] = e.relevant
		for pair, rating := range e.predicted {
			predicted[pair] = rating
		}
		for pair, rating := range e.actual {
			actual[pair] = rating
		}
	}

	popularity := scheme.Train.Popularity()
	similarity := dataset.JaccardSimilarity(scheme.Train, opts.Jobs)
	unpopular := scheme.Train.UnpopularItems(opts.UnpopularQuantile)

	var result Result
	result.Precision, result.Recall = PrecisionRecall(recommended, relevant, opts.TopN)
	result.RMSE, result.MAE = RatingError(predicted, actual)
	if result.Novelty, err = Novelty(recommended, popularity); err != nil {
		return Result{}, errors.Trace(err)
	}
	if result.Diversity, err = Diversity(recommended, similarity); err != nil {
		return Result{}, errors.Trace(err)
	}
	result.Serendipity = Serendipity(recommended, relevant, unpopular)
	log.Logger().Debug("evaluate complete",
		zap.Int("eval_users", len(userIndices)),
		zap.Duration("eval_time", time.Since(start)))
	return result, nil
}

// evaluationUsers lists the users carrying known or unknown ratings in a
// fold, ordered by dense index.
func evaluationUsers(scheme split.Scheme) []int32 {
	seen := mapset.NewThreadUnsafeSet[int32]()
	collect := func(ratings [][]lo.Tuple2[int32, float32]) {
		for userIndex, profile := range ratings {
			if len(profile) > 0 {
				seen.Add(int32(userIndex))
			}
		}
	}
	collect(scheme.Known.UserRatings())
	collect(scheme.Unknown.UserRatings())
	users := seen.ToSlice()
	// deterministic iteration order for the parallel fan-out
	sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })
	return users
}
