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
	"math"

	"github.com/samber/lo"
)

// Pair addresses one (user, item) cell of a sparse rating matrix.
type Pair = lo.Tuple2[string, string]

// Ratings is a sparse rating matrix keyed by (user, item).
type Ratings map[Pair]float64

// RatingError computes RMSE and MAE over the pairs present in both the
// predicted and the actual matrix. Pairs missing a prediction are excluded.
// With no overlapping pair both results are NaN.
func RatingError(predicted, actual Ratings) (rmse, mae float64) {
	squaredSum, absSum := 0.0, 0.0
	count := 0
	for pair, truth := range actual {
		pred, exist := predicted[pair]
		if !exist || math.IsNaN(pred) {
			continue
		}
		diff := pred - truth
		squaredSum += diff * diff
		absSum += math.Abs(diff)
		count++
	}
	if count == 0 {
		return math.NaN(), math.NaN()
	}
	return math.Sqrt(squaredSum / float64(count)), absSum / float64(count)
}
