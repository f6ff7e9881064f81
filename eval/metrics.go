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

// Package eval computes offline top-N evaluation metrics. Every aggregate is
// the arithmetic mean over users with a non-degenerate denominator; users
// where a metric is undefined are skipped, and an aggregate with no defined
// user at all is NaN, never 0 -- "no data" and "zero score" are different
// findings.
package eval

import (
	"math"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/juju/errors"
)

// TopList maps a user to a ranked recommendation list.
type TopList map[string][]string

// Relevance maps a user to the set of items counted as ground-truth hits.
type Relevance map[string]mapset.Set[string]

// Similarity resolves an item-item similarity score in [0, 1]. The second
// return reports whether both identifiers are part of the catalog.
type Similarity interface {
	Get(a, b string) (float64, bool)
}

// PrecisionRecall computes precision@n and recall@n. Per-user precision
// divides hits by n and is defined for users with a non-empty list; per-user
// recall divides hits by the relevant set size and is defined for users with
// a non-empty relevant set.
func PrecisionRecall(recommended TopList, relevant Relevance, n int) (precision, recall float64) {
	precisionSum, precisionCount := 0.0, 0
	recallSum, recallCount := 0.0, 0
	for userId, items := range recommended {
		truth, exist := relevant[userId]
		hits := 0
		if exist {
			for _, itemId := range items {
				if truth.Contains(itemId) {
					hits++
				}
			}
		}
		if len(items) > 0 {
			precisionSum += float64(hits) / float64(n)
			precisionCount++
		}
		if exist && truth.Cardinality() > 0 {
			recallSum += float64(hits) / float64(truth.Cardinality())
			recallCount++
		}
	}
	return meanOrNaN(precisionSum, precisionCount), meanOrNaN(recallSum, recallCount)
}

// Novelty computes the mean inverse popularity of recommended items. Every
// item of a recommendation list must be present in the popularity map.
func Novelty(recommended TopList, popularity map[string]float64) (float64, error) {
	sum, count := 0.0, 0
	for _, items := range recommended {
		if len(items) == 0 {
			continue
		}
		popSum := 0.0
		for _, itemId := range items {
			pop, exist := popularity[itemId]
			if !exist {
				return 0, errors.NotValidf("recommended item %q absent from popularity vector", itemId)
			}
			popSum += pop
		}
		sum += 1 - popSum/float64(len(items))
		count++
	}
	return meanOrNaN(sum, count), nil
}

// Diversity computes the mean pairwise dissimilarity within recommendation
// lists. Users with fewer than two recommendations are undefined and skipped.
func Diversity(recommended TopList, similarity Similarity) (float64, error) {
	sum, count := 0.0, 0
	for _, items := range recommended {
		if len(items) < 2 {
			continue
		}
		pairSum, pairs := 0.0, 0
		for i := 0; i < len(items); i++ {
			for j := i + 1; j < len(items); j++ {
				s, exist := similarity.Get(items[i], items[j])
				if !exist {
					return 0, errors.NotValidf("recommended pair (%q, %q) absent from similarity matrix", items[i], items[j])
				}
				pairSum += 1 - s
				pairs++
			}
		}
		sum += pairSum / float64(pairs)
		count++
	}
	return meanOrNaN(sum, count), nil
}

// Serendipity computes the fraction of recommended items that are both
// relevant and outside the popular head of the catalog. A non-empty list
// with no serendipitous hit scores 0; only empty lists are skipped.
func Serendipity(recommended TopList, relevant Relevance, unpopular mapset.Set[string]) float64 {
	sum, count := 0.0, 0
	for userId, items := range recommended {
		if len(items) == 0 {
			continue
		}
		hits := 0
		if truth, exist := relevant[userId]; exist {
			for _, itemId := range items {
				if truth.Contains(itemId) && unpopular.Contains(itemId) {
					hits++
				}
			}
		}
		sum += float64(hits) / float64(len(items))
		count++
	}
	return meanOrNaN(sum, count)
}

func meanOrNaN(sum float64, count int) float64 {
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}
