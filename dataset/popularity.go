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

package dataset

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"gonum.org/v1/gonum/stat"
)

// Popularity returns the number of ratings per item in this dataset divided
// by the maximum count, yielding a value in [0, 1] for every item of the
// shared item dictionary. Items without ratings get popularity 0.
func (d *Dataset) Popularity() map[string]float64 {
	counts := d.popularityCounts()
	maxCount := 0.0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}
	popularity := make(map[string]float64, d.itemDict.Count())
	for itemIndex, c := range counts {
		itemId, _ := d.itemDict.String(itemIndex)
		if maxCount > 0 {
			popularity[itemId] = c / maxCount
		} else {
			popularity[itemId] = 0
		}
	}
	return popularity
}

// UnpopularItems returns the items whose raw rating count falls below the
// q-quantile of all item counts. With q = 0.9 the top decile of items by
// count is excluded. The cutoff is deterministic for a given dataset.
func (d *Dataset) UnpopularItems(q float64) mapset.Set[string] {
	counts := d.popularityCounts()
	sorted := make([]float64, len(counts))
	copy(sorted, counts)
	sort.Float64s(sorted)
	unpopular := mapset.NewSet[string]()
	if len(sorted) == 0 {
		return unpopular
	}
	cutoff := stat.Quantile(q, stat.Empirical, sorted, nil)
	for itemIndex, c := range counts {
		if c < cutoff {
			itemId, _ := d.itemDict.String(itemIndex)
			unpopular.Add(itemId)
		}
	}
	return unpopular
}

func (d *Dataset) popularityCounts() []float64 {
	counts := make([]float64, d.itemDict.Count())
	for itemIndex := range counts {
		if itemIndex < len(d.itemRatings) {
			counts[itemIndex] = float64(len(d.itemRatings[itemIndex]))
		}
	}
	return counts
}
