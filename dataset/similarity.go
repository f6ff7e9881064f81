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

	"github.com/SalouaDaouki/Data612Summer25/common/parallel"
)

// ItemSimilarity is a symmetric item-item similarity matrix over the item
// dictionary of the dataset it was built from. Values are in [0, 1]. The
// diagonal is self-similarity and is ignored by consumers.
type ItemSimilarity struct {
	dict   *FreqDict
	values [][]float32
}

// JaccardSimilarity computes the Jaccard index between the co-rating user
// sets of every item pair:
//
//	J(i,j) = |U_i ∩ U_j| / |U_i ∪ U_j|
//
// Items without ratings have similarity 0 to every other item.
func JaccardSimilarity(d *Dataset, jobs int) *ItemSimilarity {
	n := d.itemDict.Count()
	// collect sorted user lists per item
	userSets := make([][]int32, n)
	for itemIndex := 0; itemIndex < n && itemIndex < len(d.itemRatings); itemIndex++ {
		users := make([]int32, 0, len(d.itemRatings[itemIndex]))
		for _, t := range d.itemRatings[itemIndex] {
			users = append(users, t.A)
		}
		sort.Slice(users, func(i, j int) bool { return users[i] < users[j] })
		userSets[itemIndex] = users
	}
	sim := &ItemSimilarity{
		dict:   d.itemDict,
		values: make([][]float32, n),
	}
	for i := range sim.values {
		sim.values[i] = make([]float32, n)
	}
	parallel.For(n, jobs, func(i int) {
		sim.values[i][i] = 1
		for j := 0; j < i; j++ {
			common := intersectCount(userSets[i], userSets[j])
			union := len(userSets[i]) + len(userSets[j]) - common
			if union > 0 {
				value := float32(common) / float32(union)
				sim.values[i][j] = value
				sim.values[j][i] = value
			}
		}
	})
	return sim
}

// Get returns the similarity between two items. The second return value is
// false if either item is absent from the item dictionary.
func (s *ItemSimilarity) Get(a, b string) (float64, bool) {
	i := s.dict.Index(a)
	j := s.dict.Index(b)
	if i == NotId || j == NotId {
		return 0, false
	}
	return float64(s.values[i][j]), true
}

// intersectCount counts common elements of two sorted slices.
func intersectCount(a, b []int32) int {
	i, j, count := 0, 0, 0
	for i < len(a) && j < len(b) {
		if a[i] == b[j] {
			count++
			i++
			j++
		} else if a[i] < b[j] {
			i++
		} else {
			j++
		}
	}
	return count
}
