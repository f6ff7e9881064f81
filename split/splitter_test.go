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
	"fmt"
	"testing"

	"github.com/SalouaDaouki/Data612Summer25/dataset"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
)

// toyDataset builds a dense matrix of nUsers x nItems ratings.
func toyDataset(nUsers, nItems int) *dataset.Dataset {
	d := dataset.NewDataset()
	for u := 0; u < nUsers; u++ {
		for i := 0; i < nItems; i++ {
			d.Add(fmt.Sprintf("u%d", u), fmt.Sprintf("i%d", i), float32(1+(u+i)%5))
		}
	}
	return d
}

// pairs collects (user,item) pairs of a dataset.
func pairs(d *dataset.Dataset) mapset.Set[string] {
	set := mapset.NewSet[string]()
	for i := 0; i < d.Count(); i++ {
		userId, itemId, _ := d.Get(i)
		set.Add(userId + "/" + itemId)
	}
	return set
}

func checkInvariants(t *testing.T, data *dataset.Dataset, scheme Scheme) {
	known := pairs(scheme.Known)
	unknown := pairs(scheme.Unknown)
	// known and unknown are disjoint
	assert.Equal(t, 0, known.Intersect(unknown).Cardinality())
	// every user in unknown has entries in train
	trainUsers := mapset.NewSet[string]()
	for i := 0; i < scheme.Train.Count(); i++ {
		userId, _, _ := scheme.Train.Get(i)
		trainUsers.Add(userId)
	}
	for i := 0; i < scheme.Unknown.Count(); i++ {
		userId, _, _ := scheme.Unknown.Get(i)
		assert.True(t, trainUsers.Contains(userId))
	}
	// every rating of an evaluation user lands in exactly one side
	evalUsers := mapset.NewSet[string]()
	for i := 0; i < scheme.Known.Count(); i++ {
		userId, _, _ := scheme.Known.Get(i)
		evalUsers.Add(userId)
	}
	for i := 0; i < data.Count(); i++ {
		userId, itemId, _ := data.Get(i)
		if evalUsers.Contains(userId) {
			pair := userId + "/" + itemId
			assert.True(t, known.Contains(pair) != unknown.Contains(pair))
		}
	}
}

func TestRatioSplitter(t *testing.T) {
	data := toyDataset(10, 8)
	splitter := NewRatioSplitter(2, 0.7, 3)
	schemes := splitter(data, 42)
	assert.Len(t, schemes, 2)
	for _, scheme := range schemes {
		checkInvariants(t, data, scheme)
		// every evaluation user reveals exactly 3 ratings
		for u := int32(0); u < int32(data.UserCount()); u++ {
			if ratings := scheme.Known.UserRatingsByIndex(u); len(ratings) > 0 {
				assert.Len(t, ratings, 3)
				assert.Len(t, scheme.Unknown.UserRatingsByIndex(u), 5)
			}
		}
	}
}

func TestRatioSplitterDeterminism(t *testing.T) {
	data := toyDataset(10, 8)
	splitter := NewRatioSplitter(1, 0.7, 3)
	first := splitter(data, 42)[0]
	second := splitter(data, 42)[0]
	assert.True(t, pairs(first.Known).Equal(pairs(second.Known)))
	assert.True(t, pairs(first.Unknown).Equal(pairs(second.Unknown)))
	// a different seed draws a different split
	third := splitter(data, 7)[0]
	assert.False(t, pairs(first.Unknown).Equal(pairs(third.Unknown)))
}

func TestKFoldSplitter(t *testing.T) {
	data := toyDataset(10, 8)
	splitter := NewKFoldSplitter(5, 2)
	schemes := splitter(data, 0)
	assert.Len(t, schemes, 5)
	evaluated := mapset.NewSet[string]()
	for _, scheme := range schemes {
		checkInvariants(t, data, scheme)
		for i := 0; i < scheme.Unknown.Count(); i++ {
			userId, _, _ := scheme.Unknown.Get(i)
			evaluated.Add(userId)
		}
	}
	// every user is evaluated in exactly one fold
	assert.Equal(t, data.UserCount(), evaluated.Cardinality())
}

func TestLeaveOneOutSplitter(t *testing.T) {
	data := toyDataset(6, 5)
	schemes := NewLeaveOneOutSplitter(1)(data, 1)
	assert.Len(t, schemes, 1)
	scheme := schemes[0]
	checkInvariants(t, data, scheme)
	for u := int32(0); u < int32(data.UserCount()); u++ {
		assert.Len(t, scheme.Unknown.UserRatingsByIndex(u), 1)
		assert.Len(t, scheme.Known.UserRatingsByIndex(u), 4)
	}
}

func TestGivenExceedsProfile(t *testing.T) {
	// users have 3 ratings but the scheme asks for 5: unknown stays empty
	data := toyDataset(4, 3)
	schemes := NewRatioSplitter(1, 0.5, 5)(data, 3)
	scheme := schemes[0]
	checkInvariants(t, data, scheme)
	assert.Equal(t, 0, scheme.Unknown.Count())
	assert.True(t, scheme.Known.Count() > 0)
}
