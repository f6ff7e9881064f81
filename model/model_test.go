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
	"fmt"
	"math"
	"testing"

	"github.com/SalouaDaouki/Data612Summer25/dataset"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestParams(t *testing.T) {
	p := Params{
		Lr:          0.05,
		NEpochs:     100,
		RandomState: 42,
		Similarity:  SimilarityCosine,
	}
	assert.Equal(t, float32(0.05), p.GetFloat32(Lr, 0))
	assert.Equal(t, 100, p.GetInt(NEpochs, 0))
	assert.Equal(t, int64(42), p.GetInt64(RandomState, 0))
	assert.Equal(t, SimilarityCosine, p.GetString(Similarity, SimilarityPearson))
	// defaults
	assert.Equal(t, 40, p.GetInt(K, 40))
	// overwrite, the argument wins
	merged := p.Overwrite(Params{NEpochs: 10})
	assert.Equal(t, 10, merged.GetInt(NEpochs, 0))
	assert.Equal(t, 100, p.GetInt(NEpochs, 0))
}

func TestParamsGrid(t *testing.T) {
	grid := ParamsGrid{NFactors: {8, 16}}
	grid.Fill(ParamsGrid{NFactors: {100}, Lr: {0.005}})
	assert.Equal(t, []interface{}{8, 16}, grid[NFactors])
	assert.Equal(t, []interface{}{0.005}, grid[Lr])
	assert.Equal(t, 2, grid.Len())
}

// knnDataset builds a matrix where u0 and u1 agree and u2 disagrees:
//
//	     i0 i1 i2 i3
//	u0 [  5  4  1    ]
//	u1 [  5  4     2 ]
//	u2 [  1  2  5    ]
func knnDataset() *dataset.Dataset {
	d := dataset.NewDataset()
	d.Add("u0", "i0", 5)
	d.Add("u0", "i1", 4)
	d.Add("u0", "i2", 1)
	d.Add("u1", "i0", 5)
	d.Add("u1", "i1", 4)
	d.Add("u1", "i3", 2)
	d.Add("u2", "i0", 1)
	d.Add("u2", "i1", 2)
	d.Add("u2", "i2", 5)
	return d
}

func TestUserKNN(t *testing.T) {
	data := knnDataset()
	knn := NewUserKNN(Params{K: 10, Similarity: SimilarityPearson})
	assert.NoError(t, knn.Fit(context.Background(), data, NewFitConfig()))
	// u1 is the only rater of i3 and correlates positively with u0, so the
	// prediction is mean(u0) + (2 - mean(u1))
	pred := knn.Predict("u0", "i3")
	assert.InDelta(t, 5.0/3.0, pred, 0.01)
	// users outside the dictionary cannot be scored
	assert.True(t, math32.IsNaN(knn.Predict("unknown", "i0")))
	// recommendations exclude the revealed profile
	recommended := knn.Recommend("u0", []Rated{{"i0", 5}, {"i1", 4}, {"i2", 1}}, 10)
	assert.NotContains(t, recommended, "i0")
	assert.NotContains(t, recommended, "i1")
	assert.NotContains(t, recommended, "i2")
	// unknown users get an empty list, not an error
	assert.Empty(t, knn.Recommend("unknown", nil, 10))
}

func TestItemKNN(t *testing.T) {
	data := knnDataset()
	knn := NewItemKNN(Params{K: 10, Similarity: SimilarityCosine})
	assert.NoError(t, knn.Fit(context.Background(), data, NewFitConfig()))
	// i3 is similar to the highly rated i0 and i1, the prediction stays
	// within the ratings of its neighborhood
	pred := knn.Predict("u0", "i3")
	assert.False(t, math32.IsNaN(pred))
	assert.GreaterOrEqual(t, pred, float32(4))
	assert.LessOrEqual(t, pred, float32(5))
	// a cold user scores through the revealed profile alone
	recommended := knn.Recommend("cold", []Rated{{"i0", 5}, {"i1", 5}}, 10)
	assert.NotEmpty(t, recommended)
	assert.NotContains(t, recommended, "i0")
	assert.NotContains(t, recommended, "i1")
}

func TestSVD(t *testing.T) {
	// low rank matrix: two blocks of users and items
	data := dataset.NewDataset()
	for u := 0; u < 8; u++ {
		for i := 0; i < 8; i++ {
			rating := float32(1)
			if u%2 == i%2 {
				rating = 5
			}
			data.Add(fmt.Sprintf("u%d", u), fmt.Sprintf("i%d", i), rating)
		}
	}
	svd := NewSVD(Params{
		NFactors:    4,
		NEpochs:     100,
		Lr:          0.05,
		Reg:         0.01,
		RandomState: 42,
	})
	assert.NoError(t, svd.Fit(context.Background(), data, NewFitConfig()))
	// the model reconstructs the train set well
	sum := 0.0
	for i := 0; i < data.Count(); i++ {
		userId, itemId, rating := data.Get(i)
		diff := float64(rating - svd.Predict(userId, itemId))
		sum += diff * diff
	}
	rmse := math.Sqrt(sum / float64(data.Count()))
	assert.Less(t, rmse, 1.0)
	// unknown pairs are NaN
	assert.True(t, math32.IsNaN(svd.Predict("u0", "unknown")))
	// fitting twice with the same seed is deterministic
	clone := NewSVD(svd.GetParams())
	assert.NoError(t, clone.Fit(context.Background(), data, NewFitConfig()))
	assert.Equal(t, svd.Predict("u0", "i1"), clone.Predict("u0", "i1"))
}

func TestPopular(t *testing.T) {
	data := dataset.NewDataset()
	data.Add("u0", "i0", 5)
	data.Add("u1", "i0", 3)
	data.Add("u2", "i0", 4)
	data.Add("u0", "i1", 2)
	data.Add("u1", "i1", 4)
	data.Add("u2", "i2", 1)
	p := NewPopular(nil)
	assert.NoError(t, p.Fit(context.Background(), data, nil))
	assert.Equal(t, []string{"i0", "i1", "i2"}, p.Recommend("u0", nil, 3))
	assert.Equal(t, []string{"i1", "i2"}, p.Recommend("u0", []Rated{{"i0", 5}}, 3))
	assert.InDelta(t, 4, p.Predict("u0", "i0"), 1e-6)
	assert.True(t, math32.IsNaN(p.Predict("u0", "unknown")))
}

func TestRandom(t *testing.T) {
	data := dataset.NewDataset()
	for u := 0; u < 5; u++ {
		for i := 0; i < 10; i++ {
			data.Add(fmt.Sprintf("u%d", u), fmt.Sprintf("i%d", i), float32(1+(u+i)%5))
		}
	}
	r := NewRandom(Params{RandomState: 7})
	assert.NoError(t, r.Fit(context.Background(), data, nil))
	// predictions stay in the observed range
	for i := 0; i < 100; i++ {
		pred := r.Predict("u0", "i0")
		assert.GreaterOrEqual(t, pred, float32(1))
		assert.LessOrEqual(t, pred, float32(5))
	}
	// the same seed draws the same ranking
	first := NewRandom(Params{RandomState: 7})
	assert.NoError(t, first.Fit(context.Background(), data, nil))
	second := NewRandom(Params{RandomState: 7})
	assert.NoError(t, second.Fit(context.Background(), data, nil))
	assert.Equal(t, first.Recommend("u0", nil, 5), second.Recommend("u0", nil, 5))
}

func TestHybrid(t *testing.T) {
	data := dataset.NewDataset()
	data.Add("u0", "i0", 5)
	data.Add("u1", "i0", 3)
	data.Add("u0", "i1", 2)
	data.Add("u1", "i2", 4)
	popular := NewPopular(nil)
	random := NewRandom(Params{RandomState: 0})
	hybrid := NewHybrid(popular, random, Params{Weight: 1.0})
	assert.NoError(t, hybrid.Fit(context.Background(), data, nil))
	// with full weight on the first member the blend follows it
	assert.Equal(t, popular.Recommend("u0", nil, 3), hybrid.Recommend("u0", nil, 3))
	// a NaN member drops out of the rating average
	blend := NewHybrid(popular, random, Params{Weight: 0.5})
	assert.NoError(t, blend.Fit(context.Background(), data, nil))
	assert.False(t, math32.IsNaN(blend.Predict("u0", "i0")))
}

func TestRankCandidates(t *testing.T) {
	dict := dataset.NewFreqDict()
	for _, id := range []string{"a", "b", "c", "d"} {
		dict.Add(id)
	}
	scores := []float32{1, 3, math32.NaN(), 3}
	ranked := rankCandidates(dict, nil, 10, func(i int) float32 { return scores[i] })
	// ties break on insertion order, NaN drops out
	assert.Equal(t, []string{"b", "d", "a"}, ranked)
	// exclusion and truncation
	ranked = rankCandidates(dict, []Rated{{"b", 5}}, 1, func(i int) float32 { return scores[i] })
	assert.Equal(t, []string{"d"}, ranked)
}
