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
	"sort"
	"time"

	"github.com/SalouaDaouki/Data612Summer25/base/log"
	"github.com/SalouaDaouki/Data612Summer25/common/parallel"
	"github.com/SalouaDaouki/Data612Summer25/dataset"
	"github.com/chewxy/math32"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// UserKNN is a neighborhood model over users. The rating of a (user, item)
// pair is estimated from the ratings that the most similar users gave to the
// item. Params:
//
//	K          - The neighborhood size. Default is 40.
//	Similarity - "cosine" or "pearson". Default is "pearson".
type UserKNN struct {
	BaseModel
	similarity  string
	k           int
	userDict    *dataset.FreqDict
	itemDict    *dataset.FreqDict
	userMeans   []float32
	sim         [][]float32
	itemRatings [][]lo.Tuple2[int32, float32]
}

func NewUserKNN(params Params) *UserKNN {
	knn := new(UserKNN)
	knn.SetParams(params)
	return knn
}

func (knn *UserKNN) SetParams(params Params) {
	knn.BaseModel.SetParams(params)
	knn.k = params.GetInt(K, 40)
	knn.similarity = params.GetString(Similarity, SimilarityPearson)
}

func (knn *UserKNN) Fit(ctx context.Context, trainSet *dataset.Dataset, config *FitConfig) error {
	config = config.LoadDefaultIfNil()
	start := time.Now()
	knn.Init()
	knn.userDict = trainSet.UserDict()
	knn.itemDict = trainSet.ItemDict()
	knn.itemRatings = trainSet.ItemRatings()
	userRatings := sortedProfiles(trainSet.UserRatings())
	knn.userMeans = profileMeans(userRatings, trainSet.UserCount())
	// Pairwise similarity
	knn.sim = newTriangle(trainSet.UserCount())
	err := parallel.Parallel(ctx, trainSet.UserCount(), config.Jobs, func(_, u int) error {
		for v := 0; v < u; v++ {
			var s float32
			switch knn.similarity {
			case SimilarityCosine:
				s = cosine(userRatings[u], userRatings[v])
			case SimilarityPearson:
				s = pearson(userRatings[u], userRatings[v], knn.userMeans[u], knn.userMeans[v])
			default:
				s = pearson(userRatings[u], userRatings[v], knn.userMeans[u], knn.userMeans[v])
			}
			if !math32.IsNaN(s) {
				knn.sim[u][v] = s
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Logger().Debug("fit user knn complete",
		zap.Any("params", knn.GetParams()),
		zap.Duration("fit_time", time.Since(start)))
	return nil
}

func (knn *UserKNN) simGet(u, v int) float32 {
	if u == v {
		return 0
	}
	if u < v {
		u, v = v, u
	}
	return knn.sim[u][v]
}

func (knn *UserKNN) Predict(userId, itemId string) float32 {
	userIndex := knn.userDict.Index(userId)
	itemIndex := knn.itemDict.Index(itemId)
	if userIndex == dataset.NotId || itemIndex == dataset.NotId {
		return math32.NaN()
	}
	return knn.predictIndex(userIndex, itemIndex)
}

func (knn *UserKNN) predictIndex(userIndex, itemIndex int) float32 {
	type neighbor struct {
		sim    float32
		rating float32
		mean   float32
	}
	neighbors := make([]neighbor, 0, len(knn.itemRatings[itemIndex]))
	for _, r := range knn.itemRatings[itemIndex] {
		if s := knn.simGet(userIndex, int(r.A)); s > 0 {
			neighbors = append(neighbors, neighbor{s, r.B, knn.userMeans[r.A]})
		}
	}
	if len(neighbors) == 0 {
		return math32.NaN()
	}
	sort.Slice(neighbors, func(i, j int) bool { return neighbors[i].sim > neighbors[j].sim })
	if len(neighbors) > knn.k {
		neighbors = neighbors[:knn.k]
	}
	sum, weight := float32(0), float32(0)
	for _, nb := range neighbors {
		if knn.similarity == SimilarityCosine {
			sum += nb.sim * nb.rating
		} else {
			sum += nb.sim * (nb.rating - nb.mean)
		}
		weight += math32.Abs(nb.sim)
	}
	if knn.similarity == SimilarityCosine {
		return sum / weight
	}
	return knn.userMeans[userIndex] + sum/weight
}

func (knn *UserKNN) Recommend(userId string, known []Rated, n int) []string {
	userIndex := knn.userDict.Index(userId)
	if userIndex == dataset.NotId {
		return nil
	}
	return rankCandidates(knn.itemDict, known, n, func(itemIndex int) float32 {
		return knn.predictIndex(userIndex, itemIndex)
	})
}

// ItemKNN is a neighborhood model over items. The rating of a (user, item)
// pair is estimated from the user's ratings on the items most similar to it.
// Params:
//
//	K          - The neighborhood size. Default is 40.
//	Similarity - "cosine" or "pearson". Default is "cosine".
type ItemKNN struct {
	BaseModel
	similarity  string
	k           int
	userDict    *dataset.FreqDict
	itemDict    *dataset.FreqDict
	itemMeans   []float32
	sim         [][]float32
	userRatings [][]lo.Tuple2[int32, float32]
}

func NewItemKNN(params Params) *ItemKNN {
	knn := new(ItemKNN)
	knn.SetParams(params)
	return knn
}

func (knn *ItemKNN) SetParams(params Params) {
	knn.BaseModel.SetParams(params)
	knn.k = params.GetInt(K, 40)
	knn.similarity = params.GetString(Similarity, SimilarityCosine)
}

func (knn *ItemKNN) Fit(ctx context.Context, trainSet *dataset.Dataset, config *FitConfig) error {
	config = config.LoadDefaultIfNil()
	start := time.Now()
	knn.Init()
	knn.userDict = trainSet.UserDict()
	knn.itemDict = trainSet.ItemDict()
	knn.userRatings = trainSet.UserRatings()
	itemRatings := sortedProfiles(trainSet.ItemRatings())
	knn.itemMeans = profileMeans(itemRatings, trainSet.ItemCount())
	// Pairwise similarity
	knn.sim = newTriangle(trainSet.ItemCount())
	err := parallel.Parallel(ctx, trainSet.ItemCount(), config.Jobs, func(_, i int) error {
		for j := 0; j < i; j++ {
			var s float32
			switch knn.similarity {
			case SimilarityPearson:
				s = pearson(itemRatings[i], itemRatings[j], knn.itemMeans[i], knn.itemMeans[j])
			default:
				s = cosine(itemRatings[i], itemRatings[j])
			}
			if !math32.IsNaN(s) {
				knn.sim[i][j] = s
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Logger().Debug("fit item knn complete",
		zap.Any("params", knn.GetParams()),
		zap.Duration("fit_time", time.Since(start)))
	return nil
}

func (knn *ItemKNN) simGet(i, j int) float32 {
	if i == j {
		return 0
	}
	if i < j {
		i, j = j, i
	}
	return knn.sim[i][j]
}

// predictFromProfile estimates the rating of an item from a revealed profile
// given as (itemIndex, rating) pairs.
func (knn *ItemKNN) predictFromProfile(profile []lo.Tuple2[int32, float32], itemIndex int) float32 {
	type neighbor struct {
		sim    float32
		rating float32
	}
	neighbors := make([]neighbor, 0, len(profile))
	for _, r := range profile {
		if s := knn.simGet(itemIndex, int(r.A)); s > 0 {
			neighbors = append(neighbors, neighbor{s, r.B})
		}
	}
	if len(neighbors) == 0 {
		return math32.NaN()
	}
	sort.Slice(neighbors, func(i, j int) bool { return neighbors[i].sim > neighbors[j].sim })
	if len(neighbors) > knn.k {
		neighbors = neighbors[:knn.k]
	}
	sum, weight := float32(0), float32(0)
	for _, nb := range neighbors {
		sum += nb.sim * nb.rating
		weight += math32.Abs(nb.sim)
	}
	return sum / weight
}

func (knn *ItemKNN) Predict(userId, itemId string) float32 {
	userIndex := knn.userDict.Index(userId)
	itemIndex := knn.itemDict.Index(itemId)
	if userIndex == dataset.NotId || itemIndex == dataset.NotId {
		return math32.NaN()
	}
	return knn.predictFromProfile(knn.userRatings[userIndex], itemIndex)
}

func (knn *ItemKNN) Recommend(userId string, known []Rated, n int) []string {
	profile := make([]lo.Tuple2[int32, float32], 0, len(known))
	for _, r := range known {
		if itemIndex := knn.itemDict.Index(r.ItemId); itemIndex != dataset.NotId {
			profile = append(profile, lo.Tuple2[int32, float32]{A: int32(itemIndex), B: r.Rating})
		}
	}
	if len(profile) == 0 {
		// fall back to the train profile of the user
		if userIndex := knn.userDict.Index(userId); userIndex != dataset.NotId {
			profile = knn.userRatings[userIndex]
		}
	}
	if len(profile) == 0 {
		return nil
	}
	return rankCandidates(knn.itemDict, known, n, func(itemIndex int) float32 {
		return knn.predictFromProfile(profile, itemIndex)
	})
}

/* similarity helpers */

// sortedProfiles returns rating lists sorted by the paired index so that two
// profiles can be intersected by a linear merge.
func sortedProfiles(ratings [][]lo.Tuple2[int32, float32]) [][]lo.Tuple2[int32, float32] {
	sorted := make([][]lo.Tuple2[int32, float32], len(ratings))
	for i, profile := range ratings {
		sorted[i] = make([]lo.Tuple2[int32, float32], len(profile))
		copy(sorted[i], profile)
		sort.Slice(sorted[i], func(a, b int) bool { return sorted[i][a].A < sorted[i][b].A })
	}
	return sorted
}

func profileMeans(ratings [][]lo.Tuple2[int32, float32], count int) []float32 {
	means := make([]float32, count)
	for i := 0; i < count && i < len(ratings); i++ {
		sum := float32(0)
		for _, r := range ratings[i] {
			sum += r.B
		}
		if len(ratings[i]) > 0 {
			means[i] = sum / float32(len(ratings[i]))
		}
	}
	return means
}

func newTriangle(n int) [][]float32 {
	tri := make([][]float32, n)
	for i := range tri {
		tri[i] = make([]float32, i)
	}
	return tri
}

// cosine similarity between two sorted profiles. The numerator runs over
// co-rated entries, the norms over full profiles.
func cosine(a, b []lo.Tuple2[int32, float32]) float32 {
	num := float32(0)
	forIntersection(a, b, func(x, y float32) {
		num += x * y
	})
	if num == 0 {
		return 0
	}
	return num / (norm(a) * norm(b))
}

// pearson correlation over co-rated entries, centered by profile means.
func pearson(a, b []lo.Tuple2[int32, float32], meanA, meanB float32) float32 {
	num, denA, denB := float32(0), float32(0), float32(0)
	forIntersection(a, b, func(x, y float32) {
		num += (x - meanA) * (y - meanB)
		denA += (x - meanA) * (x - meanA)
		denB += (y - meanB) * (y - meanB)
	})
	if denA == 0 || denB == 0 {
		return 0
	}
	return num / (math32.Sqrt(denA) * math32.Sqrt(denB))
}

func forIntersection(a, b []lo.Tuple2[int32, float32], f func(x, y float32)) {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i].A == b[j].A {
			f(a[i].B, b[j].B)
			i++
			j++
		} else if a[i].A < b[j].A {
			i++
		} else {
			j++
		}
	}
}

func norm(a []lo.Tuple2[int32, float32]) float32 {
	sum := float32(0)
	for _, r := range a {
		sum += r.B * r.B
	}
	return math32.Sqrt(sum)
}
