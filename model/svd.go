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
	"time"

	"github.com/SalouaDaouki/Data612Summer25/base/log"
	"github.com/SalouaDaouki/Data612Summer25/dataset"
	"github.com/bits-and-blooms/bitset"
	"github.com/chewxy/math32"
	"go.uber.org/zap"
)

// SVD is the biased matrix factorization model fitted by stochastic gradient
// descent. The prediction of a (user, item) pair is
//
//	\hat{r}_{ui} = \mu + b_u + b_i + q_i^T p_u
//
// Params:
//
//	Lr         - The learning rate of SGD. Default is 0.005.
//	Reg        - The regularization strength. Default is 0.02.
//	NEpochs    - The number of SGD epochs. Default is 20.
//	NFactors   - The number of latent factors. Default is 100.
//	InitMean   - The mean of initial factors. Default is 0.
//	InitStdDev - The standard deviation of initial factors. Default is 0.1.
type SVD struct {
	BaseModel
	userDict   *dataset.FreqDict
	itemDict   *dataset.FreqDict
	userFactor [][]float32
	itemFactor [][]float32
	userBias   []float32
	itemBias   []float32
	globalMean float32
	// trained marks users and items seen during fitting. Dictionaries are
	// shared across folds, so dictionary membership alone does not imply a
	// trained embedding.
	trainedUsers *bitset.BitSet
	trainedItems *bitset.BitSet
	// hyper-parameters
	nFactors   int
	nEpochs    int
	lr         float32
	reg        float32
	initMean   float32
	initStdDev float32
}

func NewSVD(params Params) *SVD {
	svd := new(SVD)
	svd.SetParams(params)
	return svd
}

func (svd *SVD) SetParams(params Params) {
	svd.BaseModel.SetParams(params)
	svd.nFactors = params.GetInt(NFactors, 100)
	svd.nEpochs = params.GetInt(NEpochs, 20)
	svd.lr = params.GetFloat32(Lr, 0.005)
	svd.reg = params.GetFloat32(Reg, 0.02)
	svd.initMean = params.GetFloat32(InitMean, 0)
	svd.initStdDev = params.GetFloat32(InitStdDev, 0.1)
}

func (svd *SVD) Fit(ctx context.Context, trainSet *dataset.Dataset, config *FitConfig) error {
	config = config.LoadDefaultIfNil()
	start := time.Now()
	svd.Init()
	svd.userDict = trainSet.UserDict()
	svd.itemDict = trainSet.ItemDict()
	svd.globalMean = trainSet.Mean()
	svd.userBias = make([]float32, trainSet.UserCount())
	svd.itemBias = make([]float32, trainSet.ItemCount())
	svd.userFactor = svd.newFactors(trainSet.UserCount())
	svd.itemFactor = svd.newFactors(trainSet.ItemCount())
	svd.trainedUsers = bitset.New(uint(trainSet.UserCount()))
	svd.trainedItems = bitset.New(uint(trainSet.ItemCount()))
	for i := 0; i < trainSet.Count(); i++ {
		userIndex, itemIndex, _ := trainSet.GetIndex(i)
		svd.trainedUsers.Set(uint(userIndex))
		svd.trainedItems.Set(uint(itemIndex))
	}
	order := svd.rng.Perm(trainSet.Count())
	for epoch := 1; epoch <= svd.nEpochs; epoch++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		cost := float32(0)
		for _, i := range order {
			userIndex, itemIndex, rating := trainSet.GetIndex(i)
			pu, qi := svd.userFactor[userIndex], svd.itemFactor[itemIndex]
			diff := rating - svd.internalPredict(int(userIndex), int(itemIndex))
			cost += diff * diff
			svd.userBias[userIndex] += svd.lr * (diff - svd.reg*svd.userBias[userIndex])
			svd.itemBias[itemIndex] += svd.lr * (diff - svd.reg*svd.itemBias[itemIndex])
			for f := 0; f < svd.nFactors; f++ {
				puf, qif := pu[f], qi[f]
				pu[f] += svd.lr * (diff*qif - svd.reg*puf)
				qi[f] += svd.lr * (diff*puf - svd.reg*qif)
			}
		}
		if config.Verbose > 0 && epoch%config.Verbose == 0 {
			log.Logger().Debug("fit svd",
				zap.Int("epoch", epoch),
				zap.Float32("cost", cost/float32(trainSet.Count())))
		}
	}
	log.Logger().Debug("fit svd complete",
		zap.Any("params", svd.GetParams()),
		zap.Duration("fit_time", time.Since(start)))
	return nil
}

func (svd *SVD) newFactors(count int) [][]float32 {
	factors := make([][]float32, count)
	for i := range factors {
		factors[i] = make([]float32, svd.nFactors)
		for f := range factors[i] {
			factors[i][f] = float32(svd.rng.NormFloat64())*svd.initStdDev + svd.initMean
		}
	}
	return factors
}

func (svd *SVD) internalPredict(userIndex, itemIndex int) float32 {
	ret := svd.globalMean
	userTrained := svd.trainedUsers.Test(uint(userIndex))
	itemTrained := svd.trainedItems.Test(uint(itemIndex))
	if userTrained {
		ret += svd.userBias[userIndex]
	}
	if itemTrained {
		ret += svd.itemBias[itemIndex]
	}
	if userTrained && itemTrained {
		pu, qi := svd.userFactor[userIndex], svd.itemFactor[itemIndex]
		for f := 0; f < svd.nFactors; f++ {
			ret += pu[f] * qi[f]
		}
	}
	return ret
}

func (svd *SVD) Predict(userId, itemId string) float32 {
	userIndex := svd.userDict.Index(userId)
	itemIndex := svd.itemDict.Index(itemId)
	if userIndex == dataset.NotId || itemIndex == dataset.NotId {
		return math32.NaN()
	}
	return svd.internalPredict(userIndex, itemIndex)
}

func (svd *SVD) Recommend(userId string, known []Rated, n int) []string {
	userIndex := svd.userDict.Index(userId)
	if userIndex == dataset.NotId || !svd.trainedUsers.Test(uint(userIndex)) {
		return nil
	}
	return rankCandidates(svd.itemDict, known, n, func(itemIndex int) float32 {
		if !svd.trainedItems.Test(uint(itemIndex)) {
			return math32.NaN()
		}
		return svd.internalPredict(userIndex, itemIndex)
	})
}
