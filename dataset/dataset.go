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
	"bufio"
	"os"
	"strings"

	"github.com/SalouaDaouki/Data612Summer25/common/util"
	"github.com/chewxy/math32"
	"github.com/juju/errors"
	"github.com/samber/lo"
)

// Dataset is an immutable sparse user-item rating matrix stored as triples.
// User and item identifiers are opaque strings interned by FreqDict. Subsets
// created by SubSet share the dictionaries of their parent so that indices
// stay aligned across train, known and unknown folds.
type Dataset struct {
	userDict *FreqDict
	itemDict *FreqDict
	users    []int32
	items    []int32
	ratings  []float32
	// ratings grouped by user index and by item index
	userRatings [][]lo.Tuple2[int32, float32]
	itemRatings [][]lo.Tuple2[int32, float32]
}

func NewDataset() *Dataset {
	return &Dataset{
		userDict: NewFreqDict(),
		itemDict: NewFreqDict(),
	}
}

// Add appends a rating triple to the dataset.
func (d *Dataset) Add(userId, itemId string, rating float32) {
	userIndex := int32(d.userDict.Add(userId))
	itemIndex := int32(d.itemDict.Add(itemId))
	d.users = append(d.users, userIndex)
	d.items = append(d.items, itemIndex)
	d.ratings = append(d.ratings, rating)
	for int(userIndex) >= len(d.userRatings) {
		d.userRatings = append(d.userRatings, nil)
	}
	for int(itemIndex) >= len(d.itemRatings) {
		d.itemRatings = append(d.itemRatings, nil)
	}
	d.userRatings[userIndex] = append(d.userRatings[userIndex], lo.Tuple2[int32, float32]{A: itemIndex, B: rating})
	d.itemRatings[itemIndex] = append(d.itemRatings[itemIndex], lo.Tuple2[int32, float32]{A: userIndex, B: rating})
}

func (d *Dataset) Count() int {
	return len(d.ratings)
}

// UserCount returns the number of users in the dictionary, including users
// that have no rating in this subset.
func (d *Dataset) UserCount() int {
	return d.userDict.Count()
}

func (d *Dataset) ItemCount() int {
	return d.itemDict.Count()
}

func (d *Dataset) UserDict() *FreqDict {
	return d.userDict
}

func (d *Dataset) ItemDict() *FreqDict {
	return d.itemDict
}

// Get returns the i-th rating triple with resolved identifiers.
func (d *Dataset) Get(i int) (userId, itemId string, rating float32) {
	userId, _ = d.userDict.String(int(d.users[i]))
	itemId, _ = d.itemDict.String(int(d.items[i]))
	return userId, itemId, d.ratings[i]
}

// GetIndex returns the i-th rating triple as dense indices.
func (d *Dataset) GetIndex(i int) (userIndex, itemIndex int32, rating float32) {
	return d.users[i], d.items[i], d.ratings[i]
}

// UserRatings returns ratings grouped by user index. The slice is indexed by
// dense user index and may be shorter than UserCount for subsets.
func (d *Dataset) UserRatings() [][]lo.Tuple2[int32, float32] {
	return d.userRatings
}

func (d *Dataset) ItemRatings() [][]lo.Tuple2[int32, float32] {
	return d.itemRatings
}

// UserRatingsByIndex returns the ratings of a single user, or nil for users
// without ratings in this subset.
func (d *Dataset) UserRatingsByIndex(userIndex int32) []lo.Tuple2[int32, float32] {
	if int(userIndex) >= len(d.userRatings) {
		return nil
	}
	return d.userRatings[userIndex]
}

func (d *Dataset) Mean() float32 {
	if len(d.ratings) == 0 {
		return 0
	}
	sum := float32(0)
	for _, r := range d.ratings {
		sum += r
	}
	return sum / float32(len(d.ratings))
}

func (d *Dataset) StdDev() float32 {
	if len(d.ratings) == 0 {
		return 0
	}
	mean := d.Mean()
	sum := float32(0)
	for _, r := range d.ratings {
		sum += (r - mean) * (r - mean)
	}
	return math32.Sqrt(sum / float32(len(d.ratings)))
}

func (d *Dataset) Min() float32 {
	ret := math32.Inf(1)
	for _, r := range d.ratings {
		if r < ret {
			ret = r
		}
	}
	return ret
}

func (d *Dataset) Max() float32 {
	ret := math32.Inf(-1)
	for _, r := range d.ratings {
		if r > ret {
			ret = r
		}
	}
	return ret
}

// SubSet creates a dataset from a subset of rating triples. The new dataset
// shares user and item dictionaries with its parent.
func (d *Dataset) SubSet(indices []int) *Dataset {
	sub := &Dataset{
		userDict:    d.userDict,
		itemDict:    d.itemDict,
		users:       make([]int32, 0, len(indices)),
		items:       make([]int32, 0, len(indices)),
		ratings:     make([]float32, 0, len(indices)),
		userRatings: make([][]lo.Tuple2[int32, float32], d.userDict.Count()),
		itemRatings: make([][]lo.Tuple2[int32, float32], d.itemDict.Count()),
	}
	for _, i := range indices {
		userIndex, itemIndex, rating := d.GetIndex(i)
		sub.users = append(sub.users, userIndex)
		sub.items = append(sub.items, itemIndex)
		sub.ratings = append(sub.ratings, rating)
		sub.userRatings[userIndex] = append(sub.userRatings[userIndex], lo.Tuple2[int32, float32]{A: itemIndex, B: rating})
		sub.itemRatings[itemIndex] = append(sub.itemRatings[itemIndex], lo.Tuple2[int32, float32]{A: userIndex, B: rating})
	}
	return sub
}

// Empty creates a dataset without ratings sharing the dictionaries of d.
func (d *Dataset) Empty() *Dataset {
	return &Dataset{
		userDict:    d.userDict,
		itemDict:    d.itemDict,
		userRatings: make([][]lo.Tuple2[int32, float32], d.userDict.Count()),
		itemRatings: make([][]lo.Tuple2[int32, float32], d.itemDict.Count()),
	}
}

// AddIndex appends a rating triple by dense indices. The indices must come
// from the shared dictionaries of this dataset.
func (d *Dataset) AddIndex(userIndex, itemIndex int32, rating float32) {
	d.users = append(d.users, userIndex)
	d.items = append(d.items, itemIndex)
	d.ratings = append(d.ratings, rating)
	for int(userIndex) >= len(d.userRatings) {
		d.userRatings = append(d.userRatings, nil)
	}
	for int(itemIndex) >= len(d.itemRatings) {
		d.itemRatings = append(d.itemRatings, nil)
	}
	d.userRatings[userIndex] = append(d.userRatings[userIndex], lo.Tuple2[int32, float32]{A: itemIndex, B: rating})
	d.itemRatings[itemIndex] = append(d.itemRatings[itemIndex], lo.Tuple2[int32, float32]{A: userIndex, B: rating})
}

// LoadCSV loads a dataset from a delimited ratings file. Each line contains a
// user identifier, an item identifier and a numeric rating.
func LoadCSV(path, sep string, hasHeader bool) (*Dataset, error) {
	d := NewDataset()
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if hasHeader {
			hasHeader = false
			continue
		}
		fields := strings.Split(line, sep)
		if len(fields) < 3 {
			continue
		}
		rating, err := util.ParseFloat[float32](fields[2])
		if err != nil {
			return nil, errors.Annotatef(err, "malformed rating in %s", path)
		}
		d.Add(fields[0], fields[1], rating)
	}
	if err = scanner.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	return d, nil
}
