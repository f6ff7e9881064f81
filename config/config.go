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

package config

import (
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

// Config is the configuration of one benchmark run, loaded from TOML.
type Config struct {
	Dataset DatasetConfig `mapstructure:"dataset"`
	Split   SplitConfig   `mapstructure:"split"`
	Eval    EvalConfig    `mapstructure:"eval"`
	Models  []ModelConfig `mapstructure:"models" validate:"dive"`
}

// DatasetConfig selects the rating matrix: either the name of a built-in
// dataset or the path of a delimited ratings file.
type DatasetConfig struct {
	Name      string `mapstructure:"name"`
	Path      string `mapstructure:"path"`
	Separator string `mapstructure:"separator"`
	Header    bool   `mapstructure:"header"`
}

// SplitConfig declares the evaluation protocol.
type SplitConfig struct {
	Method     string  `mapstructure:"method" validate:"oneof=ratio k-fold leave-one-out"`
	TrainRatio float64 `mapstructure:"train_ratio" validate:"gt=0,lt=1"`
	Folds      int     `mapstructure:"folds" validate:"gte=2"`
	Repeat     int     `mapstructure:"repeat" validate:"gte=1"`
	Given      int     `mapstructure:"given" validate:"gte=-1,ne=0"`
	Seed       int64   `mapstructure:"seed"`
}

// EvalConfig tunes the metric engine.
type EvalConfig struct {
	TopN              int     `mapstructure:"top_n" validate:"gt=0"`
	GoodThreshold     float32 `mapstructure:"good_threshold" validate:"gte=0"`
	UnpopularQuantile float64 `mapstructure:"unpopular_quantile" validate:"gt=0,lt=1"`
	Jobs              int     `mapstructure:"jobs" validate:"gte=1"`
}

// ModelConfig declares one model to benchmark. Params carries the
// hyper-parameters by name; a hybrid names its two members and blends them by
// weight.
type ModelConfig struct {
	Name   string                 `mapstructure:"name" validate:"oneof=user-knn item-knn svd popular random hybrid"`
	Params map[string]interface{} `mapstructure:"params"`
	First  string                 `mapstructure:"first"`
	Second string                 `mapstructure:"second"`
	Weight float64                `mapstructure:"weight" validate:"gte=0,lte=1"`
}

func GetDefaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Name:      "ml-100k",
			Separator: "\t",
		},
		Split: SplitConfig{
			Method:     "ratio",
			TrainRatio: 0.8,
			Folds:      5,
			Repeat:     1,
			Given:      5,
			Seed:       0,
		},
		Eval: EvalConfig{
			TopN:              10,
			UnpopularQuantile: 0.9,
			Jobs:              1,
		},
		Models: []ModelConfig{
			{Name: "popular"},
			{Name: "random"},
		},
	}
}

func setDefault(config *Config) {
	defaults := GetDefaultConfig()
	viper.SetDefault("dataset.name", defaults.Dataset.Name)
	viper.SetDefault("dataset.separator", defaults.Dataset.Separator)
	viper.SetDefault("split.method", defaults.Split.Method)
	viper.SetDefault("split.train_ratio", defaults.Split.TrainRatio)
	viper.SetDefault("split.folds", defaults.Split.Folds)
	viper.SetDefault("split.repeat", defaults.Split.Repeat)
	viper.SetDefault("split.given", defaults.Split.Given)
	viper.SetDefault("split.seed", defaults.Split.Seed)
	viper.SetDefault("eval.top_n", defaults.Eval.TopN)
	viper.SetDefault("eval.unpopular_quantile", defaults.Eval.UnpopularQuantile)
	viper.SetDefault("eval.jobs", defaults.Eval.Jobs)
	*config = *defaults
}

// LoadConfig loads and validates the configuration from a TOML file. An empty
// path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := new(Config)
	setDefault(config)
	if path != "" {
		viper.SetConfigType("toml")
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, errors.Trace(err)
		}
		if err := viper.Unmarshal(config); err != nil {
			return nil, errors.Trace(err)
		}
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return config, nil
}
