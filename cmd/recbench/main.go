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

package main

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/SalouaDaouki/Data612Summer25/base/log"
	"github.com/SalouaDaouki/Data612Summer25/config"
	"github.com/SalouaDaouki/Data612Summer25/dataset"
	"github.com/SalouaDaouki/Data612Summer25/eval"
	"github.com/SalouaDaouki/Data612Summer25/model"
	"github.com/SalouaDaouki/Data612Summer25/split"
	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var command = &cobra.Command{
	Use:   "recbench",
	Short: "Offline top-N recommender benchmark",
	Run: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.PersistentFlags(), debug)
		if err := run(cmd); err != nil {
			log.Logger().Fatal("benchmark failed", zap.Error(err))
		}
	},
}

func init() {
	command.PersistentFlags().Bool("debug", false, "use debug log mode")
	command.PersistentFlags().StringP("config", "c", "", "configuration file path")
	command.PersistentFlags().String("dataset", "", "override the dataset name")
	command.PersistentFlags().Int("top-n", 0, "override the recommendation list length")
	command.PersistentFlags().Int64("seed", 0, "override the split seed")
	command.PersistentFlags().Int("jobs", 0, "override the number of parallel jobs")
	log.AddFlags(command.PersistentFlags())
}

func run(cmd *cobra.Command) error {
	configPath, _ := cmd.PersistentFlags().GetString("config")
	conf, err := config.LoadConfig(configPath)
	if err != nil {
		return errors.Trace(err)
	}
	if cmd.PersistentFlags().Changed("dataset") {
		conf.Dataset.Name, _ = cmd.PersistentFlags().GetString("dataset")
		conf.Dataset.Path = ""
	}
	if cmd.PersistentFlags().Changed("top-n") {
		conf.Eval.TopN, _ = cmd.PersistentFlags().GetInt("top-n")
	}
	if cmd.PersistentFlags().Changed("seed") {
		conf.Split.Seed, _ = cmd.PersistentFlags().GetInt64("seed")
	}
	if cmd.PersistentFlags().Changed("jobs") {
		conf.Eval.Jobs, _ = cmd.PersistentFlags().GetInt("jobs")
	}

	data, err := loadDataset(&conf.Dataset)
	if err != nil {
		return errors.Trace(err)
	}
	log.Logger().Info("dataset loaded",
		zap.Int("users", data.UserCount()),
		zap.Int("items", data.ItemCount()),
		zap.Int("ratings", data.Count()))

	splitter, err := buildSplitter(&conf.Split)
	if err != nil {
		return errors.Trace(err)
	}
	opts := &eval.Options{
		TopN:              conf.Eval.TopN,
		GoodThreshold:     conf.Eval.GoodThreshold,
		UnpopularQuantile: conf.Eval.UnpopularQuantile,
		Jobs:              conf.Eval.Jobs,
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Model",
		fmt.Sprintf("Precision@%d", conf.Eval.TopN),
		fmt.Sprintf("Recall@%d", conf.Eval.TopN),
		"RMSE", "MAE", "Novelty", "Diversity", "Serendipity")
	bar := progressbar.Default(int64(len(conf.Models)), "benchmark")
	for _, modelConfig := range conf.Models {
		m, err := buildModel(&modelConfig)
		if err != nil {
			return errors.Trace(err)
		}
		cv, err := eval.CrossValidate(context.Background(), m, data, splitter, conf.Split.Seed,
			model.NewFitConfig().SetJobs(conf.Eval.Jobs), opts)
		if err != nil {
			return errors.Trace(err)
		}
		if err = table.Append([]string{
			modelConfig.Name,
			formatMetric(cv, func(r eval.Result) float64 { return r.Precision }),
			formatMetric(cv, func(r eval.Result) float64 { return r.Recall }),
			formatMetric(cv, func(r eval.Result) float64 { return r.RMSE }),
			formatMetric(cv, func(r eval.Result) float64 { return r.MAE }),
			formatMetric(cv, func(r eval.Result) float64 { return r.Novelty }),
			formatMetric(cv, func(r eval.Result) float64 { return r.Diversity }),
			formatMetric(cv, func(r eval.Result) float64 { return r.Serendipity }),
		}); err != nil {
			return errors.Trace(err)
		}
		_ = bar.Add(1)
	}
	return errors.Trace(table.Render())
}

func loadDataset(conf *config.DatasetConfig) (*dataset.Dataset, error) {
	if conf.Path != "" {
		return dataset.LoadCSV(conf.Path, conf.Separator, conf.Header)
	}
	return dataset.LoadBuiltIn(conf.Name)
}

func buildSplitter(conf *config.SplitConfig) (split.Splitter, error) {
	switch conf.Method {
	case "ratio":
		return split.NewRatioSplitter(conf.Repeat, conf.TrainRatio, conf.Given), nil
	case "k-fold":
		return split.NewKFoldSplitter(conf.Folds, conf.Given), nil
	case "leave-one-out":
		return split.NewLeaveOneOutSplitter(conf.Repeat), nil
	default:
		return nil, errors.NotSupportedf("split method %q", conf.Method)
	}
}

func buildModel(conf *config.ModelConfig) (model.Model, error) {
	params := buildParams(conf.Params)
	switch conf.Name {
	case "user-knn":
		return model.NewUserKNN(params), nil
	case "item-knn":
		return model.NewItemKNN(params), nil
	case "svd":
		return model.NewSVD(params), nil
	case "popular":
		return model.NewPopular(params), nil
	case "random":
		return model.NewRandom(params), nil
	case "hybrid":
		first, err := buildModel(&config.ModelConfig{Name: conf.First, Params: conf.Params})
		if err != nil {
			return nil, errors.Trace(err)
		}
		second, err := buildModel(&config.ModelConfig{Name: conf.Second, Params: conf.Params})
		if err != nil {
			return nil, errors.Trace(err)
		}
		return model.NewHybrid(first, second, params.Overwrite(model.Params{model.Weight: conf.Weight})), nil
	default:
		return nil, errors.NotSupportedf("model %q", conf.Name)
	}
}

func buildParams(raw map[string]interface{}) model.Params {
	params := make(model.Params, len(raw))
	for name, value := range raw {
		params[model.ParamName(name)] = value
	}
	return params
}

// formatMetric renders mean and confidence margin over folds. An aggregate
// that was undefined on every fold prints as N/A, never as 0.
func formatMetric(cv eval.CrossValidateResult, metric func(eval.Result) float64) string {
	mean, margin := cv.MeanAndMargin(metric)
	if math.IsNaN(mean) {
		return "N/A"
	}
	if margin == 0 {
		return fmt.Sprintf("%.4f", mean)
	}
	return fmt.Sprintf("%.4f (±%.4f)", mean, margin)
}

func main() {
	if err := command.Execute(); err != nil {
		log.Logger().Fatal("failed to execute command", zap.Error(err))
	}
}
