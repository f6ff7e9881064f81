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
	"os"
	"path/filepath"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigTemplate(t *testing.T) {
	config, err := LoadConfig("config.toml.template")
	require.NoError(t, err)
	assert.Equal(t, "ml-100k", config.Dataset.Name)
	assert.Equal(t, "ratio", config.Split.Method)
	assert.Equal(t, 0.8, config.Split.TrainRatio)
	assert.Equal(t, 5, config.Split.Given)
	assert.Equal(t, 10, config.Eval.TopN)
	assert.Equal(t, 0.9, config.Eval.UnpopularQuantile)
	require.Len(t, config.Models, 4)
	assert.Equal(t, "user-knn", config.Models[1].Name)
	assert.Equal(t, "pearson", config.Models[1].Params["Similarity"])
	assert.Equal(t, "hybrid", config.Models[3].Name)
	assert.Equal(t, "popular", config.Models[3].First)
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), config)
}

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidate(t *testing.T) {
	// unknown split method
	_, err := LoadConfig(writeConfig(t, `
[split]
method = "bootstrap"
[[models]]
name = "popular"
`))
	assert.Error(t, err)
	// zero given is neither a count nor all-but-one
	_, err = LoadConfig(writeConfig(t, `
[split]
given = 0
[[models]]
name = "popular"
`))
	assert.Error(t, err)
	// hybrid without members
	_, err = LoadConfig(writeConfig(t, `
[[models]]
name = "hybrid"
`))
	assert.True(t, errors.IsNotValid(errors.Cause(err)))
	// name and path are mutually exclusive
	_, err = LoadConfig(writeConfig(t, `
[dataset]
name = "ml-100k"
path = "ratings.csv"
[[models]]
name = "popular"
`))
	assert.True(t, errors.IsNotValid(errors.Cause(err)))
}
