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
	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"
)

// Validate checks the configuration beyond what TOML parsing guarantees.
func (config *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return errors.NewNotValid(err, "invalid configuration")
	}
	if config.Dataset.Name == "" && config.Dataset.Path == "" {
		return errors.NotValidf("dataset: either name or path required")
	}
	if config.Dataset.Name != "" && config.Dataset.Path != "" {
		return errors.NotValidf("dataset: name and path are mutually exclusive")
	}
	if len(config.Models) == 0 {
		return errors.NotValidf("models: at least one model required")
	}
	for _, m := range config.Models {
		if m.Name == "hybrid" {
			if m.First == "" || m.Second == "" {
				return errors.NotValidf("model %q: hybrid requires first and second members", m.Name)
			}
			if m.First == "hybrid" || m.Second == "hybrid" {
				return errors.NotValidf("model %q: hybrid members must not be hybrids", m.Name)
			}
		}
	}
	return nil
}
