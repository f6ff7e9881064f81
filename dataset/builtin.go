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
	"archive/zip"
	"io"
	"net/http"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/SalouaDaouki/Data612Summer25/base/log"
	"github.com/juju/errors"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

type builtInDataset struct {
	url    string
	path   string
	sep    string
	header bool
}

// Built-in rating datasets: https://grouplens.org/datasets/movielens/
var builtInDatasets = map[string]builtInDataset{
	"ml-100k": {
		url:    "https://files.grouplens.org/datasets/movielens/ml-100k.zip",
		path:   "ml-100k/u.data",
		sep:    "\t",
		header: false,
	},
	"ml-1m": {
		url:    "https://files.grouplens.org/datasets/movielens/ml-1m.zip",
		path:   "ml-1m/ratings.dat",
		sep:    "::",
		header: false,
	},
	"filmtrust": {
		url:    "https://guoguibing.github.io/librec/datasets/filmtrust.zip",
		path:   "filmtrust/ratings.txt",
		sep:    " ",
		header: false,
	},
}

var (
	tempDir    string
	datasetDir string
)

func init() {
	usr, err := user.Current()
	if err != nil {
		log.Logger().Fatal("failed to get user directory", zap.Error(err))
	}
	datasetDir = filepath.Join(usr.HomeDir, ".recbench", "dataset")
	tempDir = filepath.Join(usr.HomeDir, ".recbench", "temp")
}

// BuiltInDatasetNames lists the names accepted by LoadBuiltIn.
func BuiltInDatasetNames() []string {
	names := make([]string, 0, len(builtInDatasets))
	for name := range builtInDatasets {
		names = append(names, name)
	}
	return names
}

// LoadBuiltIn loads a built-in dataset, downloading and unpacking it on
// first use.
func LoadBuiltIn(name string) (*Dataset, error) {
	meta, exist := builtInDatasets[name]
	if !exist {
		return nil, errors.NotFoundf("built-in dataset %q", name)
	}
	dataFile := filepath.Join(datasetDir, meta.path)
	if _, err := os.Stat(dataFile); os.IsNotExist(err) {
		zipFile, err := downloadFromUrl(meta.url, tempDir)
		if err != nil {
			return nil, errors.Trace(err)
		}
		if _, err = unzip(zipFile, datasetDir); err != nil {
			return nil, errors.Trace(err)
		}
	}
	return LoadCSV(dataFile, meta.sep, meta.header)
}

// downloadFromUrl downloads a file from URL into dst.
func downloadFromUrl(src, dst string) (string, error) {
	log.Logger().Info("download dataset", zap.String("source", src), zap.String("destination", dst))
	// Extract file name
	tokens := strings.Split(src, "/")
	fileName := filepath.Join(dst, tokens[len(tokens)-1])
	// Create file
	if err := os.MkdirAll(filepath.Dir(fileName), os.ModePerm); err != nil {
		return fileName, errors.Trace(err)
	}
	output, err := os.Create(fileName)
	if err != nil {
		return fileName, errors.Trace(err)
	}
	defer output.Close()
	// Download file
	response, err := http.Get(src)
	if err != nil {
		return fileName, errors.Trace(err)
	}
	defer response.Body.Close()
	// Save file
	pbReader := progressbar.NewReader(response.Body, progressbar.DefaultBytes(
		response.ContentLength,
		"downloading",
	))
	if _, err = io.Copy(output, &pbReader); err != nil {
		return fileName, errors.Trace(err)
	}
	return fileName, nil
}

// unzip extracts a zip archive into dst.
func unzip(src, dst string) ([]string, error) {
	var fileNames []string
	r, err := zip.OpenReader(src)
	if err != nil {
		return fileNames, errors.Trace(err)
	}
	defer r.Close()
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			return fileNames, errors.Trace(err)
		}
		filePath := filepath.Join(dst, f.Name)
		// Check for ZipSlip. More Info: http://bit.ly/2MsjAWE
		if !strings.HasPrefix(filePath, filepath.Clean(dst)+string(os.PathSeparator)) {
			return fileNames, errors.NotValidf("illegal file path %s", filePath)
		}
		fileNames = append(fileNames, filePath)
		if f.FileInfo().IsDir() {
			if err = os.MkdirAll(filePath, os.ModePerm); err != nil {
				return fileNames, errors.Trace(err)
			}
		} else {
			if err = os.MkdirAll(filepath.Dir(filePath), os.ModePerm); err != nil {
				return fileNames, errors.Trace(err)
			}
			outFile, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
			if err != nil {
				return fileNames, errors.Trace(err)
			}
			if _, err = io.Copy(outFile, rc); err != nil {
				outFile.Close()
				return nil, errors.Trace(err)
			}
			if err = outFile.Close(); err != nil {
				return nil, errors.Trace(err)
			}
		}
		if err = rc.Close(); err != nil {
			return nil, errors.Trace(err)
		}
	}
	return fileNames, nil
}
