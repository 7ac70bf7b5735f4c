/*
Copyright 2020 The Maya Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package archive

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// StoreType is the kind of archive a location points at
type StoreType string

/* archive store types */
const (
	StoreFile         StoreType = "file"
	StoreHDFS         StoreType = "hdfs"
	StoreElastic      StoreType = "es"
	StoreElasticHTTPS StoreType = "es+https"
)

// Location the url of the archive, eg. hdfs://namenode:8020/app-logs?user=yarn
type Location struct {
	Scheme StoreType
	Domain string
	Path   string
	Params url.Values
}

func (l *Location) String() string {
	if l == nil {
		return ""
	}
	result, _ := BuildLocation(l.Scheme, l.Domain, l.Path, l.Params)
	return result
}

// BuildLocation 生成归档URL
func BuildLocation(t StoreType, domain string, p string, params url.Values) (string, error) {
	vars := ""
	if len(params) > 0 {
		vars = fmt.Sprintf("?%s", params.Encode())
	}
	switch t {
	case StoreFile, StoreHDFS, StoreElastic, StoreElasticHTTPS:
		return fmt.Sprintf("%s://%s%s%s", t, domain, path.Join("/", p), vars), nil
	}
	return "", fmt.Errorf("unknown archive type %s", t)
}

// ParseLocation 解析归档URL, a bare absolute path is a local directory
func ParseLocation(location string) (*Location, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, err
	}

	switch {
	case u.Scheme != "":
		t := StoreType(strings.ToLower(u.Scheme))
		switch t {
		case StoreFile, StoreHDFS, StoreElastic, StoreElasticHTTPS:
		default:
			return nil, fmt.Errorf("unsupported archive location %s", location)
		}
		if t == StoreHDFS && u.Host == "" {
			return nil, fmt.Errorf("hdfs archive location %s has no namenode", location)
		}
		if (t == StoreElastic || t == StoreElasticHTTPS) && u.Host == "" {
			return nil, fmt.Errorf("elastic archive location %s has no host", location)
		}
		return &Location{
			Scheme: t,
			Domain: u.Host,
			Path:   u.Path,
			Params: u.Query(),
		}, nil
	case strings.HasPrefix(location, "/"):
		return &Location{
			Scheme: StoreFile,
			Path:   u.Path,
			Params: u.Query(),
		}, nil
	}
	return nil, fmt.Errorf("invalid archive location %s", location)
}

// ElasticURL is the http endpoint of an elastic location
func (l *Location) ElasticURL() string {
	if l.Scheme == StoreElasticHTTPS {
		return "https://" + l.Domain
	}
	return "http://" + l.Domain
}

// ElasticIndex is the first path segment of an elastic location, or def
func (l *Location) ElasticIndex(def string) string {
	index := strings.Trim(l.Path, "/")
	if i := strings.Index(index, "/"); i >= 0 {
		index = index[:i]
	}
	if index == "" {
		return def
	}
	return index
}
