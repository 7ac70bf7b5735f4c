package config

import (
	"io/ioutil"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

/* Some default value of config fields */
const (
	ToolName                      = "yarnlogs"
	DefaultResourceManagerAddress = "localhost:8088"
	DefaultHistoryServerAddress   = "localhost:8188"
	DefaultRequestTimeout         = 30 * time.Second
	DefaultArchiveLocation        = "file:///tmp/logs"
	DefaultArchiveSuffix          = "logs"
	DefaultElasticIndex           = "yarn-container-logs"
	DefaultElasticSize            = 10000
	DefaultParallelism            = 1
	DefaultLogType                = "syslog"
	// EnvConfigFile names a config file used when --config is not given
	EnvConfigFile = "YARN_LOGS_CONFIG"
)

// LogsConfiguration is the config file for yarnlogs
type LogsConfiguration struct {
	// ResourceManagerAddress is host:port of the resource manager web app, eg. rm.xxxxx.cn:8088
	ResourceManagerAddress string `yaml:"resourceManagerAddress,omitempty"`
	// HistoryServerAddress is host:port of the application history server web app
	HistoryServerAddress string `yaml:"historyServerAddress,omitempty"`
	// HistoryEnabled must be set to look up AM containers of finished applications
	HistoryEnabled bool `yaml:"historyEnabled,omitempty"`
	// HTTPSEnabled switches every web service call to https
	HTTPSEnabled bool `yaml:"httpsEnabled,omitempty"`
	// RequestTimeout bounds each web service call, 0 means no timeout
	RequestTimeout time.Duration `yaml:"requestTimeout,omitempty"`

	// Archive describes where aggregated logs are read from
	Archive ArchiveConfig `yaml:"archive,omitempty"`

	// Parallelism is the number of containers retrieved at once
	Parallelism int `yaml:"parallelism,omitempty"`
	// MetricsFile receives retrieval metrics in prometheus text format on exit
	MetricsFile string `yaml:"metricsFile,omitempty"`
	// DefaultLogType is fetched when no log file is requested for a running container
	DefaultLogType string `yaml:"defaultLogType,omitempty"`
}

// ArchiveConfig is config for the aggregated log store
type ArchiveConfig struct {
	// Location is file:///path, hdfs://namenode:8020/path or es://host:9200/index
	Location string `yaml:"location"`
	// Suffix is the per-owner directory holding application logs, <root>/<owner>/<suffix>/<appId>
	Suffix string `yaml:"suffix"`
	// HDFSUser is the user to act as against hdfs, defaults to the current user
	HDFSUser string `yaml:"hdfsUser"`
	// ElasticIndex is used when the location carries no index
	ElasticIndex string `yaml:"elasticIndex"`
	// ElasticSize is the max number of log lines read per log file
	ElasticSize int `yaml:"elasticSize"`
}

// NewDefaultConfig build a default configuration of yarnlogs
func NewDefaultConfig() *LogsConfiguration {
	return &LogsConfiguration{
		ResourceManagerAddress: DefaultResourceManagerAddress,
		HistoryServerAddress:   DefaultHistoryServerAddress,
		RequestTimeout:         DefaultRequestTimeout,
		Archive: ArchiveConfig{
			Location:     DefaultArchiveLocation,
			Suffix:       DefaultArchiveSuffix,
			ElasticIndex: DefaultElasticIndex,
			ElasticSize:  DefaultElasticSize,
		},
		Parallelism:    DefaultParallelism,
		DefaultLogType: DefaultLogType,
	}
}

// LoadFile overlays the yaml file on cfg, fields absent from the file keep their value
func LoadFile(file string, cfg *LogsConfiguration) error {
	data, err := ioutil.ReadFile(file)
	if err != nil {
		return errors.Wrapf(err, "read config file %s", file)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrapf(err, "parse config file %s", file)
	}
	return nil
}

// Validate check the configuration is usable
func (c *LogsConfiguration) Validate() error {
	if c == nil {
		return errors.New("config can't be nil")
	}
	if len(c.ResourceManagerAddress) == 0 {
		return errors.New("resource manager address can't be blank")
	}
	if c.HistoryEnabled && len(c.HistoryServerAddress) == 0 {
		return errors.New("history server address can't be blank when history is enabled")
	}
	if len(c.Archive.Location) == 0 {
		return errors.New("archive location can't be blank")
	}
	if c.Parallelism < 1 {
		return errors.Errorf("parallelism must be at least 1, got %d", c.Parallelism)
	}
	if c.RequestTimeout < 0 {
		return errors.Errorf("request timeout can't be negative, got %v", c.RequestTimeout)
	}
	return nil
}
