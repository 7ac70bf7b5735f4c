package app

import (
	"flag"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v2"

	"code.xxxxx.cn/platform/yarnlogs/pkg/config"
	"code.xxxxx.cn/platform/yarnlogs/pkg/logs"
	"code.xxxxx.cn/platform/yarnlogs/pkg/util/alog"
)

// Options contains everything necessary to run one retrieval
type Options struct {
	configFile string
	// config receives the config flags, only the changed ones are applied
	config *config.LogsConfiguration

	appID                  string
	containerID            string
	nodeAddress            string
	appOwner               string
	amContainers           []string
	logFiles               []string
	showContainerLogInfo   bool
	showApplicationLogInfo bool
	listNodes              bool
	outputDir              string
	size                   int64
}

// NewOptions build option instance
func NewOptions() *Options {
	return &Options{
		configFile: os.Getenv(config.EnvConfigFile),
		config:     config.NewDefaultConfig(),
	}
}

// configFlags copy a config flag from the flag bound configuration
var configFlags = map[string]func(dst, src *config.LogsConfiguration){
	"rm-address":       func(dst, src *config.LogsConfiguration) { dst.ResourceManagerAddress = src.ResourceManagerAddress },
	"history-address":  func(dst, src *config.LogsConfiguration) { dst.HistoryServerAddress = src.HistoryServerAddress },
	"history-enabled":  func(dst, src *config.LogsConfiguration) { dst.HistoryEnabled = src.HistoryEnabled },
	"https":            func(dst, src *config.LogsConfiguration) { dst.HTTPSEnabled = src.HTTPSEnabled },
	"timeout":          func(dst, src *config.LogsConfiguration) { dst.RequestTimeout = src.RequestTimeout },
	"archive-location": func(dst, src *config.LogsConfiguration) { dst.Archive.Location = src.Archive.Location },
	"archive-suffix":   func(dst, src *config.LogsConfiguration) { dst.Archive.Suffix = src.Archive.Suffix },
	"hdfs-user":        func(dst, src *config.LogsConfiguration) { dst.Archive.HDFSUser = src.Archive.HDFSUser },
	"parallelism":      func(dst, src *config.LogsConfiguration) { dst.Parallelism = src.Parallelism },
	"metrics-file":     func(dst, src *config.LogsConfiguration) { dst.MetricsFile = src.MetricsFile },
	"default-log-type": func(dst, src *config.LogsConfiguration) { dst.DefaultLogType = src.DefaultLogType },
}

// AddFlags add cmd flags
func (opt *Options) AddFlags(fs *pflag.FlagSet) {
	hideFlags()

	fs.StringVar(&opt.appID, "application-id", opt.appID, "ApplicationId")
	fs.StringVar(&opt.containerID, "container-id", opt.containerID,
		"ContainerId. By default all available logs are printed, use --log-files to get only specific logs. "+
			"The application id can be omitted when the container id is given")
	fs.StringVar(&opt.nodeAddress, "node-address", opt.nodeAddress, "NodeAddress in the format nodename:port")
	fs.StringVar(&opt.appOwner, "app-owner", opt.appOwner, "AppOwner, the current user when not given")
	fs.StringSliceVar(&opt.amContainers, "am", opt.amContainers,
		"Prints the AM container logs, comma separated attempt positions starting at 1, -1 for the latest "+
			"attempt or ALL for every attempt")
	fs.StringSliceVar(&opt.logFiles, "log-files", opt.logFiles,
		"Comma separated log file names or java regular expressions, ALL or '.*' fetches every log file")
	fs.BoolVar(&opt.showContainerLogInfo, "show-container-log-info", opt.showContainerLogInfo,
		"Show the container log metadata, the log file names and sizes")
	fs.BoolVar(&opt.showApplicationLogInfo, "show-application-log-info", opt.showApplicationLogInfo,
		"Show the application state and its containers")
	fs.BoolVar(&opt.listNodes, "list-nodes", opt.listNodes,
		"Show the nodes holding aggregated logs of a finished application")
	fs.StringVar(&opt.outputDir, "out", opt.outputDir,
		"Local directory for storing individual container logs, one file per container under <dir>/<node>/")
	fs.Int64Var(&opt.size, "size", opt.size,
		"Prints the first n bytes of every log file, negative values print the last n bytes")

	fs.StringVar(&opt.configFile, "config", opt.configFile, "configuration file path, $"+config.EnvConfigFile+" by default")
	fs.StringVar(&opt.config.ResourceManagerAddress, "rm-address", opt.config.ResourceManagerAddress,
		"resource manager web address")
	fs.StringVar(&opt.config.HistoryServerAddress, "history-address", opt.config.HistoryServerAddress,
		"application history server web address")
	fs.BoolVar(&opt.config.HistoryEnabled, "history-enabled", opt.config.HistoryEnabled,
		"look up the am containers of finished applications on the history server")
	fs.BoolVar(&opt.config.HTTPSEnabled, "https", opt.config.HTTPSEnabled, "talk https to the yarn daemons")
	fs.DurationVar(&opt.config.RequestTimeout, "timeout", opt.config.RequestTimeout, "timeout of one web service call")
	fs.StringVar(&opt.config.Archive.Location, "archive-location", opt.config.Archive.Location,
		"aggregated logs location, file:///path, hdfs://namenode:port/path or es://host:port/index")
	fs.StringVar(&opt.config.Archive.Suffix, "archive-suffix", opt.config.Archive.Suffix,
		"directory under each owner holding the aggregated logs")
	fs.StringVar(&opt.config.Archive.HDFSUser, "hdfs-user", opt.config.Archive.HDFSUser, "user to act as against hdfs")
	fs.IntVar(&opt.config.Parallelism, "parallelism", opt.config.Parallelism, "containers retrieved at once")
	fs.StringVar(&opt.config.MetricsFile, "metrics-file", opt.config.MetricsFile,
		"write retrieval metrics in prometheus text format to this file on exit")
	fs.StringVar(&opt.config.DefaultLogType, "default-log-type", opt.config.DefaultLogType,
		"log file fetched from running containers when --log-files is not given")
}

// Complete build the configuration: changed flags > config file > default
func (opt *Options) Complete(fs *pflag.FlagSet) (*config.LogsConfiguration, error) {
	cfg := config.NewDefaultConfig()
	if opt.configFile != "" {
		if err := config.LoadFile(opt.configFile, cfg); err != nil {
			return nil, err
		}
	}
	fs.Visit(func(f *pflag.Flag) {
		if apply, ok := configFlags[f.Name]; ok {
			apply(cfg, opt.config)
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	data, _ := yaml.Marshal(cfg)
	alog.V(4).Infof("Complete config:\n%s", data)
	return cfg, nil
}

func (opt *Options) mode() (logs.Mode, error) {
	switch {
	case opt.showContainerLogInfo && opt.showApplicationLogInfo:
		return logs.ModeFetch, &logs.ValidationError{
			Msg: "Invalid options. Can only accept one of show-application-log-info/show-container-log-info."}
	case opt.showApplicationLogInfo:
		return logs.ModeApplicationLogInfo, nil
	case opt.listNodes:
		return logs.ModeListNodes, nil
	case opt.showContainerLogInfo:
		return logs.ModeContainerLogInfo, nil
	}
	return logs.ModeFetch, nil
}

// Request build and validate the retrieval asked for on the command line, nothing is contacted
func (opt *Options) Request(fs *pflag.FlagSet) (logs.Request, logs.Mode, error) {
	mode, err := opt.mode()
	if err != nil {
		return logs.Request{}, mode, err
	}
	req, err := logs.NewRequest(opt.appID, opt.containerID)
	if err != nil {
		return logs.Request{}, mode, err
	}
	req.NodeID = opt.nodeAddress
	req.AppOwner = opt.appOwner
	req.LogTypes = opt.logFiles
	req.OutputDir = opt.outputDir
	if fs.Changed("size") {
		size := opt.size
		req.Bytes = &size
	}
	if fs.Changed("am") {
		sel, err := logs.ParseAMSelection(opt.amContainers)
		if err != nil {
			return logs.Request{}, mode, err
		}
		req.AMContainers = sel
	}
	if err := req.Validate(mode); err != nil {
		return logs.Request{}, mode, err
	}
	return req, mode, nil
}

var hideOnce sync.Once

// hideFlags hide all flags not needed
func hideFlags() {
	hideOnce.Do(func() {
		pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
		_ = pflag.Set("logtostderr", "true")
		_ = pflag.CommandLine.MarkHidden("log-flush-frequency")
		_ = pflag.CommandLine.MarkHidden("alsologtostderr")
		_ = pflag.CommandLine.MarkHidden("log_backtrace_at")
		_ = pflag.CommandLine.MarkHidden("log_dir")
		_ = pflag.CommandLine.MarkHidden("log_file")
		_ = pflag.CommandLine.MarkHidden("log_file_max_size")
		_ = pflag.CommandLine.MarkHidden("logtostderr")
		_ = pflag.CommandLine.MarkHidden("one_output")
		_ = pflag.CommandLine.MarkHidden("stderrthreshold")
		_ = pflag.CommandLine.MarkHidden("vmodule")
		_ = pflag.CommandLine.MarkHidden("skip_headers")
		_ = pflag.CommandLine.MarkHidden("skip_log_headers")
		_ = pflag.CommandLine.MarkHidden("add_dir_header")
	})
}
