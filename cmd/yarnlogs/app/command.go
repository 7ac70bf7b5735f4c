package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"code.xxxxx.cn/platform/yarnlogs/pkg/archive"
	"code.xxxxx.cn/platform/yarnlogs/pkg/config"
	"code.xxxxx.cn/platform/yarnlogs/pkg/logs"
	"code.xxxxx.cn/platform/yarnlogs/pkg/util/alog"
	utilflag "code.xxxxx.cn/platform/yarnlogs/pkg/util/flag"
	"code.xxxxx.cn/platform/yarnlogs/pkg/util/flock"
	"code.xxxxx.cn/platform/yarnlogs/pkg/version"
	"code.xxxxx.cn/platform/yarnlogs/pkg/version/verflag"
	"code.xxxxx.cn/platform/yarnlogs/pkg/yarn"
)

// NewLogsCommand build the yarnlogs command, the retrieval result code is stored in result
func NewLogsCommand(out, errOut io.Writer, result *int) *cobra.Command {
	opts := NewOptions()
	cmd := &cobra.Command{
		Use:   config.ToolName,
		Short: "Dump the container logs of a yarn application",
		Long: `yarnlogs prints the logs of yarn containers. Logs of running containers are read from their
node managers, logs of finished applications from the aggregated log archive.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if verflag.PrintIfRequested(out) {
				*result = logs.ResultSuccess
				return nil
			}
			utilflag.PrintFlags(cmd.Flags())
			alog.V(1).Infof("yarnlogs version: %+v", version.Get())

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			*result = Run(ctx, opts, cmd.Flags(), out, errOut)
			return nil
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	opts.AddFlags(cmd.Flags())
	return cmd
}

// Run validate the request, wire the collaborators and execute the retrieval
func Run(ctx context.Context, opt *Options, fs *pflag.FlagSet, out, errOut io.Writer) int {
	cfg, err := opt.Complete(fs)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return logs.ResultFailure
	}
	req, mode, err := opt.Request(fs)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return logs.ResultFailure
	}

	store, err := archive.New(cfg.Archive)
	if err != nil {
		fmt.Fprintf(errOut, "Can not open the aggregated logs at %s. %v\n", cfg.Archive.Location, err)
		return logs.ResultFailure
	}
	defer func() {
		if err := store.Close(); err != nil {
			alog.Warningf("close archive: %v", err)
		}
	}()

	var history logs.HistoryService
	if cfg.HistoryEnabled {
		history = yarn.NewHistoryClient(cfg.HistoryServerAddress, cfg.HTTPSEnabled, cfg.RequestTimeout)
	}
	orchestrator := logs.NewOrchestrator(
		yarn.NewResourceManagerClient(cfg.ResourceManagerAddress, cfg.HTTPSEnabled, cfg.RequestTimeout),
		history,
		yarn.NewNodeManagerClient(cfg.HTTPSEnabled, cfg.RequestTimeout),
		store,
		logs.NewReporter(out, errOut, req.OutputDir),
		logs.Options{
			HistoryEnabled: cfg.HistoryEnabled,
			Parallelism:    cfg.Parallelism,
			DefaultLogType: cfg.DefaultLogType,
		})

	result := orchestrator.Execute(ctx, req, mode)
	if cfg.MetricsFile != "" {
		if err := writeMetrics(cfg.MetricsFile); err != nil {
			alog.Errorf("write metrics to %s: %v", cfg.MetricsFile, err)
		}
	}
	return result
}

// writeMetrics hold <file>.lock while the textfile is written
func writeMetrics(file string) error {
	lock, err := flock.TryAcquire(file + ".lock")
	if err != nil {
		return errors.Wrapf(err, "lock %s", file)
	}
	defer lock.Close()
	return logs.WriteMetrics(file)
}
