package logs

import (
	"context"
	"os/user"
	"time"

	humanize "github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"code.xxxxx.cn/platform/yarnlogs/pkg/util/alog"
	timeutil "code.xxxxx.cn/platform/yarnlogs/pkg/util/time"
	"code.xxxxx.cn/platform/yarnlogs/pkg/yarn"
)

// Options tunes an Orchestrator
type Options struct {
	// HistoryEnabled allows am container retrieval of finished applications
	HistoryEnabled bool
	// Parallelism is the number of containers processed at once, 1 is sequential
	Parallelism int
	// DefaultLogType is fetched from running containers and am containers when no log type is requested
	DefaultLogType string
	// CurrentUser guesses the application owner when it is not known, os/user when nil
	CurrentUser func() (string, error)
}

// Orchestrator routes retrieval requests to the node managers or the archive
type Orchestrator struct {
	cluster  ClusterService
	nodes    NodeAgent
	archive  ArchiveReader
	reporter *Reporter
	locator  *Locator
	ams      *AMResolver
	opts     Options
}

// NewOrchestrator history may be nil
func NewOrchestrator(cluster ClusterService, history HistoryService, nodes NodeAgent, archive ArchiveReader,
	reporter *Reporter, opts Options) *Orchestrator {
	if opts.Parallelism < 1 {
		opts.Parallelism = 1
	}
	if opts.DefaultLogType == "" {
		opts.DefaultLogType = "syslog"
	}
	if opts.CurrentUser == nil {
		opts.CurrentUser = currentUser
	}
	return &Orchestrator{
		cluster:  cluster,
		nodes:    nodes,
		archive:  archive,
		reporter: reporter,
		locator:  NewLocator(cluster),
		ams:      NewAMResolver(cluster, history),
		opts:     opts,
	}
}

func currentUser() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

// Execute run req in mode and return the result code, 0 on success and -1 on failure
func (o *Orchestrator) Execute(ctx context.Context, req Request, mode Mode) int {
	sec := o.reporter.Section()
	if err := req.Validate(mode); err != nil {
		sec.Errf("%v", err)
		return ResultFailure
	}

	report, err := o.cluster.GetApplicationReport(ctx, req.AppID)
	phase := ClassifyPhase(report, err)
	switch {
	case phase == PhasePending:
		sec.Errf("Logs are not available right now.")
		return ResultFailure
	case err != nil:
		alog.V(2).Infof("get application report of %s: %v", req.AppID, err)
		sec.Errf("Unable to get ApplicationState. Attempting to fetch logs directly from the filesystem.")
	}
	req.AppFinished = phase == PhaseFinished

	if req.AppOwner == "" {
		req.AppOwner = o.guessAppOwner(report)
		if req.AppOwner == "" {
			sec.Errf("Can not find the appOwner. Please specify the correct appOwner")
			sec.Errf("Could not locate application logs for %s", req.AppID)
			return ResultFailure
		}
	}
	req.LogTypes = NormalizeLogTypes(req.LogTypes)
	alog.V(1).Infof("retrieving %s of %s (phase %s, owner %s, container %q, node %q)",
		mode, req.AppID, phase, req.AppOwner, req.ContainerID, req.NodeID)

	switch mode {
	case ModeContainerLogInfo:
		return o.showContainerLogInfo(ctx, req)
	case ModeListNodes:
		return o.showNodesList(ctx, req)
	case ModeApplicationLogInfo:
		return o.showApplicationLogInfo(ctx, req)
	}
	switch {
	case req.AMContainers != nil:
		return o.fetchAMContainerLogs(ctx, req)
	case req.ContainerID != "":
		return o.fetchContainerLogs(ctx, req)
	}
	return o.fetchApplicationLogs(ctx, req)
}

func (o *Orchestrator) guessAppOwner(report *yarn.ApplicationReport) string {
	if report != nil && report.User != "" {
		return report.User
	}
	owner, err := o.opts.CurrentUser()
	if err != nil {
		alog.Warningf("get current user: %v", err)
		return ""
	}
	return owner
}

func (o *Orchestrator) fetchContainerLogs(ctx context.Context, req Request) int {
	sec := o.reporter.Section()
	if req.AppFinished && req.NodeID != "" {
		return o.finishedContainer(ctx, req, sec, true)
	}
	loc, err := o.locator.Locate(ctx, req.ContainerID, req.NodeID, req.NodeHTTPAddress, req.AppFinished)
	if err != nil {
		if req.AppFinished {
			alog.V(2).Infof("locate %s: %v, reading archive without node id", req.ContainerID, err)
			return o.finishedContainer(ctx, req, sec, false)
		}
		sec.Errf("Unable to get logs for this container:%s for the application:%s with the appOwner: %s",
			req.ContainerID, req.AppID, req.AppOwner)
		sec.Errf("The application: %s is still running, and we can not get Container report for the container: %s. "+
			"Please try later or after the application finishes.", req.AppID, req.ContainerID)
		alog.V(2).Infof("locate %s: %v", req.ContainerID, err)
		observeContainer(SourceLive, ResultFailure)
		return ResultFailure
	}
	req = req.WithContainer(loc.ContainerID, loc.NodeID, loc.NodeHTTPAddress)
	if !req.AppFinished {
		return o.runningContainer(ctx, req.WithDefaultLogTypes(o.opts.DefaultLogType), sec)
	}
	return o.finishedContainer(ctx, req, sec, true)
}

func (o *Orchestrator) fetchApplicationLogs(ctx context.Context, req Request) int {
	sec := o.reporter.Section()
	result := ResultFailure
	if req.AppFinished {
		req = req.WithDefaultLogTypes(MatchAll)
		matched, ok := o.matchArchive(ctx, req)
		if !ok {
			sec.Errf("Can not find any log file matching the pattern: %s for the application: %s",
				formatList(req.LogTypes), req.AppID)
		} else {
			result = o.archive.DumpAllContainersLogs(ctx, req.WithLogTypes(matched), sec)
		}
	} else {
		reports, err := o.runningContainers(ctx, req.AppID)
		if err != nil {
			sec.Errf("Unable to get the containers of the application: %s. %v", req.AppID, err)
		} else {
			reqs := make([]Request, 0, len(reports))
			for _, r := range reports {
				c := req.WithContainer(r.ContainerID, r.NodeID, yarn.StripScheme(r.NodeHTTPAddress))
				reqs = append(reqs, c.WithDefaultLogTypes(o.opts.DefaultLogType))
			}
			result = AnySuccess(o.runContainers(ctx, reqs, o.runningContainer))
		}
	}
	if result != ResultSuccess {
		sec.Errf("Can not find the logs for the application: %s with the appOwner: %s", req.AppID, req.AppOwner)
	}
	return result
}

func (o *Orchestrator) fetchAMContainerLogs(ctx context.Context, req Request) int {
	sec := o.reporter.Section()
	req = req.WithDefaultLogTypes(o.opts.DefaultLogType)
	if req.AppFinished && !o.opts.HistoryEnabled {
		sec.Errf("Can not get AMContainers logs for the application:%s with the appOwner:%s", req.AppID, req.AppOwner)
		sec.Errf("This application:%s has finished. Please enable the application-history service or explicitly use "+
			"'yarnlogs --application-id <appId> --container-id <containerId> --node-address <nodeAddress>' "+
			"to get the container logs.", req.AppID)
		return ResultFailure
	}
	ams, err := o.ams.Resolve(ctx, req.AppID, req.AppFinished)
	if err != nil {
		sec.Errf("Unable to get AM container informations for the application:%s", req.AppID)
		sec.Errf("%v", err)
		return ResultFailure
	}
	selected, err := req.AMContainers.Select(ams)
	if err != nil {
		sec.Errf("ERROR: %v", err)
		return ResultFailure
	}
	reqs := make([]Request, 0, len(selected))
	for _, am := range selected {
		reqs = append(reqs, req.WithContainer(am.ContainerID, am.NodeID, am.NodeHTTPAddress))
	}
	result := AnySuccess(o.runContainers(ctx, reqs, o.amContainer))
	if req.AMContainers.All {
		sec.Outf("")
		sec.Outf("Specified ALL for -am option. Printed logs for all am containers.")
	}
	return result
}

func (o *Orchestrator) amContainer(ctx context.Context, req Request, sec *Section) int {
	if !req.AppFinished {
		return o.runningContainer(ctx, req, sec)
	}
	if req.NodeID == "" {
		loc, err := o.locator.Locate(ctx, req.ContainerID, "", "", true)
		if err != nil {
			sec.Errf("%v", err)
			observeContainer(SourceArchive, ResultFailure)
			return ResultFailure
		}
		req = req.WithContainer(loc.ContainerID, loc.NodeID, loc.NodeHTTPAddress)
	}
	return o.finishedContainer(ctx, req, sec, true)
}

// matchArchive expand req.LogTypes against the archive listing, false when patterns were
// given and none matched. MatchAll alone is passed through without listing.
func (o *Orchestrator) matchArchive(ctx context.Context, req Request) ([]string, bool) {
	if IsMatchAll(req.LogTypes) {
		return req.LogTypes, true
	}
	files, err := o.archive.ListFiles(ctx, req)
	if err != nil {
		alog.Warningf("list archived log files of %s: %v, using the requested names", req.AppID, err)
		return req.LogTypes, true
	}
	matched, err := Match(req.LogTypes, files)
	if err != nil {
		alog.Warningf("match %v: %v", req.LogTypes, err)
		return nil, false
	}
	return matched, len(matched) > 0
}

func (o *Orchestrator) finishedContainer(ctx context.Context, req Request, sec *Section, withNodeID bool) int {
	req = req.WithDefaultLogTypes(MatchAll)
	matched, ok := o.matchArchive(ctx, req)
	if !ok {
		sec.Errf("Can not find any log file matching the pattern: %s for the container: %s within the application: %s",
			formatList(req.LogTypes), req.ContainerID, req.AppID)
		observeContainer(SourceArchive, ResultFailure)
		return ResultFailure
	}
	var result int
	if withNodeID {
		result = o.archive.DumpContainerLogs(ctx, req.WithLogTypes(matched), sec, true)
	} else {
		result = o.archive.DumpContainerLogsWithoutNodeID(ctx, req.WithLogTypes(matched), sec)
	}
	observeContainer(SourceArchive, result)
	return result
}

func (o *Orchestrator) runningContainer(ctx context.Context, req Request, sec *Section) int {
	result := o.fetchRunningContainer(ctx, req, sec)
	observeContainer(SourceLive, result)
	return result
}

func (o *Orchestrator) fetchRunningContainer(ctx context.Context, req Request, sec *Section) int {
	if req.NodeHTTPAddress == "" {
		sec.Errf("Can not get the logs for the container: %s", req.ContainerID)
		sec.Errf("The node http address is required to get container logs for the Running application.")
		return ResultFailure
	}

	var matched []string
	infos, err := o.nodes.ListLogFiles(ctx, req.NodeHTTPAddress, req.ContainerID)
	if err != nil {
		alog.Warningf("list log files of %s on %s: %v, using the requested names", req.ContainerID, req.NodeHTTPAddress, err)
		matched = append(matched, req.LogTypes...)
	} else {
		names := make([]string, 0, len(infos))
		for _, info := range infos {
			names = append(names, info.FileName)
		}
		if matched, err = Match(req.LogTypes, names); err != nil {
			sec.Errf("%v", err)
			return ResultFailure
		}
	}
	if len(matched) == 0 {
		sec.Errf("Can not find any log file matching the pattern: %s for the container: %s within the application: %s",
			formatList(req.LogTypes), req.ContainerID, req.AppID)
		return ResultFailure
	}

	w, err := sec.ContainerWriter(req.NodeID, req.ContainerID)
	if err != nil {
		sec.Errf("%v", err)
		return ResultFailure
	}
	foundAnyLogs := false
	WriteContainerHeader(w, req.ContainerID, req.NodeID)
	for _, logType := range matched {
		if ctx.Err() != nil {
			break
		}
		WriteLogTypeHeader(w, logType, timeutil.Format(time.Now()), -1)
		n, err := o.nodes.FetchLogFile(ctx, req.NodeHTTPAddress, req.ContainerID, logType, req.Bytes, w)
		if err != nil {
			alog.V(2).Infof("fetch %s of %s: %v", logType, req.ContainerID, err)
			sec.Errf("Can not find the log file:%s for the container:%s in NodeManager:%s",
				logType, req.ContainerID, req.NodeID)
			continue
		}
		_, _ = w.Write([]byte("\n"))
		WriteRunningLogTypeFooter(w, logType, req.ContainerID)
		alog.V(3).Infof("fetched %s of %s from %s", humanize.Bytes(uint64(n)), logType, req.NodeHTTPAddress)
		ObserveFile(SourceLive, n)
		foundAnyLogs = true
	}
	// the output file stays locked until closed, release it before the archive appends to it
	if err := w.Close(); err != nil {
		alog.Warningf("close output of %s: %v", req.ContainerID, err)
	}

	if ctx.Err() != nil {
		alog.V(2).Infof("retrieval of %s cancelled, skipping the aggregated logs", req.ContainerID)
		if foundAnyLogs {
			return ResultSuccess
		}
		return ResultFailure
	}
	// parts of the logs may already be aggregated
	result := o.archive.DumpContainerLogs(ctx, req.WithLogTypes(matched), sec, false)
	if foundAnyLogs || result == ResultSuccess {
		return ResultSuccess
	}
	return ResultFailure
}

func (o *Orchestrator) runningContainers(ctx context.Context, appID string) ([]yarn.ContainerReport, error) {
	attempts, err := o.cluster.GetApplicationAttempts(ctx, appID)
	if err != nil {
		return nil, &TransportError{Op: "get application attempts of " + appID, Err: err}
	}
	var reports []yarn.ContainerReport
	for _, a := range attempts {
		containers, err := o.cluster.GetContainers(ctx, a.AppAttemptID)
		if err != nil {
			return nil, &TransportError{Op: "get containers of " + a.AppAttemptID, Err: err}
		}
		reports = append(reports, containers...)
	}
	return reports, nil
}

func (o *Orchestrator) showContainerLogInfo(ctx context.Context, req Request) int {
	sec := o.reporter.Section()
	if req.AppFinished {
		return o.archive.PrintContainerLogMetadata(ctx, req, sec)
	}
	reports, err := o.runningContainers(ctx, req.AppID)
	if err != nil {
		sec.Errf("%v", err)
		return ResultFailure
	}
	filtered := FilterContainers(reports, req.ContainerID, req.NodeID)
	if len(filtered) == 0 {
		if req.ContainerID != "" {
			sec.Errf("Trying to get container with ContainerId: %s", req.ContainerID)
		}
		if req.NodeID != "" {
			sec.Errf("Trying to get container from NodeManager: %s", req.NodeID)
		}
		sec.Errf("Can not find any matched containers for the application: %s", req.AppID)
		return ResultFailure
	}
	reqs := make([]Request, 0, len(filtered))
	for _, r := range filtered {
		reqs = append(reqs, req.WithContainer(r.ContainerID, r.NodeID, yarn.StripScheme(r.NodeHTTPAddress)))
	}
	return AnySuccess(o.runContainers(ctx, reqs, o.printContainerLogInfo))
}

func (o *Orchestrator) printContainerLogInfo(ctx context.Context, req Request, sec *Section) int {
	infos, err := o.nodes.ListLogFiles(ctx, req.NodeHTTPAddress, req.ContainerID)
	if err != nil {
		sec.Errf("Unable to fetch log files list of the container: %s. %v", req.ContainerID, err)
		return ResultFailure
	}
	w := sec.Writer()
	WriteLogFileInfoHeader(w, req.ContainerID, req.NodeID)
	for _, info := range infos {
		WriteLogFileInfo(w, info.FileName, LogLengthText(info.FileSize))
	}
	return ResultSuccess
}

func (o *Orchestrator) showNodesList(ctx context.Context, req Request) int {
	sec := o.reporter.Section()
	if !req.AppFinished {
		sec.Errf("The --list-nodes option can be only used with finished applications")
		return ResultFailure
	}
	return o.archive.PrintNodesList(ctx, req, sec)
}

func (o *Orchestrator) showApplicationLogInfo(ctx context.Context, req Request) int {
	sec := o.reporter.Section()
	if req.AppFinished {
		sec.Outf(applicationStateLine, "Completed.")
		return o.archive.PrintContainersList(ctx, req, sec)
	}
	reports, err := o.runningContainers(ctx, req.AppID)
	if err != nil {
		sec.Errf("%v", err)
		return ResultFailure
	}
	filtered := FilterContainers(reports, req.ContainerID, req.NodeID)
	if len(filtered) == 0 {
		sec.Errf("Can not find any containers for the application:%s.", req.AppID)
		return ResultFailure
	}
	sec.Outf(applicationStateLine, "Running.")
	for _, r := range filtered {
		sec.Outf(containerOnNodePattern, r.ContainerID, r.NodeID)
	}
	return ResultSuccess
}

// runContainers apply fetch to every request and return the per container results in request order.
// With parallelism above one the containers run concurrently, each into a buffered section
// flushed whole and in request order. Containers not started before ctx is done count as failed.
func (o *Orchestrator) runContainers(ctx context.Context, reqs []Request,
	fetch func(context.Context, Request, *Section) int) []int {
	results := make([]int, len(reqs))
	for i := range results {
		results[i] = ResultFailure
	}
	if o.opts.Parallelism <= 1 || len(reqs) <= 1 {
		for i, req := range reqs {
			if ctx.Err() != nil {
				alog.Warningf("retrieval cancelled, %d of %d containers processed", i, len(reqs))
				break
			}
			results[i] = fetch(ctx, req, o.reporter.Section())
		}
		return results
	}

	sections := make([]*Section, len(reqs))
	done := make([]chan struct{}, len(reqs))
	for i := range reqs {
		sections[i] = o.reporter.BufferedSection()
		done[i] = make(chan struct{})
	}
	flushed := make(chan struct{})
	go func() {
		defer close(flushed)
		for i := range reqs {
			<-done[i]
			if err := sections[i].Flush(); err != nil {
				alog.Warningf("flush output of %s: %v", reqs[i].ContainerID, err)
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.Parallelism)
	launched := 0
	for i := range reqs {
		if gctx.Err() != nil {
			alog.Warningf("retrieval cancelled, %d of %d containers started", launched, len(reqs))
			break
		}
		i := i
		launched++
		g.Go(func() error {
			defer close(done[i])
			results[i] = fetch(gctx, reqs[i], sections[i])
			return nil
		})
	}
	_ = g.Wait()
	for i := launched; i < len(reqs); i++ {
		close(done[i])
	}
	<-flushed
	return results
}
