package logs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"code.xxxxx.cn/platform/yarnlogs/pkg/yarn"
)

const (
	testApp        = "application_1410901177871_0001"
	testContainer1 = "container_1410901177871_0001_01_000001"
	testContainer2 = "container_1410901177871_0001_01_000002"
	testContainer3 = "container_1410901177871_0001_01_000003"
)

type fakeCluster struct {
	mu sync.Mutex

	report      *yarn.ApplicationReport
	reportErr   error
	attempts    []yarn.AttemptReport
	attemptsErr error
	containers  map[string][]yarn.ContainerReport
	reports     map[string]*yarn.ContainerReport
	reportCalls int
}

func (f *fakeCluster) GetApplicationReport(ctx context.Context, appID string) (*yarn.ApplicationReport, error) {
	return f.report, f.reportErr
}

func (f *fakeCluster) GetApplicationAttempts(ctx context.Context, appID string) ([]yarn.AttemptReport, error) {
	return f.attempts, f.attemptsErr
}

func (f *fakeCluster) GetContainers(ctx context.Context, attemptID string) ([]yarn.ContainerReport, error) {
	return f.containers[attemptID], nil
}

func (f *fakeCluster) GetContainerReport(ctx context.Context, containerID string) (*yarn.ContainerReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reportCalls++
	if r, ok := f.reports[containerID]; ok {
		return r, nil
	}
	return nil, &yarn.StatusError{URL: containerID, Code: http.StatusServiceUnavailable}
}

type fakeHistory struct {
	attempts []yarn.HistoryAttempt
	err      error
}

func (f *fakeHistory) GetAppAttempts(ctx context.Context, appID string) ([]yarn.HistoryAttempt, error) {
	return f.attempts, f.err
}

type fakeNodes struct {
	mu sync.Mutex

	// files by container id
	files   map[string][]yarn.LogFileInfo
	listErr error
	// contents by container id + "/" + file name, missing ones fail
	contents map[string]string
	fetched  []string
	// block makes every fetch wait for the context to end
	block bool
}

func (f *fakeNodes) ListLogFiles(ctx context.Context, nodeAddress, containerID string) ([]yarn.LogFileInfo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.files[containerID], nil
}

func (f *fakeNodes) FetchLogFile(ctx context.Context, nodeAddress, containerID, fileName string,
	size *int64, w io.Writer) (int64, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, containerID+"/"+fileName)
	content, ok := f.contents[containerID+"/"+fileName]
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	if !ok {
		return 0, &yarn.StatusError{URL: fileName, Code: http.StatusNotFound}
	}
	n, err := io.WriteString(w, content)
	return int64(n), err
}

type dumpCall struct {
	kind          string
	containerID   string
	nodeID        string
	logTypes      []string
	reportMissing bool
}

type fakeArchive struct {
	mu sync.Mutex

	files     []string
	listErr   error
	listCalls int
	result    int
	calls     []dumpCall
}

func (f *fakeArchive) record(kind string, req Request, reportMissing bool, out *Section) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, dumpCall{kind: kind, containerID: req.ContainerID, nodeID: req.NodeID,
		logTypes: req.LogTypes, reportMissing: reportMissing})
	out.Outf("archive %s %s %v", kind, req.ContainerID, req.LogTypes)
	return f.result
}

func (f *fakeArchive) ListFiles(ctx context.Context, req Request) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return f.files, f.listErr
}

func (f *fakeArchive) DumpContainerLogs(ctx context.Context, req Request, out *Section, reportMissing bool) int {
	return f.record("container", req, reportMissing, out)
}

func (f *fakeArchive) DumpContainerLogsWithoutNodeID(ctx context.Context, req Request, out *Section) int {
	return f.record("without-node", req, true, out)
}

func (f *fakeArchive) DumpAllContainersLogs(ctx context.Context, req Request, out *Section) int {
	return f.record("all", req, true, out)
}

func (f *fakeArchive) PrintContainerLogMetadata(ctx context.Context, req Request, out *Section) int {
	return f.record("metadata", req, true, out)
}

func (f *fakeArchive) PrintNodesList(ctx context.Context, req Request, out *Section) int {
	return f.record("nodes", req, true, out)
}

func (f *fakeArchive) PrintContainersList(ctx context.Context, req Request, out *Section) int {
	return f.record("containers", req, true, out)
}

func (f *fakeNodes) fetchedFiles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.fetched...)
}

func (f *fakeArchive) dumpCalls() []dumpCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]dumpCall{}, f.calls...)
}

func fixedUser(name string) func() (string, error) {
	return func() (string, error) {
		if name == "" {
			return "", fmt.Errorf("no user")
		}
		return name, nil
	}
}
