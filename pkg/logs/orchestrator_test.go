package logs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/kylelemons/godebug/pretty"

	"code.xxxxx.cn/platform/yarnlogs/pkg/yarn"
)

type harness struct {
	cluster *fakeCluster
	history *fakeHistory
	nodes   *fakeNodes
	archive *fakeArchive
	out     bytes.Buffer
	errOut  bytes.Buffer
	opts    Options
}

func newHarness(state yarn.ApplicationState) *harness {
	return &harness{
		cluster: &fakeCluster{
			report:     &yarn.ApplicationReport{ID: testApp, User: "alice", State: state},
			containers: map[string][]yarn.ContainerReport{},
			reports:    map[string]*yarn.ContainerReport{},
		},
		history: &fakeHistory{},
		nodes:   &fakeNodes{files: map[string][]yarn.LogFileInfo{}, contents: map[string]string{}},
		archive: &fakeArchive{result: ResultSuccess},
		opts:    Options{CurrentUser: fixedUser("bob")},
	}
}

func (h *harness) execute(t *testing.T, req Request, mode Mode) int {
	t.Helper()
	return h.executeContext(context.Background(), req, mode)
}

func (h *harness) executeContext(ctx context.Context, req Request, mode Mode) int {
	o := NewOrchestrator(h.cluster, h.history, h.nodes, h.archive, NewReporter(&h.out, &h.errOut, ""), h.opts)
	return o.Execute(ctx, req, mode)
}

func (h *harness) runningContainers(n int) {
	attempt := "appattempt_1410901177871_0001_000001"
	h.cluster.attempts = []yarn.AttemptReport{{ID: 1, AppAttemptID: attempt, ContainerID: testContainer1,
		NodeID: "nm1:45454", NodeHTTPAddress: "http://nm1:8042"}}
	for i := 1; i <= n; i++ {
		cid := fmt.Sprintf("container_1410901177871_0001_01_%06d", i)
		h.cluster.containers[attempt] = append(h.cluster.containers[attempt], yarn.ContainerReport{
			ContainerID: cid, NodeID: fmt.Sprintf("nm%d:45454", i), NodeHTTPAddress: fmt.Sprintf("http://nm%d:8042", i)})
		h.nodes.files[cid] = []yarn.LogFileInfo{{FileName: "syslog", FileSize: "4"}, {FileName: "stdout", FileSize: "3"}}
	}
}

func request(t *testing.T, containerID string) Request {
	req, err := NewRequest(testApp, containerID)
	if err != nil {
		t.Fatal(err)
	}
	return req
}

// TestFinishedContainerMatchesArchiveListing .
func TestFinishedContainerMatchesArchiveListing(t *testing.T) {
	h := newHarness(yarn.StateFinished)
	h.archive.files = []string{"syslog", "stdout"}
	req := request(t, testContainer1)
	req.NodeID = "nm1:45454"
	req.LogTypes = []string{"syslog"}

	if code := h.execute(t, req, ModeFetch); code != ResultSuccess {
		t.Fatalf("code = %d, stderr %q", code, h.errOut.String())
	}
	want := []dumpCall{{kind: "container", containerID: testContainer1, nodeID: "nm1:45454",
		logTypes: []string{"syslog"}, reportMissing: true}}
	if diff := pretty.Compare(h.archive.dumpCalls(), want); diff != "" {
		t.Errorf("dump calls diff (-got +want)\n%s", diff)
	}
	if h.cluster.reportCalls != 0 {
		t.Errorf("container with known node should not be located")
	}
}

// TestFinishedContainerMatchAllSkipsListing .
func TestFinishedContainerMatchAllSkipsListing(t *testing.T) {
	for _, logTypes := range [][]string{nil, {"ALL"}, {"syslog", ".*"}} {
		h := newHarness(yarn.StateKilled)
		req := request(t, testContainer1)
		req.NodeID = "nm1:45454"
		req.LogTypes = logTypes
		if code := h.execute(t, req, ModeFetch); code != ResultSuccess {
			t.Errorf("%v: code = %d", logTypes, code)
		}
		if h.archive.listCalls != 0 {
			t.Errorf("%v: archive should not be listed", logTypes)
		}
		if calls := h.archive.dumpCalls(); len(calls) != 1 || !IsMatchAll(calls[0].logTypes) {
			t.Errorf("%v: unexpected calls %+v", logTypes, calls)
		}
	}
}

// TestFinishedContainerNoMatch .
func TestFinishedContainerNoMatch(t *testing.T) {
	h := newHarness(yarn.StateFinished)
	h.archive.files = []string{"syslog"}
	req := request(t, testContainer1)
	req.NodeID = "nm1:45454"
	req.LogTypes = []string{"gc"}

	if code := h.execute(t, req, ModeFetch); code != ResultFailure {
		t.Errorf("code = %d", code)
	}
	if len(h.archive.dumpCalls()) != 0 {
		t.Errorf("archive should not be read")
	}
	want := "Can not find any log file matching the pattern: [gc] for the container: " + testContainer1 +
		" within the application: " + testApp
	if !strings.Contains(h.errOut.String(), want) {
		t.Errorf("stderr %q", h.errOut.String())
	}
}

// TestFinishedContainerListingFailure .
func TestFinishedContainerListingFailure(t *testing.T) {
	h := newHarness(yarn.StateFinished)
	h.archive.listErr = errors.New("namenode down")
	req := request(t, testContainer1)
	req.NodeID = "nm1:45454"
	req.LogTypes = []string{"sys"}

	h.execute(t, req, ModeFetch)
	if calls := h.archive.dumpCalls(); len(calls) != 1 || calls[0].logTypes[0] != "sys" {
		t.Errorf("requested names should be used as is, got %+v", calls)
	}
}

// TestFinishedContainerWithoutNodeID .
func TestFinishedContainerWithoutNodeID(t *testing.T) {
	h := newHarness(yarn.StateFailed)
	if code := h.execute(t, request(t, testContainer1), ModeFetch); code != ResultSuccess {
		t.Errorf("code = %d", code)
	}
	if calls := h.archive.dumpCalls(); len(calls) != 1 || calls[0].kind != "without-node" {
		t.Errorf("unexpected calls %+v", calls)
	}
}

// TestRunningContainerUnlocatable .
func TestRunningContainerUnlocatable(t *testing.T) {
	h := newHarness(yarn.StateRunning)
	if code := h.execute(t, request(t, testContainer2), ModeFetch); code != ResultFailure {
		t.Errorf("code = %d", code)
	}
	if len(h.archive.dumpCalls()) != 0 || len(h.nodes.fetched) != 0 {
		t.Errorf("nothing should be fetched")
	}
	if !strings.Contains(h.errOut.String(), "is still running, and we can not get Container report") {
		t.Errorf("stderr %q", h.errOut.String())
	}
}

// TestRunningContainerWithoutAddress .
func TestRunningContainerWithoutAddress(t *testing.T) {
	h := newHarness(yarn.StateRunning)
	h.cluster.reports[testContainer2] = &yarn.ContainerReport{ContainerID: testContainer2, NodeID: "nm2:45454"}
	if code := h.execute(t, request(t, testContainer2), ModeFetch); code != ResultFailure {
		t.Errorf("code = %d", code)
	}
	if len(h.archive.dumpCalls()) != 0 {
		t.Errorf("archive should not be read")
	}
	if !strings.Contains(h.errOut.String(), "The node http address is required") {
		t.Errorf("stderr %q", h.errOut.String())
	}
}

// TestRunningContainerLive .
func TestRunningContainerLive(t *testing.T) {
	h := newHarness(yarn.StateRunning)
	h.archive.result = ResultFailure
	h.cluster.reports[testContainer1] = &yarn.ContainerReport{ContainerID: testContainer1, NodeID: "nm1:45454",
		NodeHTTPAddress: "http://nm1:8042"}
	h.nodes.files[testContainer1] = []yarn.LogFileInfo{{FileName: "syslog"}, {FileName: "stdout"}, {FileName: "stderr"}}
	h.nodes.contents[testContainer1+"/stdout"] = "out"

	req := request(t, testContainer1)
	req.LogTypes = []string{"std"}
	if code := h.execute(t, req, ModeFetch); code != ResultSuccess {
		t.Fatalf("code = %d, stderr %q", code, h.errOut.String())
	}
	out := h.out.String()
	for _, want := range []string{
		"Container: " + testContainer1 + " on nm1:45454\n",
		"LogType:stdout\n",
		"Log Contents:\nout\nEnd of LogType:stdout. This log file belongs to a running container (" +
			testContainer1 + ") and so may not be complete.\n",
		"LogType:stderr\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout misses %q:\n%s", want, out)
		}
	}
	if want := "Can not find the log file:stderr for the container:" + testContainer1 + " in NodeManager:nm1:45454"; !strings.Contains(h.errOut.String(), want) {
		t.Errorf("stderr %q", h.errOut.String())
	}
	calls := h.archive.dumpCalls()
	if len(calls) != 1 || calls[0].reportMissing || calls[0].kind != "container" {
		t.Errorf("archive fallback should be checked quietly, got %+v", calls)
	}
	if diff := pretty.Compare(calls[0].logTypes, []string{"stdout", "stderr"}); diff != "" {
		t.Errorf("fallback log types diff (-got +want)\n%s", diff)
	}
}

// TestRunningContainerDefaultsToSyslog .
func TestRunningContainerDefaultsToSyslog(t *testing.T) {
	h := newHarness(yarn.StateRunning)
	h.cluster.reports[testContainer1] = &yarn.ContainerReport{ContainerID: testContainer1, NodeID: "nm1:45454",
		NodeHTTPAddress: "nm1:8042"}
	h.nodes.files[testContainer1] = []yarn.LogFileInfo{{FileName: "syslog"}, {FileName: "stdout"}}
	h.nodes.contents[testContainer1+"/syslog"] = "sys"

	h.execute(t, request(t, testContainer1), ModeFetch)
	if diff := pretty.Compare(h.nodes.fetched, []string{testContainer1 + "/syslog"}); diff != "" {
		t.Errorf("fetched diff (-got +want)\n%s", diff)
	}
}

// TestRunningContainerListingFailure .
func TestRunningContainerListingFailure(t *testing.T) {
	h := newHarness(yarn.StateRunning)
	h.cluster.reports[testContainer1] = &yarn.ContainerReport{ContainerID: testContainer1, NodeID: "nm1:45454",
		NodeHTTPAddress: "nm1:8042"}
	h.nodes.listErr = errors.New("connection refused")
	h.nodes.contents[testContainer1+"/gc.log"] = "gc"

	req := request(t, testContainer1)
	req.LogTypes = []string{"gc.log"}
	if code := h.execute(t, req, ModeFetch); code != ResultSuccess {
		t.Errorf("code = %d", code)
	}
	if diff := pretty.Compare(h.nodes.fetched, []string{testContainer1 + "/gc.log"}); diff != "" {
		t.Errorf("fetched diff (-got +want)\n%s", diff)
	}
}

// TestRunningApplicationAnySuccess .
func TestRunningApplicationAnySuccess(t *testing.T) {
	for _, parallelism := range []int{1, 3} {
		h := newHarness(yarn.StateRunning)
		h.opts.Parallelism = parallelism
		h.archive.result = ResultFailure
		h.runningContainers(3)
		h.nodes.contents[testContainer2+"/syslog"] = "two"

		if code := h.execute(t, request(t, ""), ModeFetch); code != ResultSuccess {
			t.Errorf("parallelism %d: code = %d", parallelism, code)
		}
		if strings.Contains(h.errOut.String(), "Can not find the logs for the application") {
			t.Errorf("parallelism %d: partial failure should not be reported as failure", parallelism)
		}
	}

	h := newHarness(yarn.StateRunning)
	h.archive.result = ResultFailure
	h.runningContainers(3)
	if code := h.execute(t, request(t, ""), ModeFetch); code != ResultFailure {
		t.Errorf("code = %d", code)
	}
	if want := "Can not find the logs for the application: " + testApp + " with the appOwner: alice"; !strings.Contains(h.errOut.String(), want) {
		t.Errorf("stderr %q", h.errOut.String())
	}
}

// TestParallelOutputOrder .
func TestParallelOutputOrder(t *testing.T) {
	h := newHarness(yarn.StateRunning)
	h.opts.Parallelism = 4
	h.runningContainers(6)
	for i := 1; i <= 6; i++ {
		cid := fmt.Sprintf("container_1410901177871_0001_01_%06d", i)
		h.nodes.contents[cid+"/syslog"] = strings.Repeat(fmt.Sprintf("%d", i), 64)
	}
	if code := h.execute(t, request(t, ""), ModeFetch); code != ResultSuccess {
		t.Fatalf("code = %d", code)
	}
	out := h.out.String()
	last := -1
	for i := 1; i <= 6; i++ {
		header := ContainerOnNode(fmt.Sprintf("container_1410901177871_0001_01_%06d", i), fmt.Sprintf("nm%d:45454", i))
		idx := strings.Index(out, header)
		if idx <= last {
			t.Fatalf("container %d out of order:\n%s", i, out)
		}
		last = idx
	}
}

// TestCancelledRetrieval .
func TestCancelledRetrieval(t *testing.T) {
	tests := []struct {
		parallelism int
		want        []string
	}{
		{parallelism: 1, want: []string{"container_1410901177871_0001_01_000001/syslog"}},
		{parallelism: 2, want: []string{
			"container_1410901177871_0001_01_000001/syslog",
			"container_1410901177871_0001_01_000002/syslog",
		}},
	}
	for _, tt := range tests {
		h := newHarness(yarn.StateRunning)
		h.opts.Parallelism = tt.parallelism
		h.runningContainers(6)
		h.nodes.block = true

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		done := make(chan int, 1)
		go func() {
			done <- h.executeContext(ctx, request(t, ""), ModeFetch)
		}()
		var code int
		select {
		case code = <-done:
		case <-time.After(5 * time.Second):
			t.Fatalf("parallelism %d: retrieval did not stop after cancellation", tt.parallelism)
		}
		cancel()

		if code != ResultFailure {
			t.Errorf("parallelism %d: code = %d", tt.parallelism, code)
		}
		fetched := h.nodes.fetchedFiles()
		sort.Strings(fetched)
		if diff := pretty.Compare(fetched, tt.want); diff != "" {
			t.Errorf("parallelism %d: fetched diff (-got +want)\n%s", tt.parallelism, diff)
		}
		if calls := h.archive.dumpCalls(); len(calls) != 0 {
			t.Errorf("parallelism %d: archive read after cancellation: %+v", tt.parallelism, calls)
		}
	}
}

// TestFinishedApplication .
func TestFinishedApplication(t *testing.T) {
	h := newHarness(yarn.StateFinished)
	h.archive.files = []string{"syslog", "stdout"}
	req := request(t, "")
	req.LogTypes = []string{"stdout"}
	if code := h.execute(t, req, ModeFetch); code != ResultSuccess {
		t.Errorf("code = %d", code)
	}
	if calls := h.archive.dumpCalls(); len(calls) != 1 || calls[0].kind != "all" || calls[0].logTypes[0] != "stdout" {
		t.Errorf("unexpected calls %+v", calls)
	}

	h = newHarness(yarn.StateFinished)
	h.archive.files = []string{"syslog"}
	req.LogTypes = []string{"stdout"}
	if code := h.execute(t, req, ModeFetch); code != ResultFailure {
		t.Errorf("code = %d", code)
	}
	if want := "Can not find any log file matching the pattern: [stdout] for the application: " + testApp; !strings.Contains(h.errOut.String(), want) {
		t.Errorf("stderr %q", h.errOut.String())
	}
}

// TestPendingApplication .
func TestPendingApplication(t *testing.T) {
	for _, state := range []yarn.ApplicationState{yarn.StateNew, yarn.StateNewSaving, yarn.StateSubmitted} {
		h := newHarness(state)
		if code := h.execute(t, request(t, ""), ModeFetch); code != ResultFailure {
			t.Errorf("%s: code = %d", state, code)
		}
		if h.errOut.String() != "Logs are not available right now.\n" {
			t.Errorf("%s: stderr %q", state, h.errOut.String())
		}
	}
}

// TestUnknownStateReadsArchive .
func TestUnknownStateReadsArchive(t *testing.T) {
	h := newHarness(yarn.StateRunning)
	h.cluster.report = nil
	h.cluster.reportErr = errors.New("rm down")
	if code := h.execute(t, request(t, ""), ModeFetch); code != ResultSuccess {
		t.Errorf("code = %d", code)
	}
	if !strings.Contains(h.errOut.String(), "Unable to get ApplicationState. Attempting to fetch logs directly from the filesystem.") {
		t.Errorf("stderr %q", h.errOut.String())
	}
	if calls := h.archive.dumpCalls(); len(calls) != 1 || calls[0].kind != "all" {
		t.Errorf("unexpected calls %+v", calls)
	}
}

// TestAppOwner .
func TestAppOwner(t *testing.T) {
	h := newHarness(yarn.StateFinished)
	h.cluster.report = nil
	h.cluster.reportErr = errors.New("rm down")
	h.opts.CurrentUser = fixedUser("")
	if code := h.execute(t, request(t, ""), ModeFetch); code != ResultFailure {
		t.Errorf("code = %d", code)
	}
	if !strings.Contains(h.errOut.String(), "Can not find the appOwner") {
		t.Errorf("stderr %q", h.errOut.String())
	}

	h = newHarness(yarn.StateFinished)
	h.cluster.report = nil
	h.cluster.reportErr = errors.New("rm down")
	h.archive.result = ResultFailure
	h.execute(t, request(t, ""), ModeFetch)
	if !strings.Contains(h.errOut.String(), "with the appOwner: bob") {
		t.Errorf("current user should be the owner, stderr %q", h.errOut.String())
	}
}

// TestAMSelectorOutOfRange .
func TestAMSelectorOutOfRange(t *testing.T) {
	h := newHarness(yarn.StateRunning)
	h.cluster.attempts = []yarn.AttemptReport{
		{ID: 1, ContainerID: testContainer1, NodeID: "nm1:45454", NodeHTTPAddress: "nm1:8042"},
		{ID: 2, ContainerID: "container_1410901177871_0001_02_000001", NodeID: "nm2:45454", NodeHTTPAddress: "nm2:8042"},
	}
	req := request(t, "")
	req.AMContainers = &AMSelection{Indexes: []int{1, 3}}
	if code := h.execute(t, req, ModeFetch); code != ResultFailure {
		t.Errorf("code = %d", code)
	}
	if !strings.Contains(h.errOut.String(), "Specified AM containerId (3) exceeds the number of AM containers (2).") {
		t.Errorf("stderr %q", h.errOut.String())
	}
	if len(h.nodes.fetched) != 0 {
		t.Errorf("no container should be fetched, got %v", h.nodes.fetched)
	}
}

// TestAMRunningAll .
func TestAMRunningAll(t *testing.T) {
	h := newHarness(yarn.StateRunning)
	am2 := "container_1410901177871_0001_02_000001"
	h.cluster.attempts = []yarn.AttemptReport{
		{ID: 2, ContainerID: am2, NodeID: "nm2:45454", NodeHTTPAddress: "http://nm2:8042"},
		{ID: 1, ContainerID: testContainer1, NodeID: "nm1:45454", NodeHTTPAddress: "http://nm1:8042"},
	}
	h.nodes.files[testContainer1] = []yarn.LogFileInfo{{FileName: "syslog"}, {FileName: "stdout"}}
	h.nodes.files[am2] = []yarn.LogFileInfo{{FileName: "syslog"}}
	h.nodes.contents[am2+"/syslog"] = "am2"
	req := request(t, "")
	req.AMContainers = &AMSelection{All: true}

	if code := h.execute(t, req, ModeFetch); code != ResultSuccess {
		t.Errorf("code = %d", code)
	}
	if diff := pretty.Compare(h.nodes.fetched, []string{testContainer1 + "/syslog", am2 + "/syslog"}); diff != "" {
		t.Errorf("fetched diff (-got +want)\n%s", diff)
	}
	if !strings.HasSuffix(h.out.String(), "\nSpecified ALL for -am option. Printed logs for all am containers.\n") {
		t.Errorf("stdout %q", h.out.String())
	}
}

// TestAMFinishedFallbackLatest .
func TestAMFinishedFallbackLatest(t *testing.T) {
	h := newHarness(yarn.StateFinished)
	h.opts.HistoryEnabled = true
	h.cluster.attemptsErr = errors.New("application not found")
	h.history.attempts = historyAttempts
	h.archive.files = []string{"syslog", "stdout"}
	am2 := "container_1410901177871_0001_02_000001"
	h.cluster.reports[am2] = &yarn.ContainerReport{ContainerID: am2, NodeID: "nm2:45454"}
	req := request(t, "")
	req.AMContainers = &AMSelection{Indexes: []int{LatestAttempt}}

	if code := h.execute(t, req, ModeFetch); code != ResultSuccess {
		t.Fatalf("code = %d, stderr %q", code, h.errOut.String())
	}
	want := []dumpCall{{kind: "container", containerID: am2, nodeID: "nm2:45454", logTypes: []string{"syslog"}, reportMissing: true}}
	if diff := pretty.Compare(h.archive.dumpCalls(), want); diff != "" {
		t.Errorf("dump calls diff (-got +want)\n%s", diff)
	}
	if h.archive.listCalls != 1 {
		t.Errorf("syslog pattern should be matched against the archive listing")
	}
}

// TestAMFinishedUnlocatable .
func TestAMFinishedUnlocatable(t *testing.T) {
	h := newHarness(yarn.StateFinished)
	h.opts.HistoryEnabled = true
	h.cluster.attemptsErr = errors.New("application not found")
	h.history.attempts = historyAttempts
	req := request(t, "")
	req.AMContainers = &AMSelection{All: true}

	if code := h.execute(t, req, ModeFetch); code != ResultFailure {
		t.Errorf("code = %d", code)
	}
	if len(h.archive.dumpCalls()) != 0 {
		t.Errorf("archive should not be read")
	}
}

// TestAMFinishedWithoutHistory .
func TestAMFinishedWithoutHistory(t *testing.T) {
	h := newHarness(yarn.StateFinished)
	req := request(t, "")
	req.AMContainers = &AMSelection{All: true}
	if code := h.execute(t, req, ModeFetch); code != ResultFailure {
		t.Errorf("code = %d", code)
	}
	if !strings.Contains(h.errOut.String(), "Please enable the application-history service") {
		t.Errorf("stderr %q", h.errOut.String())
	}
}

// TestInfoModes .
func TestInfoModes(t *testing.T) {
	h := newHarness(yarn.StateRunning)
	h.runningContainers(2)
	req := request(t, "")
	req.NodeID = "NM2:45454"
	if code := h.execute(t, req, ModeApplicationLogInfo); code != ResultSuccess {
		t.Errorf("code = %d", code)
	}
	if want := "Application State: Running.\nContainer: " + testContainer2 + " on nm2:45454\n"; h.out.String() != want {
		t.Errorf("stdout %q, want %q", h.out.String(), want)
	}

	h = newHarness(yarn.StateRunning)
	h.runningContainers(2)
	if code := h.execute(t, request(t, testContainer1), ModeContainerLogInfo); code != ResultSuccess {
		t.Errorf("code = %d", code)
	}
	if !strings.Contains(h.out.String(), fmt.Sprintf("%30s\t%30s\n", "syslog", "4 (4 B)")) ||
		strings.Contains(h.out.String(), testContainer2) {
		t.Errorf("stdout %q", h.out.String())
	}

	h = newHarness(yarn.StateRunning)
	h.runningContainers(1)
	if code := h.execute(t, request(t, testContainer3), ModeContainerLogInfo); code != ResultFailure {
		t.Errorf("code = %d", code)
	}

	h = newHarness(yarn.StateRunning)
	if code := h.execute(t, request(t, ""), ModeListNodes); code != ResultFailure {
		t.Errorf("code = %d", code)
	}

	h = newHarness(yarn.StateFinished)
	if code := h.execute(t, request(t, ""), ModeListNodes); code != ResultSuccess {
		t.Errorf("code = %d", code)
	}
	h = newHarness(yarn.StateFinished)
	if code := h.execute(t, request(t, ""), ModeApplicationLogInfo); code != ResultSuccess {
		t.Errorf("code = %d", code)
	}
	if !strings.HasPrefix(h.out.String(), "Application State: Completed.\n") {
		t.Errorf("stdout %q", h.out.String())
	}
}

// TestRequestValidation .
func TestRequestValidation(t *testing.T) {
	if _, err := NewRequest("", ""); !IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
	if _, err := NewRequest("application_1410901177871_0002", testContainer1); !IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
	if _, err := NewRequest("app_1", ""); !IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
	req, err := NewRequest("", testContainer1)
	if err != nil || req.AppID != testApp {
		t.Errorf("application should be derived from the container, got %+v %v", req, err)
	}

	req = request(t, "")
	req.NodeID = "nm1:45454"
	if err := req.Validate(ModeFetch); !IsValidation(err) {
		t.Errorf("node without container should be rejected, got %v", err)
	}
	if err := req.Validate(ModeContainerLogInfo); err != nil {
		t.Errorf("node filter is valid for log info: %v", err)
	}

	req = request(t, "")
	req.LogTypes = []string{"sys[log"}
	h := newHarness(yarn.StateRunning)
	if code := h.execute(t, req, ModeFetch); code != ResultFailure {
		t.Errorf("code = %d", code)
	}
}

// TestRequestCopies .
func TestRequestCopies(t *testing.T) {
	req := request(t, "")
	req.LogTypes = []string{"syslog"}
	c := req.WithContainer(testContainer1, "nm1:45454", "nm1:8042")
	c.LogTypes[0] = "stdout"
	if req.LogTypes[0] != "syslog" || req.ContainerID != "" {
		t.Errorf("copies must not alias the original: %+v", req)
	}
	if d := (Request{}).WithDefaultLogTypes("syslog"); len(d.LogTypes) != 1 || d.LogTypes[0] != "syslog" {
		t.Errorf("unexpected defaults %+v", d.LogTypes)
	}
}
