package yarn

import (
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	resty "gopkg.in/resty.v1"
)

// NodeManagerClient serves live container logs from the node managers of a cluster
type NodeManagerClient struct {
	https   bool
	timeout time.Duration

	mu      sync.Mutex
	clients map[string]*resty.Client
}

// NewNodeManagerClient return a client reaching any node manager by its http address
func NewNodeManagerClient(https bool, timeout time.Duration) *NodeManagerClient {
	return &NodeManagerClient{
		https:   https,
		timeout: timeout,
		clients: map[string]*resty.Client{},
	}
}

func (c *NodeManagerClient) client(nodeAddress string) *resty.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	base := BaseURL(nodeAddress, c.https)
	if cli, ok := c.clients[base]; ok {
		return cli
	}
	cli := newStreamClient(base, c.timeout)
	c.clients[base] = cli
	return cli
}

type logsInfo struct {
	ContainerLogInfo   []LogFileInfo `json:"containerLogInfo"`
	LogAggregationType string        `json:"logAggregationType"`
}

// ListLogFiles get ws/v1/node/containers/{containerid}/logs
func (c *NodeManagerClient) ListLogFiles(ctx context.Context, nodeAddress, containerID string) ([]LogFileInfo, error) {
	var raw map[string]json.RawMessage
	if err := getJSON(ctx, c.client(nodeAddress), wsPath("node", "containers", containerID, "logs"), &raw); err != nil {
		return nil, err
	}
	return decodeLogFiles(raw)
}

// decodeLogFiles accept {"containerLogInfo":[...]} and the
// {"containerLogsInfo":[{"containerLogInfo":[...],"logAggregationType":"LOCAL"}]} shape of newer node managers
func decodeLogFiles(raw map[string]json.RawMessage) ([]LogFileInfo, error) {
	files := []LogFileInfo{}
	if inner, ok := raw["containerLogInfo"]; ok {
		if err := json.Unmarshal(inner, &files); err != nil {
			return nil, errors.Wrap(err, "decode containerLogInfo")
		}
		return files, nil
	}
	inner, ok := raw["containerLogsInfo"]
	if !ok {
		return files, nil
	}
	var groups []logsInfo
	if err := json.Unmarshal(inner, &groups); err != nil {
		var single logsInfo
		if err2 := json.Unmarshal(inner, &single); err2 != nil {
			return nil, errors.Wrap(err, "decode containerLogsInfo")
		}
		groups = []logsInfo{single}
	}
	for _, g := range groups {
		if g.LogAggregationType != "" && g.LogAggregationType != "LOCAL" {
			continue
		}
		files = append(files, g.ContainerLogInfo...)
	}
	return files, nil
}

// FetchLogFile stream ws/v1/node/containers/{containerid}/logs/{filename} into w.
// A positive size keeps the leading bytes, a negative one the trailing bytes, nil the whole file.
func (c *NodeManagerClient) FetchLogFile(ctx context.Context, nodeAddress, containerID, fileName string,
	size *int64, w io.Writer) (int64, error) {
	cli := c.client(nodeAddress)
	path := wsPath("node", "containers", containerID, "logs", fileName)
	req := cli.R().
		SetContext(ctx).
		SetHeader("Accept", "text/plain").
		SetDoNotParseResponse(true)
	if size != nil {
		req.SetQueryParam("size", strconv.FormatInt(*size, 10))
	}
	resp, err := req.Get(path)
	if err != nil {
		return 0, errors.Wrapf(err, "get %s%s", cli.HostURL, path)
	}
	body := resp.RawBody()
	defer body.Close()
	if resp.IsError() {
		b, _ := ioutil.ReadAll(io.LimitReader(body, 1024))
		return 0, &StatusError{URL: cli.HostURL + path, Code: resp.StatusCode(), Body: shortBody(b)}
	}
	n, err := io.Copy(w, body)
	if err != nil {
		return n, errors.Wrapf(err, "read %s%s", cli.HostURL, path)
	}
	return n, nil
}
