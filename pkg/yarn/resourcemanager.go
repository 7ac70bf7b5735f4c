package yarn

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	resty "gopkg.in/resty.v1"
)

// ResourceManagerClient reads application metadata from the resource manager web services
type ResourceManagerClient struct {
	rest *resty.Client
}

// NewResourceManagerClient return a client for the resource manager at address (host:port)
func NewResourceManagerClient(address string, https bool, timeout time.Duration) *ResourceManagerClient {
	return &ResourceManagerClient{rest: newRestClient(BaseURL(address, https), timeout)}
}

type appResponse struct {
	App *ApplicationReport `json:"app"`
}

type attemptsResponse struct {
	AppAttempts struct {
		AppAttempt []AttemptReport `json:"appAttempt"`
	} `json:"appAttempts"`
}

// GetApplicationReport get ws/v1/cluster/apps/{appid}
func (c *ResourceManagerClient) GetApplicationReport(ctx context.Context, appID string) (*ApplicationReport, error) {
	var resp appResponse
	if err := getJSON(ctx, c.rest, wsPath("cluster", "apps", appID), &resp); err != nil {
		return nil, err
	}
	if resp.App == nil {
		return nil, errors.Errorf("application %s not found in resource manager response", appID)
	}
	return resp.App, nil
}

// GetApplicationAttempts get ws/v1/cluster/apps/{appid}/appattempts
func (c *ResourceManagerClient) GetApplicationAttempts(ctx context.Context, appID string) ([]AttemptReport, error) {
	var resp attemptsResponse
	if err := getJSON(ctx, c.rest, wsPath("cluster", "apps", appID, "appattempts"), &resp); err != nil {
		return nil, err
	}
	attempts := resp.AppAttempts.AppAttempt
	app, err := ParseApplicationID(appID)
	if err != nil {
		return attempts, nil
	}
	for i := range attempts {
		if attempts[i].AppAttemptID == "" {
			attempts[i].AppAttemptID = ApplicationAttemptID{ApplicationID: app, Attempt: attempts[i].ID}.String()
		}
	}
	return attempts, nil
}

// GetContainers list the containers of one attempt,
// get ws/v1/cluster/apps/{appid}/appattempts/{attemptid}/containers
func (c *ResourceManagerClient) GetContainers(ctx context.Context, attemptID string) ([]ContainerReport, error) {
	attempt, err := ParseApplicationAttemptID(attemptID)
	if err != nil {
		return nil, err
	}
	var raw map[string]json.RawMessage
	path := wsPath("cluster", "apps", attempt.ApplicationID.String(), "appattempts", attemptID, "containers")
	if err := getJSON(ctx, c.rest, path, &raw); err != nil {
		return nil, err
	}
	return decodeContainerList(raw)
}

// GetContainerReport get the report of a single container,
// get ws/v1/cluster/apps/{appid}/appattempts/{attemptid}/containers/{containerid}
func (c *ResourceManagerClient) GetContainerReport(ctx context.Context, containerID string) (*ContainerReport, error) {
	id, err := ParseContainerID(containerID)
	if err != nil {
		return nil, err
	}
	var raw map[string]json.RawMessage
	path := wsPath("cluster", "apps", id.ApplicationID.String(),
		"appattempts", id.ApplicationAttemptID.String(), "containers", containerID)
	if err := getJSON(ctx, c.rest, path, &raw); err != nil {
		return nil, err
	}
	report := &ContainerReport{}
	if inner, ok := raw["container"]; ok {
		err = json.Unmarshal(inner, report)
	} else {
		err = remarshal(raw, report)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "decode container report of %s", containerID)
	}
	if report.ContainerID == "" {
		report.ContainerID = containerID
	}
	return report, nil
}

// decodeContainerList accept {"container":[...]} and {"containers":{"container":[...]}}
func decodeContainerList(raw map[string]json.RawMessage) ([]ContainerReport, error) {
	var containers []ContainerReport
	if inner, ok := raw["containers"]; ok {
		var wrapped map[string]json.RawMessage
		if err := json.Unmarshal(inner, &wrapped); err != nil {
			return nil, errors.Wrap(err, "decode containers")
		}
		raw = wrapped
	}
	inner, ok := raw["container"]
	if !ok {
		return containers, nil
	}
	if err := json.Unmarshal(inner, &containers); err != nil {
		var single ContainerReport
		if err2 := json.Unmarshal(inner, &single); err2 != nil {
			return nil, errors.Wrap(err, "decode containers")
		}
		containers = append(containers, single)
	}
	return containers, nil
}

func remarshal(in interface{}, out interface{}) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
