package logs

import (
	"code.xxxxx.cn/platform/yarnlogs/pkg/util/fs"
	"code.xxxxx.cn/platform/yarnlogs/pkg/yarn"
)

// Mode selects what Execute prints for a request
type Mode int

/* retrieval modes */
const (
	// ModeFetch prints log contents of a container, the am containers or the whole application
	ModeFetch Mode = iota
	// ModeContainerLogInfo prints log file names and sizes per container
	ModeContainerLogInfo
	// ModeListNodes prints the nodes holding aggregated logs, finished applications only
	ModeListNodes
	// ModeApplicationLogInfo prints the containers of the application
	ModeApplicationLogInfo
)

func (m Mode) String() string {
	switch m {
	case ModeFetch:
		return "fetch"
	case ModeContainerLogInfo:
		return "container-log-info"
	case ModeListNodes:
		return "list-nodes"
	case ModeApplicationLogInfo:
		return "application-log-info"
	}
	return "unknown"
}

// Request describes one retrieval. It is passed by value, With* return modified copies.
type Request struct {
	AppID           string
	ContainerID     string
	NodeID          string
	NodeHTTPAddress string
	AppOwner        string
	AppFinished     bool
	// LogTypes are log file name patterns, MatchAll selects every file
	LogTypes []string
	// Bytes limits every file, positive from the start, negative from the end, nil for all
	Bytes *int64
	// OutputDir stores each container under <dir>/<node>/<container> instead of the output stream
	OutputDir string
	// AMContainers is set when the application master containers are requested
	AMContainers *AMSelection
}

// NewRequest build a request for appID and/or containerID, the container must belong to the application
func NewRequest(appID, containerID string) (Request, error) {
	if appID == "" && containerID == "" {
		return Request{}, validationErrorf("Both applicationId and containerId are missing, one of them must be specified.")
	}
	var app yarn.ApplicationID
	if appID != "" {
		id, err := yarn.ParseApplicationID(appID)
		if err != nil {
			return Request{}, validationErrorf("Invalid ApplicationId specified")
		}
		app = id
	}
	if containerID != "" {
		cid, err := yarn.ParseContainerID(containerID)
		if err != nil {
			return Request{}, validationErrorf("Invalid ContainerId specified")
		}
		if appID == "" {
			app = cid.ApplicationID
		} else if cid.ApplicationID != app {
			return Request{}, validationErrorf("The Application:%s does not have the container:%s", app, containerID)
		}
	}
	return Request{AppID: app.String(), ContainerID: containerID}, nil
}

// Validate checks what can be checked without talking to the cluster
func (r Request) Validate(mode Mode) error {
	if r.AppID == "" {
		return validationErrorf("applicationId is required")
	}
	if r.OutputDir != "" && fs.IsFile(r.OutputDir) {
		return validationErrorf("Invalid value for -out option. Please provide a directory.")
	}
	if mode == ModeFetch && r.AMContainers == nil && r.ContainerID == "" && r.NodeID != "" {
		return validationErrorf("Should at least provide ContainerId!")
	}
	_, err := CompilePatterns(NormalizeLogTypes(r.LogTypes))
	return err
}

// WithContainer return a copy of r addressing one container
func (r Request) WithContainer(containerID, nodeID, nodeHTTPAddress string) Request {
	c := r.WithLogTypes(r.LogTypes)
	c.ContainerID = containerID
	c.NodeID = nodeID
	c.NodeHTTPAddress = nodeHTTPAddress
	return c
}

// WithLogTypes return a copy of r requesting logTypes
func (r Request) WithLogTypes(logTypes []string) Request {
	c := r
	if logTypes != nil {
		c.LogTypes = append([]string(nil), logTypes...)
	}
	return c
}

// WithDefaultLogTypes return a copy of r requesting defaults when no log type was asked for
func (r Request) WithDefaultLogTypes(defaults ...string) Request {
	if len(r.LogTypes) > 0 {
		return r.WithLogTypes(r.LogTypes)
	}
	return r.WithLogTypes(defaults)
}
