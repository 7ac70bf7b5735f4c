package yarn

import (
	"strings"
)

// ApplicationReport is the part of the resource manager app info used here
type ApplicationReport struct {
	ID          string           `json:"id"`
	User        string           `json:"user"`
	Name        string           `json:"name"`
	State       ApplicationState `json:"state"`
	FinalStatus string           `json:"finalStatus"`
}

// AttemptReport is one application attempt as listed by the resource manager
type AttemptReport struct {
	ID              int    `json:"id"`
	AppAttemptID    string `json:"appAttemptId"`
	StartTime       int64  `json:"startTime"`
	ContainerID     string `json:"containerId"`
	NodeID          string `json:"nodeId"`
	NodeHTTPAddress string `json:"nodeHttpAddress"`
	LogsLink        string `json:"logsLink"`
}

// HistoryAttempt is one application attempt as listed by the history server
type HistoryAttempt struct {
	AppAttemptID  string `json:"appAttemptId"`
	Host          string `json:"host"`
	State         string `json:"appAttemptState"`
	AMContainerID string `json:"amContainerId"`
}

// ContainerReport locates a container on its node
type ContainerReport struct {
	ContainerID     string `json:"containerId"`
	NodeID          string `json:"nodeId"`
	NodeHTTPAddress string `json:"nodeHttpAddress"`
	State           string `json:"containerState"`
}

// LogFileInfo is a log file served by a node manager for one container
type LogFileInfo struct {
	FileName string `json:"fileName"`
	FileSize string `json:"fileSize"`
}

// StripScheme drops a leading http:// or https:// so node addresses compare as host:port
func StripScheme(address string) string {
	for _, prefix := range []string{"http://", "https://"} {
		if strings.HasPrefix(address, prefix) {
			return strings.TrimPrefix(address, prefix)
		}
	}
	return address
}
