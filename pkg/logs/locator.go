package logs

import (
	"context"
	"strings"

	"code.xxxxx.cn/platform/yarnlogs/pkg/yarn"
)

// ContainerLocation is where the logs of one container are read from
type ContainerLocation struct {
	ContainerID     string
	NodeID          string
	NodeHTTPAddress string
	AppFinished     bool
}

// Locator resolves the node of a container
type Locator struct {
	cluster ClusterService
}

// NewLocator .
func NewLocator(cluster ClusterService) *Locator {
	return &Locator{cluster: cluster}
}

// Locate return the node and node manager address of containerID.
// A finished container with a known node needs no lookup, its logs are in the archive.
func (l *Locator) Locate(ctx context.Context, containerID, nodeID, nodeHTTPAddress string, appFinished bool) (ContainerLocation, error) {
	loc := ContainerLocation{
		ContainerID:     containerID,
		NodeID:          nodeID,
		NodeHTTPAddress: yarn.StripScheme(nodeHTTPAddress),
		AppFinished:     appFinished,
	}
	if appFinished && nodeID != "" {
		return loc, nil
	}
	report, err := l.cluster.GetContainerReport(ctx, containerID)
	if err != nil {
		if yarn.IsStatusNotFound(err) {
			return loc, notFoundErrorf("container %s not found: %v", containerID, err)
		}
		return loc, &TransportError{Op: "get container report of " + containerID, Err: err}
	}
	if report.NodeHTTPAddress != "" {
		loc.NodeHTTPAddress = yarn.StripScheme(report.NodeHTTPAddress)
	}
	if report.NodeID != "" {
		loc.NodeID = report.NodeID
	}
	return loc, nil
}

// FilterContainers return a new list of the containers matching containerID and nodeID,
// compared case-insensitively, an empty filter matches everything
func FilterContainers(reports []yarn.ContainerReport, containerID, nodeID string) []yarn.ContainerReport {
	filtered := make([]yarn.ContainerReport, 0, len(reports))
	for _, r := range reports {
		if containerID != "" && !strings.EqualFold(r.ContainerID, containerID) {
			continue
		}
		if nodeID != "" && !strings.EqualFold(r.NodeID, nodeID) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}
