package logs

import (
	"context"
	"io"

	"code.xxxxx.cn/platform/yarnlogs/pkg/yarn"
)

// ClusterService is the resource manager view of applications and containers
type ClusterService interface {
	GetApplicationReport(ctx context.Context, appID string) (*yarn.ApplicationReport, error)
	GetApplicationAttempts(ctx context.Context, appID string) ([]yarn.AttemptReport, error)
	GetContainers(ctx context.Context, attemptID string) ([]yarn.ContainerReport, error)
	GetContainerReport(ctx context.Context, containerID string) (*yarn.ContainerReport, error)
}

// HistoryService lists the attempts of finished applications, oldest first
type HistoryService interface {
	GetAppAttempts(ctx context.Context, appID string) ([]yarn.HistoryAttempt, error)
}

// NodeAgent serves the logs of running containers
type NodeAgent interface {
	ListLogFiles(ctx context.Context, nodeAddress, containerID string) ([]yarn.LogFileInfo, error)
	FetchLogFile(ctx context.Context, nodeAddress, containerID, fileName string, size *int64, w io.Writer) (int64, error)
}

// ArchiveReader reads logs aggregated after containers finished.
// The Dump and Print methods write to the section and return 0 on success, -1 otherwise.
type ArchiveReader interface {
	// ListFiles return the log file names of req's container, or of every container when it is empty
	ListFiles(ctx context.Context, req Request) ([]string, error)
	// DumpContainerLogs print req.LogTypes of one container on req.NodeID,
	// reportMissing prints a diagnostic when nothing is found
	DumpContainerLogs(ctx context.Context, req Request, out *Section, reportMissing bool) int
	// DumpContainerLogsWithoutNodeID searches every node of the application for the container
	DumpContainerLogsWithoutNodeID(ctx context.Context, req Request, out *Section) int
	// DumpAllContainersLogs print req.LogTypes of every container of the application
	DumpAllContainersLogs(ctx context.Context, req Request, out *Section) int
	PrintContainerLogMetadata(ctx context.Context, req Request, out *Section) int
	PrintNodesList(ctx context.Context, req Request, out *Section) int
	PrintContainersList(ctx context.Context, req Request, out *Section) int
}
