package logs

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"code.xxxxx.cn/platform/yarnlogs/pkg/util/alog"
	"code.xxxxx.cn/platform/yarnlogs/pkg/yarn"
)

// AMContainer is the application master container of one attempt
type AMContainer struct {
	Attempt         int
	ContainerID     string
	NodeID          string
	NodeHTTPAddress string
}

// AMResolver lists application master containers from the resource manager,
// falling back to the history server for finished applications
type AMResolver struct {
	cluster ClusterService
	history HistoryService
}

// NewAMResolver history may be nil when the history service is disabled
func NewAMResolver(cluster ClusterService, history HistoryService) *AMResolver {
	return &AMResolver{cluster: cluster, history: history}
}

// Resolve return the am containers ordered by attempt, the earliest first
func (r *AMResolver) Resolve(ctx context.Context, appID string, appFinished bool) ([]AMContainer, error) {
	ams, err := r.fromResourceManager(ctx, appID)
	if err == nil {
		return ams, nil
	}
	if !appFinished {
		return nil, &ResolveError{Primary: err}
	}
	alog.V(2).Infof("resolve am containers of %s from resource manager failed, trying history server: %v", appID, err)
	ams, herr := r.fromHistory(ctx, appID)
	if herr != nil {
		return nil, &ResolveError{Primary: err, Secondary: herr}
	}
	return ams, nil
}

func (r *AMResolver) fromResourceManager(ctx context.Context, appID string) ([]AMContainer, error) {
	attempts, err := r.cluster.GetApplicationAttempts(ctx, appID)
	if err != nil {
		return nil, &TransportError{Op: "get application attempts from resource manager", Err: err}
	}
	ams := make([]AMContainer, 0, len(attempts))
	for _, a := range attempts {
		ams = append(ams, AMContainer{
			Attempt:         a.ID,
			ContainerID:     a.ContainerID,
			NodeID:          a.NodeID,
			NodeHTTPAddress: yarn.StripScheme(a.NodeHTTPAddress),
		})
	}
	if len(ams) == 0 {
		return nil, notFoundErrorf("resource manager has no attempts for %s", appID)
	}
	sortByAttempt(ams)
	return ams, nil
}

func (r *AMResolver) fromHistory(ctx context.Context, appID string) ([]AMContainer, error) {
	if r.history == nil {
		return nil, errors.New("application history service is not enabled")
	}
	attempts, err := r.history.GetAppAttempts(ctx, appID)
	if err != nil {
		return nil, &TransportError{Op: "get application attempts from history server", Err: err}
	}
	ams := make([]AMContainer, 0, len(attempts))
	for i, a := range attempts {
		attempt := i + 1
		if id, err := yarn.ParseApplicationAttemptID(a.AppAttemptID); err == nil {
			attempt = id.Attempt
		}
		ams = append(ams, AMContainer{Attempt: attempt, ContainerID: a.AMContainerID})
	}
	if len(ams) == 0 {
		return nil, notFoundErrorf("history server has no attempts for %s", appID)
	}
	sortByAttempt(ams)
	return ams, nil
}

func sortByAttempt(ams []AMContainer) {
	sort.SliceStable(ams, func(i, j int) bool { return ams[i].Attempt < ams[j].Attempt })
}
