package yarn

import (
	"context"
	"time"

	resty "gopkg.in/resty.v1"
)

// HistoryClient reads finished application attempts from the application history server
type HistoryClient struct {
	rest *resty.Client
}

// NewHistoryClient return a client for the history server at address (host:port)
func NewHistoryClient(address string, https bool, timeout time.Duration) *HistoryClient {
	return &HistoryClient{rest: newRestClient(BaseURL(address, https), timeout)}
}

type historyAttemptsResponse struct {
	AppAttempt []HistoryAttempt `json:"appAttempt"`
}

// GetAppAttempts get ws/v1/applicationhistory/apps/{appid}/appattempts, oldest attempt first
func (c *HistoryClient) GetAppAttempts(ctx context.Context, appID string) ([]HistoryAttempt, error) {
	var resp historyAttemptsResponse
	if err := getJSON(ctx, c.rest, wsPath("applicationhistory", "apps", appID, "appattempts"), &resp); err != nil {
		return nil, err
	}
	return resp.AppAttempt, nil
}
