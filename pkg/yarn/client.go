package yarn

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	resty "gopkg.in/resty.v1"

	"code.xxxxx.cn/platform/yarnlogs/pkg/util/alog"
)

// StatusError is returned when a yarn daemon answers with a non 2xx status
type StatusError struct {
	URL  string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("request %s failed with status %d", e.URL, e.Code)
	}
	return fmt.Sprintf("request %s failed with status %d: %s", e.URL, e.Code, e.Body)
}

// IsStatusNotFound reports whether err was caused by a 404 answer
func IsStatusNotFound(err error) bool {
	se, ok := errors.Cause(err).(*StatusError)
	return ok && se.Code == http.StatusNotFound
}

// BaseURL build the web service url for a host:port address
func BaseURL(address string, https bool) string {
	address = StripScheme(strings.TrimSuffix(address, "/"))
	if https {
		return "https://" + address
	}
	return "http://" + address
}

func newRestClient(baseURL string, timeout time.Duration) *resty.Client {
	client := resty.New().
		SetHostURL(baseURL).
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return client
}

// newStreamClient bounds dialing and waiting for the response headers, reading a body is bounded by the
// request context only
func newStreamClient(baseURL string, timeout time.Duration) *resty.Client {
	client := resty.New().
		SetHostURL(baseURL).
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		client.SetTransport(&http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           (&net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second}).DialContext,
			TLSHandshakeTimeout:   timeout,
			ResponseHeaderTimeout: timeout,
			IdleConnTimeout:       90 * time.Second,
			MaxIdleConnsPerHost:   4,
		})
	}
	return client
}

func wsPath(elem ...string) string {
	escaped := make([]string, 0, len(elem))
	for _, e := range elem {
		escaped = append(escaped, url.PathEscape(e))
	}
	return "/ws/v1/" + strings.Join(escaped, "/")
}

func getJSON(ctx context.Context, client *resty.Client, path string, out interface{}) error {
	resp, err := client.R().SetContext(ctx).Get(path)
	if err != nil {
		return errors.Wrapf(err, "get %s%s", client.HostURL, path)
	}
	if resp.IsError() {
		return &StatusError{URL: client.HostURL + path, Code: resp.StatusCode(), Body: shortBody(resp.Body())}
	}
	alog.V(4).Infof("get %s%s: %d bytes", client.HostURL, path, len(resp.Body()))
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return errors.Wrapf(err, "decode response of %s%s", client.HostURL, path)
	}
	return nil
}

func shortBody(body []byte) string {
	const max = 256
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
