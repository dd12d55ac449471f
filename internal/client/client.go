package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"dupescan/internal/api"
)

var (
	// ErrDaemonUnavailable indicates the daemon API could not be reached.
	ErrDaemonUnavailable = errors.New("dupescan daemon unavailable")
	// ErrTaskNotFound indicates the daemon does not know the task id.
	ErrTaskNotFound = errors.New("task not found")
)

// Client talks to a running dupescan daemon over its HTTP API.
type Client struct {
	base *url.URL
	http *http.Client
}

// New builds a client for the given bind address. A bare host:port is
// promoted to an http URL.
func New(bind string) (*Client, error) {
	bind = strings.TrimSpace(bind)
	if bind == "" {
		return nil, errors.New("daemon address is required")
	}
	if !strings.Contains(bind, "://") {
		bind = "http://" + bind
	}
	base, err := url.Parse(bind)
	if err != nil {
		return nil, err
	}
	base.Path = ""
	base.RawQuery = ""
	base.Fragment = ""

	return &Client{
		base: base,
		http: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Analyze submits an analysis of root and returns the task id. A zero
// threshold lets the daemon apply its configured default.
func (c *Client) Analyze(ctx context.Context, root string, threshold float64) (string, error) {
	values := url.Values{}
	values.Set("path", root)
	if threshold > 0 {
		values.Set("threshold", strconv.FormatFloat(threshold, 'f', -1, 64))
	}

	var accepted api.AnalyzeAccepted
	if err := c.do(ctx, http.MethodPost, "/api/analyze", values, &accepted); err != nil {
		return "", err
	}
	return accepted.TaskID, nil
}

// Poll reports the current state of a task.
func (c *Client) Poll(ctx context.Context, taskID string) (api.TaskState, error) {
	values := url.Values{}
	values.Set("taskId", taskID)

	var state api.TaskState
	if err := c.do(ctx, http.MethodGet, "/api/poll", values, &state); err != nil {
		return api.TaskState{}, err
	}
	return state, nil
}

// Cancel requests cooperative cancellation of a running task.
func (c *Client) Cancel(ctx context.Context, taskID string) error {
	values := url.Values{}
	values.Set("taskId", taskID)
	return c.do(ctx, http.MethodPost, "/api/cancel", values, nil)
}

// WaitForCompletion polls until the task leaves the pending state. Progress
// changes are reported through onProgress when it is non-nil.
func (c *Client) WaitForCompletion(ctx context.Context, taskID string, onProgress func(int)) (api.TaskState, error) {
	lastProgress := -1
	for {
		state, err := c.Poll(ctx, taskID)
		if err != nil {
			return api.TaskState{}, err
		}
		if state.Type != api.TaskStatePending {
			return state, nil
		}
		if onProgress != nil && state.Progress != lastProgress {
			onProgress(state.Progress)
			lastProgress = state.Progress
		}

		select {
		case <-ctx.Done():
			return api.TaskState{}, ctx.Err()
		case <-time.After(250 * time.Millisecond):
		}
	}
}

// List fetches the immediate children of path as the daemon sees them.
func (c *Client) List(ctx context.Context, path string) (api.ListResponse, error) {
	values := url.Values{}
	values.Set("path", path)

	var listing api.ListResponse
	if err := c.do(ctx, http.MethodGet, "/api/list", values, &listing); err != nil {
		return api.ListResponse{}, err
	}
	return listing, nil
}

// Status fetches daemon runtime information.
func (c *Client) Status(ctx context.Context) (api.StatusResponse, error) {
	var status api.StatusResponse
	if err := c.do(ctx, http.MethodGet, "/api/status", nil, &status); err != nil {
		return api.StatusResponse{}, err
	}
	return status, nil
}

func (c *Client) do(ctx context.Context, method, path string, values url.Values, out any) error {
	endpoint := c.base.ResolveReference(&url.URL{Path: path, RawQuery: values.Encode()})
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrTaskNotFound
	}
	if resp.StatusCode >= 400 {
		var apiErr api.ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("daemon returned status %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("daemon returned status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// IsDaemonUnavailable reports whether err indicates the daemon is not
// reachable, as opposed to an application-level failure.
func IsDaemonUnavailable(err error) bool {
	if err == nil {
		return false
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		err = urlErr.Err
	}
	var opErr *net.OpError
	return errors.Is(err, ErrDaemonUnavailable) || errors.As(err, &opErr)
}
