// Package generation talks to the remote schedule-generation service. The
// optimizer itself runs there; this package only submits parameters, polls
// job progress, and fetches the schedule it produced.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a thin HTTP client for the generator service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SubmitRequest carries the parameters the console collects for a run. The
// solver's blueprint knobs are passed through untouched.
type SubmitRequest struct {
	SeasonID         string         `json:"seasonId"`
	WeekCount        int            `json:"weekCount"`
	StartDate        string         `json:"startDate"`
	TimeLimitSeconds int            `json:"timeLimitSeconds,omitempty"`
	Parameters       map[string]any `json:"parameters,omitempty"`
}

// JobStatus is the generator's view of a submitted run.
type JobStatus struct {
	RemoteID string  `json:"jobId"`
	State    string  `json:"state"`
	Progress float64 `json:"progress"`
	Detail   string  `json:"detail,omitempty"`
}

// Remote job states.
const (
	StatePending   = "pending"
	StateRunning   = "running"
	StateSucceeded = "succeeded"
	StateFailed    = "failed"
)

// ScheduleResult is the finished schedule as returned by the generator.
type ScheduleResult struct {
	Weeks []ResultWeek `json:"weeks"`
}

type ResultWeek struct {
	WeekNumber int          `json:"weekNumber"`
	MondayDate string       `json:"mondayDate"`
	IsOffWeek  bool         `json:"isOffWeek"`
	Games      []ResultGame `json:"games"`
}

type ResultGame struct {
	LevelID   string `json:"levelId"`
	Team1ID   string `json:"team1Id"`
	Team2ID   string `json:"team2Id"`
	DayOfWeek int    `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	Court     string `json:"court"`
	Referee   string `json:"referee,omitempty"`
}

// Submit sends run parameters to the generator and returns the remote job ID.
func (c *Client) Submit(ctx context.Context, req SubmitRequest) (string, error) {
	var status JobStatus
	if err := c.do(ctx, http.MethodPost, "/jobs", req, &status); err != nil {
		return "", fmt.Errorf("submitting generation job: %w", err)
	}
	if status.RemoteID == "" {
		return "", fmt.Errorf("generator returned no job ID")
	}
	return status.RemoteID, nil
}

// Status polls the generator for a job's progress.
func (c *Client) Status(ctx context.Context, remoteID string) (JobStatus, error) {
	var status JobStatus
	if err := c.do(ctx, http.MethodGet, "/jobs/"+remoteID, nil, &status); err != nil {
		return JobStatus{}, fmt.Errorf("polling generation job %s: %w", remoteID, err)
	}
	return status, nil
}

// Result fetches the produced schedule for a succeeded job.
func (c *Client) Result(ctx context.Context, remoteID string) (*ScheduleResult, error) {
	var result ScheduleResult
	if err := c.do(ctx, http.MethodGet, "/jobs/"+remoteID+"/result", nil, &result); err != nil {
		return nil, fmt.Errorf("fetching generation result %s: %w", remoteID, err)
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dst any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("generator returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if dst == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
