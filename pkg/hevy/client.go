// Package hevy is a minimal client for the Hevy public API, covering the
// workout and routine endpoints the coach consumes.
package hevy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ripixel/hevy-coach/pkg/httputil"
)

const (
	workoutsEndpoint = "/v1/workouts"
	routinesEndpoint = "/v1/routines"
)

// Client calls the Hevy API with api-key authentication.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// NewClient builds a Client against baseURL. The timeout applies to every
// request; outbound calls must never hang past it.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("api-key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("hevy API request failed: %w", err)
	}
	if err := httputil.ErrorFromResponse(resp); err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode hevy response: %w", err)
	}
	return nil
}

// GetWorkout fetches a single workout by id.
func (c *Client) GetWorkout(ctx context.Context, workoutID string) (*Workout, error) {
	var w Workout
	if err := c.do(ctx, http.MethodGet, workoutsEndpoint+"/"+workoutID, nil, nil, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// ListWorkouts fetches a page of recent workouts, newest first.
func (c *Client) ListWorkouts(ctx context.Context, page, pageSize int) (*WorkoutList, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))

	var list WorkoutList
	if err := c.do(ctx, http.MethodGet, workoutsEndpoint, q, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetRoutine fetches a routine by id.
func (c *Client) GetRoutine(ctx context.Context, routineID string) (*Routine, error) {
	var env routineEnvelope
	if err := c.do(ctx, http.MethodGet, routinesEndpoint+"/"+routineID, nil, nil, &env); err != nil {
		return nil, err
	}
	return &env.Routine, nil
}

// UpdateRoutine replaces a routine via PUT. Hevy requires the complete
// exercise list in the body, not a partial patch.
func (c *Client) UpdateRoutine(ctx context.Context, routineID string, req UpdateRoutineRequest) (*Routine, error) {
	var env routineUpdateEnvelope
	if err := c.do(ctx, http.MethodPut, routinesEndpoint+"/"+routineID, nil, req, &env); err != nil {
		return nil, err
	}
	if len(env.Routine) == 0 {
		return nil, fmt.Errorf("hevy update response contained no routine")
	}
	return &env.Routine[0], nil
}
