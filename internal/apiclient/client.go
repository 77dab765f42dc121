package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/brk3/habittracker/internal/server"
	"github.com/brk3/habittracker/pkg/habit"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(base string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(base, "/"),
		HTTP:    http.DefaultClient,
	}
}

func (c *Client) ListHabits(ctx context.Context) ([]habit.Habit, error) {
	var response server.HabitListResponse
	if err := c.do(ctx, http.MethodGet, "/habits", nil, &response); err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return response.Habits, nil
}

func (c *Client) GetHabit(ctx context.Context, id string) (*habit.Habit, error) {
	var out habit.Habit
	if err := c.do(ctx, http.MethodGet, "/habits/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, fmt.Errorf("get habit %s: %w", id, err)
	}
	return &out, nil
}

func (c *Client) GetHabitStats(ctx context.Context, id string) (*habit.Summary, error) {
	var out habit.Summary
	if err := c.do(ctx, http.MethodGet, "/habits/"+url.PathEscape(id)+"/stats", nil, &out); err != nil {
		return nil, fmt.Errorf("stats %s: %w", id, err)
	}
	return &out, nil
}

// Toggle flips the completion on date (YYYY-MM-DD, empty for today).
func (c *Client) Toggle(ctx context.Context, id, date string) (*server.CompletionResponse, error) {
	var out server.CompletionResponse
	path := "/habits/" + url.PathEscape(id) + "/toggle"
	if err := c.do(ctx, http.MethodPost, path, server.ToggleRequest{Date: date}, &out); err != nil {
		return nil, fmt.Errorf("toggle %s: %w", id, err)
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		var e server.ErrorResponse
		if json.NewDecoder(res.Body).Decode(&e) == nil && e.Error != "" {
			return fmt.Errorf("%s: %s", res.Status, e.Error)
		}
		return fmt.Errorf("%s", res.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
