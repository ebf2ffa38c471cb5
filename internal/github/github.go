package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.github.com"

// Event kinds consumed from the feed; everything else is dropped.
const (
	EventPush        = "PushEvent"
	EventPullRequest = "PullRequestEvent"
)

// Activity is one normalized event from a user's public event feed.
type Activity struct {
	Repo      string
	Type      string
	Desc      string
	CreatedAt string // ISO-8601, as delivered by the API
	Body      string
}

// Client fetches recent activity for one GitHub account.
type Client struct {
	username string
	token    string
	baseURL  string
	pageSize int
	daysBack int
	client   *http.Client
}

// NewClient creates a GitHub activity client.
func NewClient(username, token string, pageSize, daysBack int) *Client {
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 100
	}
	if daysBack <= 0 {
		daysBack = 7
	}
	return &Client{
		username: username,
		token:    token,
		baseURL:  defaultBaseURL,
		pageSize: pageSize,
		daysBack: daysBack,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// event mirrors the fields of the GitHub events API we consume.
type event struct {
	Type string `json:"type"`
	Repo struct {
		Name string `json:"name"`
	} `json:"repo"`
	CreatedAt string `json:"created_at"`
	Payload   struct {
		Commits []struct {
			Message string `json:"message"`
		} `json:"commits"`
		PullRequest struct {
			Title  string `json:"title"`
			Number int    `json:"number"`
			Body   string `json:"body"`
		} `json:"pull_request"`
	} `json:"payload"`
}

// RecentActivity returns push and pull-request events from the trailing
// window, most-recent-first as delivered by the feed. The window cutoff is
// applied client-side only: the events API has no "since" parameter, so
// in-window events beyond the first page are missed for very active
// accounts.
func (c *Client) RecentActivity(ctx context.Context) ([]Activity, error) {
	url := fmt.Sprintf("%s/users/%s/events?per_page=%d", c.baseURL, c.username, c.pageSize)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("github API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("github API returned %d: %s", resp.StatusCode, string(respBody))
	}

	var events []event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("decoding events: %w", err)
	}

	// ISO-8601 timestamps sort lexicographically, so a string compare
	// against the formatted cutoff is enough.
	since := time.Now().UTC().AddDate(0, 0, -c.daysBack).Format(time.RFC3339)

	var activity []Activity
	for _, ev := range events {
		if ev.Type != EventPush && ev.Type != EventPullRequest {
			continue
		}
		if ev.CreatedAt < since {
			continue
		}

		a := Activity{Repo: ev.Repo.Name, Type: ev.Type, CreatedAt: ev.CreatedAt}
		switch ev.Type {
		case EventPush:
			a.Desc = fmt.Sprintf("Pushed %d commit(s)", len(ev.Payload.Commits))
			msgs := make([]string, 0, len(ev.Payload.Commits))
			for _, commit := range ev.Payload.Commits {
				msgs = append(msgs, commit.Message)
			}
			a.Body = strings.Join(msgs, "\n")
		case EventPullRequest:
			pr := ev.Payload.PullRequest
			a.Desc = fmt.Sprintf("PR: %s (#%d)", pr.Title, pr.Number)
			a.Body = pr.Body
		}
		activity = append(activity, a)
	}

	return activity, nil
}
