package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.notion.com"
	notionVersion  = "2022-06-28"
)

// Every created page gets the same pipeline-stage properties.
const (
	statusToDo    = "To Do"
	typeMarketing = "Marketing"
)

// Post is one record to create in the Notion database.
type Post struct {
	Heading string
	Brief   string
	Draft   string
	DueDate string // YYYY-MM-DD
}

// Content returns the paragraph body for the page: brief plus draft when a
// draft exists, the brief alone otherwise.
func (p Post) Content() string {
	if p.Draft == "" {
		return p.Brief
	}
	return fmt.Sprintf("Brief:\n\n%s\n\n---\n\nPost:\n\n%s", p.Brief, p.Draft)
}

// Client creates pages in a Notion database.
type Client struct {
	token      string
	databaseID string
	baseURL    string
	client     *http.Client
}

// NewClient creates a Notion client for one target database.
func NewClient(token, databaseID string) *Client {
	return &Client{
		token:      token,
		databaseID: databaseID,
		baseURL:    defaultBaseURL,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// CreatePost creates one page with the post's title, due date, the fixed
// Status/Type selects, and the content paragraph. Fire-and-forget: nothing
// is read back beyond the status code.
func (c *Client) CreatePost(ctx context.Context, post Post) error {
	body := map[string]any{
		"parent": map[string]string{"database_id": c.databaseID},
		"properties": map[string]any{
			"Title": map[string]any{
				"title": []map[string]any{
					{"text": map[string]string{"content": post.Heading}},
				},
			},
			"Due Date": map[string]any{
				"date": map[string]string{"start": post.DueDate},
			},
			"Status": map[string]any{
				"select": map[string]string{"name": statusToDo},
			},
			"Type": map[string]any{
				"select": map[string]string{"name": typeMarketing},
			},
		},
		"children": []map[string]any{
			{
				"object": "block",
				"type":   "paragraph",
				"paragraph": map[string]any{
					"rich_text": []map[string]any{
						{"type": "text", "text": map[string]string{"content": post.Content()}},
					},
				},
			},
		},
	}

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/v1/pages", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", notionVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("notion API error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("notion API returned %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
