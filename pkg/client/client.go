// Package client provides a Go HTTP client for programmatic access to the
// nota API.
//
// The client mirrors the server's endpoint structure with strongly-typed
// methods: directory operations (pages, favorites, recents), document and
// block operations against the open page, fragment resolution, and the
// theme setting. All operations use the same
// [github.com/nota-app/nota/pkg/models] entities as the server, so a test
// or integration sees exactly what the server stores.
//
// # Error Handling
//
// Every 4xx and 5xx response becomes an error carrying the status code
// and the response body, which is always the standardized
// {"error": message} shape. Network failures and JSON decoding problems
// surface as wrapped errors from the underlying operation.
//
// # The Open-Page Model
//
// The server edits one page at a time. Block methods operate on whichever
// page the client opened last; calling them before OpenPage (or
// CreatePage, which opens the new page) yields a 404. This mirrors the
// editor itself, where block edits always happen on the visible page.
//
// # Usage
//
//	c := client.NewClient("http://localhost:8080")
//
//	page, err := c.CreatePage(ctx, "recipes/pasta", nil)
//	if err != nil {
//		return err
//	}
//
//	block, err := c.InsertBlock(ctx, models.BlockTypeTodo, "buy flour", 0, nil)
//	if err != nil {
//		return err
//	}
//	_, err = c.ToggleBlock(ctx, block.ID)
//
// # Production Considerations
//
// For production use, enhance this client with retry logic for transient
// failures, request logging, and metrics collection around call latency.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nota-app/nota/pkg/models"
	"github.com/nota-app/nota/pkg/pages"
)

// Client provides typed access to the nota REST API. Instances are safe
// for concurrent use by multiple goroutines.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new nota API client. The baseURL includes protocol
// and host (e.g. "http://localhost:8080") without a trailing slash.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Document is the rendered shape of the open page as the API returns it.
type Document struct {
	Page     models.Page     `json:"page"`
	Blocks   []models.Block  `json:"blocks"`
	Fragment string          `json:"fragment"`
	Focus    *models.BlockID `json:"focus,omitempty"`
}

// BlockPatch is a partial block update. Nil fields stay untouched; a Type
// change clears the fields the old type leaves behind before the rest of
// the patch applies.
type BlockPatch struct {
	Text    *string           `json:"text,omitempty"`
	Type    *models.BlockType `json:"type,omitempty"`
	Checked *bool             `json:"checked,omitempty"`
	Rows    *[][]string       `json:"rows,omitempty"`
	Indent  *int              `json:"indent,omitempty"`
}

// Resolved is the answer to fragment resolution.
type Resolved struct {
	Page  models.Page     `json:"page"`
	Block *models.BlockID `json:"blockId,omitempty"`
}

// doRequest performs an HTTP request with proper headers
func (c *Client) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.httpClient.Do(req)
}

// decodeResponse decodes the JSON response into the target struct
func decodeResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	if target != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// pagePath builds the URL path for a page name. Slashes stay literal so
// nested names route through the greedy name pattern; every other special
// character is escaped per segment.
func pagePath(name string) string {
	parts := strings.Split(name, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return "/api/pages/" + strings.Join(parts, "/")
}

// Health checks the health status of the server
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return nil, err
	}

	var result map[string]any
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Directory operations

// ListPages retrieves the page records in stored order.
func (c *Client) ListPages(ctx context.Context) ([]models.Page, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/pages", nil)
	if err != nil {
		return nil, err
	}

	var result []models.Page
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// PageTree retrieves the pages grouped under their parents.
func (c *Client) PageTree(ctx context.Context) ([]pages.Node, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/pages?tree=true", nil)
	if err != nil {
		return nil, err
	}

	var result []pages.Node
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// CreatePage creates a page and opens it for editing. A nil parentID
// creates a top-level page.
func (c *Client) CreatePage(ctx context.Context, name string, parentID *models.PageID) (*models.Page, error) {
	body := map[string]any{"name": name}
	if parentID != nil {
		body["parentId"] = parentID
	}
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/pages", body)
	if err != nil {
		return nil, err
	}

	var result models.Page
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetPage retrieves a page record by name.
func (c *Client) GetPage(ctx context.Context, name string) (*models.Page, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, pagePath(name), nil)
	if err != nil {
		return nil, err
	}

	var result models.Page
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeletePage cascade-deletes a page and its descendants. The server
// refuses with a 409 unless confirm is true.
func (c *Client) DeletePage(ctx context.Context, name string, confirm bool) error {
	path := pagePath(name)
	if confirm {
		path += "?confirm=true"
	}
	resp, err := c.doRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	return decodeResponse(resp, nil)
}

// RenamePage renames a page, migrating stored references and links.
func (c *Client) RenamePage(ctx context.Context, name, newName string) (*models.Page, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, pagePath(name)+"/rename", map[string]string{"newName": newName})
	if err != nil {
		return nil, err
	}

	var result models.Page
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ToggleFavorite flips a page's favorite membership, returning the new
// state.
func (c *Client) ToggleFavorite(ctx context.Context, name string) (bool, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, pagePath(name)+"/favorite", nil)
	if err != nil {
		return false, err
	}

	var result map[string]bool
	if err := decodeResponse(resp, &result); err != nil {
		return false, err
	}
	return result["favorite"], nil
}

// OpenPage makes the named page current and returns its document.
func (c *Client) OpenPage(ctx context.Context, name string) (*Document, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, pagePath(name)+"/open", nil)
	if err != nil {
		return nil, err
	}

	var result Document
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Favorites retrieves the favorite page names in marking order.
func (c *Client) Favorites(ctx context.Context) ([]string, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/favorites", nil)
	if err != nil {
		return nil, err
	}

	var result []string
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Recents retrieves the recently opened page names, most recent first.
func (c *Client) Recents(ctx context.Context) ([]string, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/recent", nil)
	if err != nil {
		return nil, err
	}

	var result []string
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Document operations

// Document retrieves the open page with its blocks.
func (c *Client) Document(ctx context.Context) (*Document, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/document", nil)
	if err != nil {
		return nil, err
	}

	var result Document
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// InsertBlock adds a block to the open page. An empty type means text; a
// nil position appends.
func (c *Client) InsertBlock(ctx context.Context, t models.BlockType, text string, indent int, position *int) (*models.Block, error) {
	body := map[string]any{"type": t, "text": text, "indent": indent}
	if position != nil {
		body["position"] = *position
	}
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/blocks", body)
	if err != nil {
		return nil, err
	}

	var result models.Block
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateBlock applies a partial update and returns the updated block.
func (c *Client) UpdateBlock(ctx context.Context, id models.BlockID, patch BlockPatch) (*models.Block, error) {
	resp, err := c.doRequest(ctx, http.MethodPatch, "/api/blocks/"+id.String(), patch)
	if err != nil {
		return nil, err
	}

	var result models.Block
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteBlock removes a block; the returned document's focus hint points
// at the block before it.
func (c *Client) DeleteBlock(ctx context.Context, id models.BlockID) (*Document, error) {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/api/blocks/"+id.String(), nil)
	if err != nil {
		return nil, err
	}

	var result Document
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DuplicateBlock clones a block under a fresh id and returns the copy.
func (c *Client) DuplicateBlock(ctx context.Context, id models.BlockID) (*models.Block, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/blocks/"+id.String()+"/duplicate", nil)
	if err != nil {
		return nil, err
	}

	var result models.Block
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// MoveBlock repositions a block before another block or to an absolute
// index; exactly one of before and index applies.
func (c *Client) MoveBlock(ctx context.Context, id models.BlockID, before *models.BlockID, index *int) (*Document, error) {
	body := map[string]any{}
	if before != nil {
		body["before"] = before
	}
	if index != nil {
		body["index"] = *index
	}
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/blocks/"+id.String()+"/move", body)
	if err != nil {
		return nil, err
	}

	var result Document
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SplitBlock splits a block at a caret offset, the Enter behavior.
func (c *Client) SplitBlock(ctx context.Context, id models.BlockID, offset int) (*Document, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/blocks/"+id.String()+"/split", map[string]int{"offset": offset})
	if err != nil {
		return nil, err
	}

	var result Document
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ToggleBlock flips a todo block's checkbox and returns the block.
func (c *Client) ToggleBlock(ctx context.Context, id models.BlockID) (*models.Block, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/blocks/"+id.String()+"/toggle", nil)
	if err != nil {
		return nil, err
	}

	var result models.Block
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// BlockLink retrieves the shareable absolute link to a block of the open
// page.
func (c *Client) BlockLink(ctx context.Context, id models.BlockID) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/blocks/"+id.String()+"/link", nil)
	if err != nil {
		return "", err
	}

	var result map[string]string
	if err := decodeResponse(resp, &result); err != nil {
		return "", err
	}
	return result["url"], nil
}

// Navigation and appearance

// Resolve resolves a hash fragment to its page record and optional block
// target.
func (c *Client) Resolve(ctx context.Context, fragment string) (*Resolved, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/resolve?fragment="+url.QueryEscape(fragment), nil)
	if err != nil {
		return nil, err
	}

	var result Resolved
	if err := decodeResponse(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Theme retrieves the stored UI theme.
func (c *Client) Theme(ctx context.Context) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/theme", nil)
	if err != nil {
		return "", err
	}

	var result map[string]string
	if err := decodeResponse(resp, &result); err != nil {
		return "", err
	}
	return result["theme"], nil
}

// SetTheme stores the UI theme, either "light" or "dark".
func (c *Client) SetTheme(ctx context.Context, theme string) error {
	resp, err := c.doRequest(ctx, http.MethodPut, "/api/theme", map[string]string{"theme": theme})
	if err != nil {
		return err
	}
	return decodeResponse(resp, nil)
}
