// Package client is a typed HTTP client for the Sapie API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client wraps HTTP calls to the Sapie API.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewClient creates a Client from a base URL (e.g. http://localhost:3000)
// and bearer token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/") + "/api",
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is returned when the server sends a non-2xx status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

func (c *Client) newRequest(method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) doJSON(req *http.Request, out interface{}) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &errResp) == nil && errResp.Message != "" {
			return &APIError{Status: resp.StatusCode, Message: errResp.Message}
		}
		return &APIError{Status: resp.StatusCode, Message: string(data)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func (c *Client) get(path string, params url.Values, out interface{}) error {
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	req, err := c.newRequest(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, out)
}

func (c *Client) post(path string, body interface{}, out interface{}) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(data)
	}
	req, err := c.newRequest(http.MethodPost, path, r)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doJSON(req, out)
}

// Health checks the API without authentication.
func (c *Client) Health() (*Health, error) {
	var health Health
	if err := c.get("/health", nil, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// Me returns the authenticated user's profile.
func (c *Client) Me() (*UserProfile, error) {
	var profile UserProfile
	if err := c.get("/auth", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Root fetches (creating on first access) the user's root directory.
func (c *Client) Root() (*Content, error) {
	var root Content
	if err := c.get("/content/root", nil, &root); err != nil {
		return nil, err
	}
	return &root, nil
}

// Children lists the immediate children of a directory.
func (c *Client) Children(parentID string) ([]Content, error) {
	params := url.Values{"parentId": {parentID}}
	children := make([]Content, 0)
	if err := c.get("/content", params, &children); err != nil {
		return nil, err
	}
	return children, nil
}

// CreateNote creates a note under the given parent directory.
func (c *Client) CreateNote(name, parentID string) (*Content, error) {
	var content Content
	body := map[string]string{"name": name, "parentId": parentID}
	if err := c.post("/content", body, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// GetContent fetches a single node by id.
func (c *Client) GetContent(id string) (*Content, error) {
	var content Content
	if err := c.get("/content/"+id, nil, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// UploadPayload stores a note's body.
func (c *Client) UploadPayload(id string, body []byte, contentType string) (*Content, error) {
	req, err := c.newRequest(http.MethodPut, "/content/"+id+"/payload", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if contentType == "" {
		contentType = "text/markdown"
	}
	req.Header.Set("Content-Type", contentType)

	var content Content
	if err := c.doJSON(req, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// DownloadPayload reads a note's body.
func (c *Client) DownloadPayload(id string) ([]byte, error) {
	req, err := c.newRequest(http.MethodGet, "/content/"+id+"/payload", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode >= 400 {
		var errResp struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &errResp) == nil && errResp.Message != "" {
			return nil, &APIError{Status: resp.StatusCode, Message: errResp.Message}
		}
		return nil, &APIError{Status: resp.StatusCode, Message: string(data)}
	}
	return data, nil
}
