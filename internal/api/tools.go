package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"agentforge/internal/logging"
)

// ToolRequest is the body for tool create/update.
type ToolRequest struct {
	Type              string            `json:"type"`
	Name              string            `json:"name"`
	Description       string            `json:"description"`
	Config            map[string]string `json:"config"`
	AccessType        string            `json:"access_type"`
	AllowedUserIDs    []string          `json:"allowed_user_ids"`
	AllowedGroupIDs   []string          `json:"allowed_group_ids"`
	CanEditUserIDs    []string          `json:"can_edit_user_ids"`
	CanDeleteUserIDs  []string          `json:"can_delete_user_ids"`
	CanExecuteUserIDs []string          `json:"can_execute_user_ids"`
}

// Tool is a tool record as returned by the backend.
type Tool struct {
	ID                string            `json:"tool_id"`
	Type              string            `json:"type"`
	Name              string            `json:"name"`
	Description       string            `json:"description"`
	Config            map[string]string `json:"config"`
	AccessType        string            `json:"access_type"`
	AllowedUserIDs    []string          `json:"allowed_user_ids"`
	AllowedGroupIDs   []string          `json:"allowed_group_ids"`
	CanEditUserIDs    []string          `json:"can_edit_user_ids"`
	CanDeleteUserIDs  []string          `json:"can_delete_user_ids"`
	CanExecuteUserIDs []string          `json:"can_execute_user_ids"`
}

// CreateTool creates the tool record. This call alone carries the short
// write timeout: if it fails nothing else runs, so it must fail fast.
func (c *Client) CreateTool(ctx context.Context, req ToolRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, ToolWriteTimeout)
	defer cancel()

	var resp struct {
		ToolID string `json:"tool_id"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/tools", req, &resp); err != nil {
		return "", err
	}
	if resp.ToolID == "" {
		return "", fmt.Errorf("server returned no tool id")
	}
	logging.API("created tool %s (%s)", resp.ToolID, req.Type)
	return resp.ToolID, nil
}

// UpdateTool updates an existing tool record, same timeout as CreateTool.
func (c *Client) UpdateTool(ctx context.Context, id string, req ToolRequest) error {
	ctx, cancel := context.WithTimeout(ctx, ToolWriteTimeout)
	defer cancel()

	if err := c.doJSON(ctx, http.MethodPut, "/api/tools/"+id, req, nil); err != nil {
		return err
	}
	logging.API("updated tool %s", id)
	return nil
}

// GetTool fetches one tool record, used by edit mode to pre-populate the
// wizard.
func (c *Client) GetTool(ctx context.Context, id string) (Tool, error) {
	var t Tool
	if err := c.doJSON(ctx, http.MethodGet, "/api/tools/"+id, nil, &t); err != nil {
		return Tool{}, err
	}
	if t.ID == "" {
		t.ID = id
	}
	return t, nil
}

// UploadDocument uploads one file to a tool as multipart form data.
func (c *Client) UploadDocument(ctx context.Context, toolID, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to finalize upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/tools/"+toolID+"/documents", &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.prepare(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.APIError("upload %s to tool %s failed: %v", filepath.Base(path), toolID, err)
		return fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		return serverError(resp.StatusCode, data)
	}
	logging.API("uploaded %s to tool %s", filepath.Base(path), toolID)
	return nil
}

// Scrape submits a URL for server-side crawling.
func (c *Client) Scrape(ctx context.Context, toolID, url string, recursive bool, maxPages int) error {
	body := struct {
		URL       string `json:"url"`
		Recursive bool   `json:"recursive"`
		MaxPages  int    `json:"max_pages"`
	}{URL: url, Recursive: recursive, MaxPages: maxPages}
	return c.doJSON(ctx, http.MethodPost, "/api/tools/"+toolID+"/scrape", body, nil)
}

// AddTextEntry submits one free-text document.
func (c *Client) AddTextEntry(ctx context.Context, toolID, source, content string) error {
	body := struct {
		Source  string `json:"source"`
		Content string `json:"content"`
	}{Source: source, Content: content}
	return c.doJSON(ctx, http.MethodPost, "/api/tools/"+toolID+"/demo-document", body, nil)
}

// TablePayload is the structured half of a table entry submission.
type TablePayload struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// AddTableEntry submits one table entry: the markdown rendering as content
// plus the structured table data.
func (c *Client) AddTableEntry(ctx context.Context, toolID, source, content string, table TablePayload) error {
	body := struct {
		Source    string       `json:"source"`
		Content   string       `json:"content"`
		TableData TablePayload `json:"table_data"`
	}{Source: source, Content: content, TableData: table}
	return c.doJSON(ctx, http.MethodPost, "/api/tools/"+toolID+"/table-entry", body, nil)
}
