package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rocketscienceinc/tictactoe-api/internal/entity"
)

const (
	statePath   = "/api/tictactoe/state"
	movePath    = "/api/tictactoe/move"
	restartPath = "/api/tictactoe/restart"
)

// APIError is a non-200 answer of the game API.
type APIError struct {
	StatusCode int
	Message    string
}

func (that *APIError) Error() string {
	return fmt.Sprintf("%d: %s", that.StatusCode, that.Message)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (that *Client) State(ctx context.Context) (entity.Snapshot, error) {
	return that.do(ctx, http.MethodGet, statePath, nil)
}

func (that *Client) Move(ctx context.Context, row, col int) (entity.Snapshot, error) {
	return that.do(ctx, http.MethodPost, movePath, &entity.Move{Row: row, Col: col})
}

func (that *Client) Restart(ctx context.Context) (entity.Snapshot, error) {
	return that.do(ctx, http.MethodPost, restartPath, nil)
}

func (that *Client) do(ctx context.Context, method, path string, body any) (entity.Snapshot, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return entity.Snapshot{}, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, that.baseURL+path, reader)
	if err != nil {
		return entity.Snapshot{}, fmt.Errorf("failed to build request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := that.httpClient.Do(req)
	if err != nil {
		return entity.Snapshot{}, fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return entity.Snapshot{}, decodeAPIError(resp)
	}

	var state entity.Snapshot
	if err = json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return entity.Snapshot{}, fmt.Errorf("failed to decode state: %w", err)
	}

	return state, nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
		return apiErr
	}

	apiErr.Message = body.Error

	return apiErr
}
