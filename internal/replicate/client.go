// Package replicate is the typed HTTP client for the generation job API
// (the thin proxy fronting the image-generation provider).
package replicate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/carlelieser/avatarmon/internal/models"
)

// APIError is the single error shape every client failure is surfaced
// as. Status is the HTTP status code, or 0 for network-level failures.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("generation api: %s (status %d, code %s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("generation api: %s (status %d)", e.Message, e.Status)
}

// errorBody is the JSON shape non-2xx responses carry. The proxy uses
// "message"; some upstream errors arrive under "error" instead.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Create submits a new generation job.
func (c *Client) Create(req models.GenerationRequest) (models.JobState, error) {
	var state models.JobState
	if err := c.do("POST", "/api/generate", req, &state); err != nil {
		return models.JobState{}, err
	}
	state.Status = normalizeStatus(state.Status)
	return state, nil
}

// GetStatus polls the state of a previously created job.
func (c *Client) GetStatus(id string) (models.JobState, error) {
	var state models.JobState
	if err := c.do("GET", "/api/generate/"+id, nil, &state); err != nil {
		return models.JobState{}, err
	}
	state.Status = normalizeStatus(state.Status)
	return state, nil
}

// Cancel asks the provider to stop a job. The response body is ignored
// beyond the status code; callers treat cancel as best-effort.
func (c *Client) Cancel(id string) error {
	return c.do("POST", "/api/generate/"+id+"/cancel", nil, nil)
}

func (c *Client) do(method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &APIError{Status: 0, Message: fmt.Sprintf("encoding request: %v", err)}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return &APIError{Status: 0, Message: fmt.Sprintf("creating request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Status: 0, Message: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("reading response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseErrorResponse(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("decoding response: %v", err)}
		}
	}
	return nil
}

// parseErrorResponse extracts a human message and provider code from a
// non-2xx body, falling back to a generic message when the body is not
// parseable JSON.
func parseErrorResponse(status int, data []byte) *APIError {
	apiErr := &APIError{Status: status, Message: "Request failed"}
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return apiErr
	}
	if body.Message != "" {
		apiErr.Message = body.Message
	} else if body.Error != "" {
		apiErr.Message = body.Error
	}
	apiErr.Code = body.Code
	return apiErr
}

// normalizeStatus folds provider-native prediction statuses into the app
// enum, so the client tolerates responses that bypassed the proxy's own
// mapping. Unknown statuses are treated as queued.
func normalizeStatus(s models.GenerationStatus) models.GenerationStatus {
	switch s {
	case models.StatusQueued, models.StatusProcessing, models.StatusCompleted,
		models.StatusFailed, models.StatusCancelled:
		return s
	case "starting":
		return models.StatusQueued
	case "succeeded":
		return models.StatusCompleted
	case "canceled":
		return models.StatusCancelled
	default:
		return models.StatusQueued
	}
}
