package question

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bea-chatbot/internal/domain"
)

// APIError is a non-2xx answer from the QuestionService.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("question service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("question service returned status %d: %s", e.StatusCode, e.Message)
}

// Client talks to the QuestionService admin API. bea-admin is built on it.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient is the constructor for the admin client.
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// List returns every stored question.
func (c *Client) List(ctx context.Context) ([]*domain.Question, error) {
	var out []*domain.Question
	if err := c.do(ctx, http.MethodGet, "/admin/questions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get fetches a single question.
func (c *Client) Get(ctx context.Context, id int64) (*domain.Question, error) {
	var out domain.Question
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/questions/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create stores a curated question.
func (c *Client) Create(ctx context.Context, questionText, answerText string) (*domain.Question, error) {
	var out domain.Question
	body := questionRequest{QuestionText: questionText, AnswerText: answerText}
	if err := c.do(ctx, http.MethodPost, "/admin/questions", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update rewrites a stored question.
func (c *Client) Update(ctx context.Context, id int64, questionText, answerText string) (*domain.Question, error) {
	var out domain.Question
	body := questionRequest{QuestionText: questionText, AnswerText: answerText}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/admin/questions/%d", id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a stored question.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/questions/%d", id), nil, nil)
}

// Ask goes through the same path as the chat widget.
func (c *Client) Ask(ctx context.Context, questionText string) (*domain.Question, error) {
	var out domain.Question
	if err := c.do(ctx, http.MethodPost, "/api/questions", questionRequest{QuestionText: questionText}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("could not marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("could not create http request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errBody map[string]string
		if json.NewDecoder(resp.Body).Decode(&errBody) == nil {
			apiErr.Message = errBody["error"]
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}
	return nil
}
