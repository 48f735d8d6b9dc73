package question

//go:generate mockgen -destination=./clients_mock_test.go -package=question -source=clients.go NLPClient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Prediction is what the FAQ classifier returns for a question.
type Prediction struct {
	Success    bool    `json:"success"`
	Answer     string  `json:"answer"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Error      string  `json:"error,omitempty"`
}

// NLPClient defines the contract for the FAQ classifier service.
type NLPClient interface {
	// Predict classifies a question and proposes the best matching answer.
	Predict(ctx context.Context, question string) (*Prediction, error)
}

// httpNLPClient is the implementation for the NLPClient.
type httpNLPClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewHTTPNLPClient is the constructor for the classifier client.
func NewHTTPNLPClient(baseURL string, timeout time.Duration) NLPClient {
	if timeout <= 0 {
		timeout = 15 * time.Second // Model inference can be slow
	}
	return &httpNLPClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type predictRequest struct {
	Question string `json:"question"`
}

// Predict makes an http call to the classifier.
func (c *httpNLPClient) Predict(ctx context.Context, question string) (*Prediction, error) {
	reqBody, err := json.Marshal(predictRequest{Question: question})
	if err != nil {
		return nil, fmt.Errorf("could not marshal predict request: %w", err)
	}

	url := c.baseURL + "/predict-category"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("could not create predict http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("predict request failed: %w", err)
	}
	defer resp.Body.Close()

	// The classifier answers 503 while its models are still loading.
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nlp service returned non-200 status: %d", resp.StatusCode)
	}

	var prediction Prediction
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return nil, fmt.Errorf("could not decode predict response: %w", err)
	}
	return &prediction, nil
}

// stubNLPClient never finds an answer. It stands in when no classifier is configured.
type stubNLPClient struct{}

// NewStubNLPClient creates a fake client.
func NewStubNLPClient() NLPClient {
	return &stubNLPClient{}
}

func (s *stubNLPClient) Predict(ctx context.Context, question string) (*Prediction, error) {
	return &Prediction{Success: false, Error: "no classifier configured"}, nil
}
