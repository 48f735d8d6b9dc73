package widget

//go:generate mockgen -destination=./clients_mock_test.go -package=widget -source=clients.go AnswerClient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// AnswerClient is the contract for the external answer service.
type AnswerClient interface {
	// Ask sends one question and returns the answer text.
	// It returns ErrMissingAnswer when the service replied without an answer
	// and a *TransportError when the exchange itself failed.
	Ask(ctx context.Context, question string) (string, error)
}

// httpAnswerClient is the implementation for the AnswerClient.
type httpAnswerClient struct {
	httpClient *http.Client
	endpoint   string
}

// NewHTTPAnswerClient is the constructor. baseURL is the answer service root,
// eg "http://localhost:8080"; questions are posted to /api/questions.
func NewHTTPAnswerClient(baseURL string, timeout time.Duration) AnswerClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &httpAnswerClient{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   strings.TrimRight(baseURL, "/") + "/api/questions",
	}
}

// askRequest keeps the answertext field even though it always goes out empty;
// the service expects the full question shape.
type askRequest struct {
	QuestionText string `json:"questiontext"`
	AnswerText   string `json:"answertext"`
}

type askResponse struct {
	AnswerText *string `json:"answertext"`
}

// Ask makes an http call to the answer service.
func (c *httpAnswerClient) Ask(ctx context.Context, question string) (string, error) {
	reqBody, err := json.Marshal(askRequest{QuestionText: question, AnswerText: ""})
	if err != nil {
		return "", fmt.Errorf("could not marshal ask request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(reqBody))
	if err != nil {
		return "", &TransportError{Op: "create ask request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Op: "ask request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &TransportError{Op: "ask", StatusCode: resp.StatusCode}
	}

	var askResp askResponse
	if err := json.NewDecoder(resp.Body).Decode(&askResp); err != nil {
		return "", &TransportError{Op: "decode ask response", Err: err}
	}
	if askResp.AnswerText == nil || *askResp.AnswerText == "" {
		return "", ErrMissingAnswer
	}

	return *askResp.AnswerText, nil
}

// stubAnswerClient answers from a fixed table. It lets the widget run without
// an answer service during local development.
type stubAnswerClient struct {
	answers []stubAnswer
}

type stubAnswer struct {
	keyword string
	answer  string
}

// NewStubAnswerClient creates a fake client.
func NewStubAnswerClient() AnswerClient {
	return &stubAnswerClient{
		answers: []stubAnswer{
			{"bonjour", "Bonjour ! Comment puis-je vous aider ? 😊"},
			{"horaires", "Nos horaires sont de 8h30 à 16h30, du dimanche au jeudi."},
			{"crédit", "Pour demander un prêt, vous devez remplir un formulaire disponible en ligne."},
			{"compte", "Vous pouvez ouvrir un compte en ligne ou en agence."},
		},
	}
}

func (s *stubAnswerClient) Ask(ctx context.Context, question string) (string, error) {
	q := strings.ToLower(question)
	for _, a := range s.answers {
		if strings.Contains(q, a.keyword) {
			return a.answer, nil
		}
	}
	return "Je suis désolé, je n'ai pas compris votre question.", nil
}
