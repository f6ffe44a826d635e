package groq

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"llamachat-golang/relay/internal/config"
	"llamachat-golang/relay/internal/logger"
	jsonpkg "llamachat-golang/relay/internal/pkg/json"
)

// APIError carries the provider's HTTP status and message. The message is for
// server-side logs only; handlers must not echo it to clients.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Status, e.Message)
}

var ErrNoChoices = errors.New("provider returned no choices")

type Client struct {
	httpClient *http.Client
	config     *config.Config
}

func NewClient() *Client {
	cfg := config.Get()

	transport := &http.Transport{
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(cfg.TimeoutMs) * time.Millisecond,
		},
		config: cfg,
	}
}

// ChatCompletion sends the full conversation history with the fixed sampling
// parameters and returns the assistant's reply text. The call is bounded by
// the client timeout and the request context; retryable statuses are retried
// with backoff.
func (c *Client) ChatCompletion(ctx context.Context, history []Message) (string, error) {
	var text string
	err := c.withRetry(ctx, func() error {
		resp, err := c.sendRequest(ctx, &Request{
			Model:       c.config.Model,
			Messages:    history,
			Temperature: Temperature,
			MaxTokens:   MaxTokens,
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return ErrNoChoices
		}
		text = resp.Choices[0].Message.Content
		return nil
	})
	return text, err
}

func (c *Client) sendRequest(ctx context.Context, req *Request) (*Response, error) {
	body, err := jsonpkg.Marshal(req)
	if err != nil {
		return nil, err
	}

	logger.BackendRequest(http.MethodPost, c.config.GroqAPIURL, body)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.GroqAPIURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.config.GroqAPIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	startTime := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	logger.BackendResponse(resp.StatusCode, time.Since(startTime), string(respBody))

	if resp.StatusCode != http.StatusOK {
		return nil, extractErrorDetails(resp.StatusCode, respBody)
	}

	var out Response
	if err := jsonpkg.Unmarshal(respBody, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func extractErrorDetails(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status, Message: "unknown error"}

	var errorResp struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
		} `json:"error"`
	}
	if jsonpkg.Unmarshal(body, &errorResp) == nil && errorResp.Error.Message != "" {
		apiErr.Message = errorResp.Error.Message
	}
	return apiErr
}

func (c *Client) withRetry(ctx context.Context, operation func() error) error {
	var lastErr error

	for attempt := 0; attempt < c.config.RetryMaxAttempts; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err
		apiErr, ok := err.(*APIError)
		if !ok {
			return err
		}

		shouldRetry := false
		for _, code := range c.config.RetryStatusCodes {
			if apiErr.Status == code {
				shouldRetry = true
				break
			}
		}

		if !shouldRetry || attempt == c.config.RetryMaxAttempts-1 {
			return err
		}

		ms := 1000 * (attempt + 1)
		if ms > 5000 {
			ms = 5000
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(ms) * time.Millisecond):
		}
	}

	return lastErr
}
