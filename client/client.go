// Package client submits contact forms to the portfolio API. It validates
// fields locally, attaches a telemetry snapshot, and classifies failures the
// way the web frontend does: server error, network error, or unexpected.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"portfolio-api/telemetry"
)

// Form holds the contact form fields.
type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

type submissionPayload struct {
	Form
	TrackingData *telemetry.Record `json:"trackingData,omitempty"`
}

// Receipt is the server's acknowledgement of a stored submission. The full
// telemetry payload is never echoed back.
type Receipt struct {
	ID      string
	Name    string
	Email   string
	Message string
}

// ValidationError reports local field violations. The submission was not
// attempted and no network call was made.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	return "validation failed: " + strings.Join(keys, ", ")
}

// APIError means a response was received with a non-2xx status.
type APIError struct {
	Status  int
	Message string
	Details []string
}

func (e *APIError) Error() string { return e.Message }

// NetworkError means the request was sent but no response was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "Network error. Please check your internet connection."
}

func (e *NetworkError) Unwrap() error { return e.Err }

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validate checks the form fields locally, returning messages keyed by field
// name. An empty map means the form may be submitted.
func Validate(f Form) map[string]string {
	errs := make(map[string]string)
	if len(strings.TrimSpace(f.Name)) < 2 {
		errs["name"] = "Name must be at least 2 characters"
	}
	if !emailPattern.MatchString(strings.TrimSpace(f.Email)) {
		errs["email"] = "Please provide a valid email"
	}
	if len(strings.TrimSpace(f.Message)) < 10 {
		errs["message"] = "Message must be at least 10 characters"
	}
	return errs
}

// Client talks to the portfolio API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	collector  *telemetry.Collector
}

// New creates a client for the API at baseURL (e.g. "http://localhost:5000").
// collector may be nil; submissions then carry no telemetry.
func New(baseURL string, collector *telemetry.Collector) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		collector:  collector,
	}
}

type envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Error   string   `json:"error"`
	Details []string `json:"details"`
	Data    struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"data"`
}

// Submit validates the form, collects telemetry, and posts the submission.
// Exactly one error class applies to a failed attempt: *ValidationError
// (nothing sent), *APIError (non-2xx response), *NetworkError (no response),
// or a plain error for anything else. No retries are performed.
func (c *Client) Submit(ctx context.Context, form Form) (*Receipt, error) {
	if errs := Validate(form); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	payload := submissionPayload{Form: form}
	if c.collector != nil {
		record := c.collector.Collect(ctx)
		payload.TrackingData = &record
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode submission: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/contact", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.Error
		if msg == "" {
			msg = "Server error occurred"
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg, Details: env.Details}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode response: %w", decodeErr)
	}

	return &Receipt{
		ID:      env.Data.ID,
		Name:    env.Data.Name,
		Email:   env.Data.Email,
		Message: env.Message,
	}, nil
}
