// Package dvla is a thin client for the government vehicle-enquiry API.
package dvla

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/autopeer-io/platecheck/internal/pkg/metrics"
	"github.com/autopeer-io/platecheck/pkg/log"
	"github.com/autopeer-io/platecheck/pkg/options"
	"github.com/autopeer-io/platecheck/pkg/vrm"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 1 << 20

// Client performs vehicle enquiries. It never retries and never caches:
// every Fetch is exactly one outbound request.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client, which is built from the
// configured timeout.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(opts *options.DvlaOptions, clientOpts ...ClientOption) *Client {
	c := &Client{
		endpoint: opts.Endpoint,
		apiKey:   opts.APIKey,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
	}
	for _, o := range clientOpts {
		o(c)
	}
	return c
}

// Fetch looks up a single registration. Failures are always *APIError.
func (c *Client) Fetch(ctx context.Context, registration vrm.VRM) (*Vehicle, error) {
	vehicle, err := c.fetch(ctx, registration)

	kind := "ok"
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		kind = string(apiErr.Kind)
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(kind).Inc()

	return vehicle, err
}

func (c *Client) fetch(ctx context.Context, registration vrm.VRM) (*Vehicle, error) {
	body, err := json.Marshal(EnquiryRequest{RegistrationNumber: registration.String()})
	if err != nil {
		return nil, &APIError{Kind: KindUnknown, Message: "failed to encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &APIError{Kind: KindUnknown, Message: "failed to build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &APIError{
			Kind:       KindNetworkFailure,
			StatusCode: resp.StatusCode,
			Message:    "failed to read response body",
			Err:        err,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode, raw)
	}

	// A proxy may answer 200 with a failure body.
	var failure FailureResponse
	if json.Unmarshal(raw, &failure) == nil && bytes.Contains(raw, []byte(`"success"`)) && !failure.Success {
		status := failure.StatusCode
		if status == 0 {
			status = http.StatusBadGateway
		}
		return nil, statusError(status, raw)
	}

	var vehicle Vehicle
	if err := json.Unmarshal(raw, &vehicle); err != nil {
		return nil, &APIError{
			Kind:       KindUnknown,
			StatusCode: resp.StatusCode,
			Message:    "malformed vehicle payload",
			Err:        err,
		}
	}

	log.Debug("Vehicle enquiry succeeded", "registration", registration, "status", resp.StatusCode)
	return &vehicle, nil
}

// transportError classifies a failure where no HTTP response was received.
func transportError(err error) *APIError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &APIError{Kind: KindServiceUnavailable, Message: "vehicle enquiry timed out", Err: err}
	}
	return &APIError{Kind: KindNetworkFailure, Message: "could not reach the vehicle enquiry service", Err: err}
}

// statusError builds the error for a failed response, preferring the
// message carried in either known failure body shape.
func statusError(status int, raw []byte) *APIError {
	msg := http.StatusText(status)

	var failure FailureResponse
	var upstream upstreamErrors
	switch {
	case json.Unmarshal(raw, &failure) == nil && failure.Error != "":
		msg = failure.Error
	case json.Unmarshal(raw, &upstream) == nil && len(upstream.Errors) > 0:
		e := upstream.Errors[0]
		msg = strings.TrimSpace(fmt.Sprintf("%s %s", e.Title, e.Detail))
	}
	if msg == "" {
		msg = fmt.Sprintf("unexpected status %d", status)
	}

	return &APIError{Kind: kindForStatus(status), StatusCode: status, Message: msg}
}
