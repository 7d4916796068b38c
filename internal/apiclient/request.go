package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MacJediWizard/edudesk/internal/envelope"
	"github.com/MacJediWizard/edudesk/internal/notifications"
	"github.com/MacJediWizard/edudesk/internal/query"
	"github.com/google/uuid"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 16 << 20

// Request issues one call and always returns an envelope, never a Go error.
//
// path is resolved against the base URL unless it is absolute. headers override
// the client defaults for this call only. body is JSON-encoded for POST, PUT and
// PATCH. The call is bounded by the client timeout and is never retried.
func Request[T any](ctx context.Context, c *Client, method, path string, body any, headers map[string]string) *envelope.Response[T] {
	start := c.now()
	target := c.resolve(path)
	hdr := c.mergeHeaders(headers)
	requestID := hdr[HeaderRequestID]
	if requestID == "" {
		requestID = uuid.NewString()
		hdr[HeaderRequestID] = requestID
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := roundTrip[T](ctx, c, method, target, body, hdr)
	if err != nil {
		resp = envelope.NetworkFailure[T](err, c.failureMessage(err), c.now())
		resp.RequestID = requestID
	}

	c.observe(ctx, method, target, requestID, c.now().Sub(start), resp.Status())
	return resp
}

// Get issues a GET with params appended in insertion order.
func Get[T any](ctx context.Context, c *Client, path string, params query.Params) *envelope.Response[T] {
	return Request[T](ctx, c, http.MethodGet, query.Append(path, params), nil, nil)
}

// Post issues a POST with an optional JSON body.
func Post[T any](ctx context.Context, c *Client, path string, body any) *envelope.Response[T] {
	return Request[T](ctx, c, http.MethodPost, path, body, nil)
}

// Put issues a PUT with an optional JSON body.
func Put[T any](ctx context.Context, c *Client, path string, body any) *envelope.Response[T] {
	return Request[T](ctx, c, http.MethodPut, path, body, nil)
}

// Patch issues a PATCH with an optional JSON body.
func Patch[T any](ctx context.Context, c *Client, path string, body any) *envelope.Response[T] {
	return Request[T](ctx, c, http.MethodPatch, path, body, nil)
}

// Delete issues a DELETE.
func Delete[T any](ctx context.Context, c *Client, path string) *envelope.Response[T] {
	return Request[T](ctx, c, http.MethodDelete, path, nil, nil)
}

// roundTrip performs the HTTP exchange. A non-nil error means no usable
// envelope could be produced.
func roundTrip[T any](ctx context.Context, c *Client, method, target string, body any, hdr map[string]string) (*envelope.Response[T], error) {
	var reader io.Reader
	if body != nil && hasBody(method) {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
		hdr[http.CanonicalHeaderKey("Content-Type")] = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return decode[T](res.StatusCode, raw, hdr[HeaderRequestID], c.now())
}

// decode turns a response body into an envelope. Bodies carrying the success
// discriminator are returned as sent; anything else is wrapped according to the
// HTTP status.
func decode[T any](status int, raw []byte, requestID string, now time.Time) (*envelope.Response[T], error) {
	ok := status >= 200 && status < 300

	if len(bytes.TrimSpace(raw)) == 0 {
		if ok {
			resp := envelope.Success[T](status, "", http.StatusText(status), nil, now)
			resp.RequestID = requestID
			return resp, nil
		}
		resp := envelope.Failure[T](status, envelope.ModuleApp, http.StatusText(status), httpErrorInfo(status, nil), now)
		resp.RequestID = requestID
		return resp, nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err == nil {
		if _, isEnvelope := probe["success"]; isEnvelope {
			var resp envelope.Response[T]
			if err := json.Unmarshal(raw, &resp); err != nil {
				return nil, fmt.Errorf("decode response envelope: %w", err)
			}
			if resp.StatusCode == 0 {
				resp.StatusCode = status
			}
			return &resp, nil
		}
	}

	if !ok {
		var details any
		if err := json.Unmarshal(raw, &details); err != nil {
			details = string(raw)
		}
		resp := envelope.Failure[T](status, envelope.ModuleApp, bareMessage(probe, status), httpErrorInfo(status, details), now)
		resp.RequestID = requestID
		return resp, nil
	}

	var data T
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode response body: %w", err)
	}
	resp := envelope.Success(status, "", http.StatusText(status), &data, now)
	resp.RequestID = requestID
	return resp, nil
}

// bareMessage picks a human message out of a body that is not an envelope.
func bareMessage(fields map[string]json.RawMessage, status int) string {
	for _, key := range []string{"message", "error"} {
		var s string
		if err := json.Unmarshal(fields[key], &s); err == nil && s != "" {
			return s
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return FallbackMessage
}

// httpErrorInfo classifies a failure that arrived without an error block.
func httpErrorInfo(status int, details any) *envelope.ErrorInfo {
	t := envelope.ErrorTypeSystem
	switch {
	case status == http.StatusUnauthorized:
		t = envelope.ErrorTypeAuth
	case status == http.StatusForbidden:
		t = envelope.ErrorTypeAccess
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		t = envelope.ErrorTypeValidation
	case status >= 400 && status < 500:
		t = envelope.ErrorTypeBusiness
	}
	return &envelope.ErrorInfo{Type: t, Code: "HTTP_" + strconv.Itoa(status), Details: details}
}

func hasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

// failureMessage renders a transport failure for the user.
func (c *Client) failureMessage(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("Request timed out after %s", c.timeout)
	case errors.Is(err, context.Canceled):
		return "Request was cancelled"
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return FallbackMessage
}

// observe logs, records metrics and notifies once for a finished call.
func (c *Client) observe(ctx context.Context, method, target, requestID string, d time.Duration, st envelope.Status) {
	c.metrics.RecordRequest(method, st.Success, st.StatusCode, d)

	if st.Success {
		c.logger.Debug().
			Str("method", method).
			Str("url", target).
			Int("status", st.StatusCode).
			Dur("duration", d).
			Str("request_id", requestID).
			Msg("api request")
		return
	}

	n := notifications.Notification{
		Level:      notifications.LevelError,
		Message:    st.Message,
		StatusCode: st.StatusCode,
		Module:     string(st.Module),
		RequestID:  requestID,
		Method:     method,
		URL:        target,
		Timestamp:  c.now(),
	}
	if n.Message == "" {
		n.Message = FallbackMessage
	}
	if st.RequestID != "" {
		n.RequestID = st.RequestID
	}
	if st.Error != nil {
		n.ErrorType = string(st.Error.Type)
		n.ErrorCode = st.Error.Code
		c.metrics.RecordFailure(n.Module, n.ErrorType, n.ErrorCode)
	}

	c.logger.Warn().
		Str("method", method).
		Str("url", target).
		Int("status", st.StatusCode).
		Str("error_code", n.ErrorCode).
		Dur("duration", d).
		Str("request_id", n.RequestID).
		Msg(n.Message)

	c.notifier.Notify(context.WithoutCancel(ctx), n)
}
