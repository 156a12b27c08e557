package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"slices"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/meigma/filekind"
)

// PostJSON posts body as JSON to endpoint and decodes the response into T.
//
// Each attempt is bounded by the client timeout. Failed attempts are retried
// with exponential backoff while ShouldRetry allows it.
func PostJSON[T any](ctx context.Context, c *Client, endpoint string, body any) (T, error) {
	var out T
	payload, err := json.Marshal(body)
	if err != nil {
		return out, fmt.Errorf("encode request: %w", err)
	}

	attempt := 0
	op := func() error {
		attempt++
		data, err := c.post(ctx, endpoint, "application/json", bytes.NewReader(payload), c.timeout)
		if err != nil {
			if !ShouldRetry(err, attempt, c.maxRetries) {
				c.log().Error("request failed", "endpoint", endpoint, "attempt", attempt, "max_attempts", c.maxRetries, "error", err)
				return backoff.Permanent(err)
			}
			return err
		}
		if err := decode(data, &out); err != nil {
			return backoff.Permanent(err)
		}
		return nil
	}
	notify := func(err error, next time.Duration) {
		c.log().Warn("request failed, retrying", "endpoint", endpoint, "attempt", attempt, "max_attempts", c.maxRetries, "delay", next, "error", err)
	}

	if err := backoff.RetryNotify(op, c.backOff(ctx), notify); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func (c *Client) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.baseDelay
	b.MaxInterval = c.maxDelay
	b.MaxElapsedTime = 0
	retries := uint64(max(c.maxRetries-1, 0)) //nolint:gosec // maxRetries is at least 1
	return backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx)
}

// FormFile is a file part of a multipart request.
type FormFile struct {
	Field   string
	Name    string
	Content io.Reader
}

// RawFormFile builds a FormFile that uploads raw under field.
func RawFormFile(field string, raw *filekind.RawFile) FormFile {
	return FormFile{Field: field, Name: raw.Name(), Content: raw.Reader()}
}

// PostForm posts fields and files as multipart/form-data and decodes the
// response into T. Form requests are bounded by the form timeout and are
// not retried.
func PostForm[T any](ctx context.Context, c *Client, endpoint string, fields map[string]string, files ...FormFile) (T, error) {
	var out T

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		if err := mw.WriteField(key, fields[key]); err != nil {
			return out, fmt.Errorf("write field %q: %w", key, err)
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(f.Field, f.Name)
		if err != nil {
			return out, fmt.Errorf("create part %q: %w", f.Name, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return out, fmt.Errorf("write part %q: %w", f.Name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return out, fmt.Errorf("close form: %w", err)
	}

	data, err := c.post(ctx, endpoint, mw.FormDataContentType(), &buf, c.formTimeout)
	if err != nil {
		c.log().Error("form request failed", "endpoint", endpoint, "error", err)
		return out, err
	}
	if err := decode(data, &out); err != nil {
		return out, err
	}
	return out, nil
}

// post sends one request and returns the body of a 2xx response.
func (c *Client) post(ctx context.Context, endpoint, contentType string, body io.Reader, timeout time.Duration) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := nethttp.NewRequestWithContext(attemptCtx, nethttp.MethodPost, c.url(endpoint), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for key, values := range c.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(ClientIDHeader, c.clientID)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, c.attemptError(ctx, attemptCtx, timeout, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.attemptError(ctx, attemptCtx, timeout, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newResponseError(resp.StatusCode, data)
	}
	return data, nil
}

// attemptError tells a per-attempt timeout apart from the caller's own
// cancellation or deadline.
func (c *Client) attemptError(parent, attempt context.Context, timeout time.Duration, err error) error {
	if parent.Err() == nil && errors.Is(attempt.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w after %s", ErrTimeout, timeout)
	}
	return fmt.Errorf("post: %w", err)
}

func decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}
