package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rickgao/eod-data/internal/model"
	"github.com/rickgao/eod-data/internal/version"
)

// APIError represents a non-success response from the EOD API.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("eod api error %d: %s", e.StatusCode, e.Message)
}

// SymbolNotFoundError is returned when the provider has no data for an instrument.
type SymbolNotFoundError struct {
	Instrument model.Instrument
}

func (e *SymbolNotFoundError) Error() string {
	return "symbol not found: " + e.Instrument.String()
}

// Is reports whether target is model.ErrSymbolNotFound.
func (e *SymbolNotFoundError) Is(target error) bool {
	return target == model.ErrSymbolNotFound
}

// doRequest performs a GET request against path. Transport errors are
// returned as produced by the http.Client, with the token scrubbed.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	q.Set("api_token", c.apiToken)
	q.Set("fmt", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	c.logger.Debug("api request", "path", path, "params", len(query))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = c.redact(urlErr.URL)
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       body,
		}
	}

	return body, nil
}

func (c *Client) redact(s string) string {
	return strings.ReplaceAll(s, url.QueryEscape(c.apiToken), "REDACTED")
}

// notFound maps a 404 for an instrument endpoint to SymbolNotFoundError.
func notFound(err error, inst model.Instrument) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return &SymbolNotFoundError{Instrument: inst}
	}
	return err
}

// decode parses a JSON body, keeping numbers as json.Number.
func decode(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return v, nil
}

// decodeRecord parses a body that must hold a single object.
func decodeRecord(body []byte) (model.Record, error) {
	v, err := decode(body)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unmarshal response: got %T, want object", v)
	}
	return obj, nil
}

// decodeRecords parses a body holding a list of objects. A single object
// is returned as a one-element list.
func decodeRecords(body []byte) ([]model.Record, error) {
	v, err := decode(body)
	if err != nil {
		return nil, err
	}

	switch v := v.(type) {
	case map[string]any:
		return []model.Record{v}, nil
	case []any:
		records := make([]model.Record, 0, len(v))
		for i, elem := range v {
			obj, ok := elem.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("unmarshal response: element %d is %T, want object", i, elem)
			}
			records = append(records, obj)
		}
		return records, nil
	default:
		return nil, fmt.Errorf("unmarshal response: got %T, want object or list", v)
	}
}
