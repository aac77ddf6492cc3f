package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/Mongkol7/E-Bookstore/pkg/config"
	pkgerrors "github.com/Mongkol7/E-Bookstore/pkg/errors"
)

// Client talks to the bookstore REST backend. It is the only component
// that issues network calls; everything above it consumes typed results.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New builds a client for the configured backend. The cookie jar rides
// along with every request so cookie-based auth keeps working next to
// the bearer token.
func New(cfg config.UpstreamConfig) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Jar:     jar,
		},
	}, nil
}

// NewWithHTTPClient is used by tests to point the client at an
// httptest server.
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) buildURL(path string) string {
	return c.baseURL + path
}

type errorBody struct {
	Error string `json:"error"`
}

// call issues one authenticated request and decodes the JSON response
// into out. An empty response body counts as an empty JSON object. The
// fallback message is used when the backend rejects the request without
// an error string of its own.
func (c *Client) call(ctx context.Context, token, method, path string, body any, out any, fallback string) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, "Unable to connect to server")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, "Unable to connect to server")
	}

	if resp.StatusCode == http.StatusUnauthorized {
		msg := upstreamErrorMessage(raw)
		if msg == "" {
			msg = "authentication required"
		}
		return pkgerrors.New(pkgerrors.CodeUnauthorized, msg)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := upstreamErrorMessage(raw)
		if msg == "" {
			msg = fallback
		}
		return pkgerrors.New(pkgerrors.CodeUpstream, msg).
			WithDetails(map[string]any{"status": resp.StatusCode})
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode response")
	}
	return nil
}

func upstreamErrorMessage(raw []byte) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return ""
	}
	var parsed errorBody
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return ""
	}
	return strings.TrimSpace(parsed.Error)
}
