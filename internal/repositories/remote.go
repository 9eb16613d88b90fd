package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sessiondesk/internal/domain"
	"sessiondesk/internal/domain/models"
)

const maxErrorBody = 512

// Remote performs JSON calls against the booking/payment API. It never
// retries; every failure is returned to the caller as NetworkError or
// RemoteError.
type Remote struct {
	BaseURL string
	HTTP    *http.Client
}

// NewRemote builds a Remote. A zero timeout means the client waits as long as
// the remote endpoint takes.
func NewRemote(baseURL string, timeout time.Duration) Remote {
	return Remote{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

func (r Remote) client() *http.Client {
	if r.HTTP != nil {
		return r.HTTP
	}
	return http.DefaultClient
}

func (r Remote) endpoint(parts ...string) string {
	var b strings.Builder
	b.WriteString(r.BaseURL)
	for i, p := range parts {
		b.WriteByte('/')
		if i == len(parts)-1 && len(parts) > 1 {
			b.WriteString(url.PathEscape(p))
			continue
		}
		b.WriteString(p)
	}
	return b.String()
}

// do sends body (JSON encoded when non-nil) and returns the raw response body
// of a 2xx answer.
func (r Remote) do(ctx context.Context, op, method, target string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, domain.InternalError{Msg: op + ": encode request", Err: err}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, domain.InternalError{Msg: op + ": build request", Err: err}
	}
	req.Header.Set("Accept", "application/json, text/plain")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.client().Do(req)
	if err != nil {
		return nil, domain.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.NetworkError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.RemoteError{Op: op, Status: resp.StatusCode, Body: truncate(strings.TrimSpace(string(raw)), maxErrorBody)}
	}
	return raw, nil
}

// decodeList decodes a JSON array; an empty or null body is an empty list.
func decodeList[T any](op string, raw []byte) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return []T{}, nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, domain.InternalError{Msg: op + ": unexpected response payload", Err: err}
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func decodeBody(raw []byte) models.ResponseBody {
	return models.DecodeResponseBody(bytes.TrimSpace(raw))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
