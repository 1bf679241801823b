// Package remote is a BoardStore speaking to a kanban storage service over HTTP.
package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/kanban/pkg/domain"
	"golang.org/x/sync/singleflight"
)

// BoardPath is the storage service endpoint.
const BoardPath = "/api/board"

// DefaultTimeout bounds every request; a slower request counts as failed.
const DefaultTimeout = 4 * time.Second

// Store implements ports.BoardStore against GET/PUT/DELETE /api/board.
type Store struct {
	baseURL string
	client  *http.Client
	loads   singleflight.Group
}

type Option func(*Store)

// WithHTTPClient replaces the default client. Its Timeout is kept as is.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Store) {
		if c != nil {
			s.client = c
		}
	}
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.client.Timeout = d
	}
}

// New creates a client for the service rooted at baseURL.
func New(baseURL string, opts ...Option) *Store {
	s := &Store{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches the document. 204 and 404 both mean nothing is stored.
// Concurrent calls share one request; each caller gets its own copy.
func (s *Store) Load(ctx context.Context) ([]byte, error) {
	v, err, shared := s.loads.Do(BoardPath, func() (interface{}, error) {
		return s.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	data := v.([]byte)
	if shared {
		data = bytes.Clone(data)
	}
	return data, nil
}

func (s *Store) load(ctx context.Context) ([]byte, error) {
	resp, err := s.do(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read board: %w", err)
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, domain.ErrBoardNotFound
		}
		return data, nil
	case http.StatusNoContent, http.StatusNotFound:
		return nil, domain.ErrBoardNotFound
	default:
		return nil, statusError(resp)
	}
}

// Save uploads the document.
func (s *Store) Save(ctx context.Context, data []byte) error {
	resp, err := s.do(ctx, http.MethodPut, data)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return statusError(resp)
	}
	return nil
}

// Clear deletes the stored document.
func (s *Store) Clear(ctx context.Context) error {
	resp, err := s.do(ctx, http.MethodDelete, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 && resp.StatusCode != http.StatusNotFound {
		return statusError(resp)
	}
	return nil
}

func (s *Store) do(ctx context.Context, method string, body []byte) (*http.Response, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+BoardPath, r)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, BoardPath, err)
	}
	return resp, nil
}

func statusError(resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%s %s: unexpected status %d: %s",
		resp.Request.Method, BoardPath, resp.StatusCode, strings.TrimSpace(string(msg)))
}
