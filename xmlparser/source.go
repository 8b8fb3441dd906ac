package xmlparser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Source отдает сырой документ фида
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// NewSource выбирает источник по схеме URI: http(s) или локальный файл.
// Нулевой timeout не ограничивает загрузку.
func NewSource(uri string, timeout time.Duration) Source {
	lower := strings.ToLower(uri)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return &HTTPSource{URL: uri, Client: &http.Client{Timeout: timeout}}
	}
	if strings.HasPrefix(lower, "file://") {
		if u, err := url.Parse(uri); err == nil {
			return FileSource(u.Path)
		}
	}
	return FileSource(uri)
}

// HTTPSource загружает фид по HTTP
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", s.URL, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch feed %s: unexpected status %s", s.URL, resp.Status)
	}
	return resp.Body, nil
}

// FileSource читает фид с диска
type FileSource string

func (s FileSource) Open(context.Context) (io.ReadCloser, error) {
	f, err := os.Open(string(s))
	if err != nil {
		return nil, fmt.Errorf("open feed: %w", err)
	}
	return f, nil
}

// Load открывает источник и разбирает документ целиком
func Load(ctx context.Context, src Source) (*Node, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return Parse(rc)
}
