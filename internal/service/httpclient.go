package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/MrSnakeDoc/hoist/internal/utils"
)

// UserAgent is sent with every request; the release API rejects anonymous clients.
var UserAgent = "hoist-updater"

var ErrTooLarge = errors.New("response exceeds size limit")

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type DefaultHTTPClient struct{ *http.Client }

func NewHTTPClient(timeout time.Duration) *DefaultHTTPClient {
	return &DefaultHTTPClient{Client: &http.Client{Timeout: timeout}}
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Code, e.URL)
}

func NewRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", UserAgent)
	return req, nil
}

// DownloadToFile streams url into dst. The body lands in dst+".part" first and
// is renamed only once complete, so dst never holds a truncated file.
func DownloadToFile(ctx context.Context, c HTTPClient, url, dst string, maxSize int64) error {
	req, err := NewRequest(ctx, url)
	if err != nil {
		return err
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer utils.Try(resp.Body.Close)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{URL: url, Code: resp.StatusCode}
	}

	part := dst + ".part"
	f, err := os.OpenFile(part, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	var src io.Reader = resp.Body
	if maxSize > 0 {
		// one extra byte tells an exact-size body from an oversized one
		src = io.LimitReader(resp.Body, maxSize+1)
	}
	n, err := io.Copy(f, src)
	if err == nil && maxSize > 0 && n > maxSize {
		err = ErrTooLarge
	}
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(part)
		return err
	}

	return os.Rename(part, dst)
}
