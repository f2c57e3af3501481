package acquire

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/hoist/internal/checker"
	"github.com/MrSnakeDoc/hoist/internal/logger"
	"github.com/MrSnakeDoc/hoist/internal/service"
	"github.com/MrSnakeDoc/hoist/internal/utils"
)

// DefaultMaxSize caps installer downloads.
const DefaultMaxSize int64 = 1 << 30

type Downloader interface {
	Download(ctx context.Context, info checker.DownloadInfo) (string, error)
}

type HTTPDownloader struct {
	Client        service.HTTPClient
	Pending       *Pending
	MaxSize       int64
	AllowInsecure bool
}

func NewHTTPDownloader(client service.HTTPClient, pending *Pending, allowInsecure bool) *HTTPDownloader {
	return &HTTPDownloader{
		Client:        client,
		Pending:       pending,
		MaxSize:       DefaultMaxSize,
		AllowInsecure: allowInsecure,
	}
}

func (d *HTTPDownloader) Download(ctx context.Context, info checker.DownloadInfo) (string, error) {
	name, err := SafeFilename(info.SuggestedFilename)
	if err != nil {
		return "", err
	}

	u, err := utils.ParseSecureURL(info.DownloadURL, d.AllowInsecure)
	if err != nil {
		return "", err
	}

	if err := d.Pending.Ensure(); err != nil {
		return "", err
	}

	dst := d.Pending.Path(name)
	logger.Debug("Downloading %s to %s", u, dst)
	if err := service.DownloadToFile(ctx, d.Client, u.String(), dst, d.MaxSize); err != nil {
		return "", fmt.Errorf("failed to download %s: %w", u, err)
	}
	return dst, nil
}
