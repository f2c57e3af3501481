package checker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/hoist/internal/logger"
	"github.com/MrSnakeDoc/hoist/internal/service"
	"github.com/MrSnakeDoc/hoist/internal/utils"
	goversion "github.com/hashicorp/go-version"
)

// Resolver answers whether a newer release exists.
type Resolver interface {
	CheckRemote(ctx context.Context) (Result, error)
}

type DownloadInfo struct {
	RemoteVersion     *goversion.Version
	DownloadURL       string
	SuggestedFilename string
}

// Result is either UpToDate or carries a DownloadInfo, never both.
type Result struct {
	UpToDate bool
	Download *DownloadInfo
}

func UpToDateResult() Result { return Result{UpToDate: true} }

func DownloadResult(info DownloadInfo) Result { return Result{Download: &info} }

func (r Result) IsUpToDate() bool { return r.UpToDate }

// NetworkError covers every way the remote check can fail.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("version check against %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

var (
	ErrNoMatchingAsset = errors.New("release has no matching asset")
	errDraft           = errors.New("latest release is a draft or prerelease")
)

type GitHubAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
}

type GitHubRelease struct {
	TagName     string        `json:"tag_name"`
	Name        string        `json:"name"`
	Draft       bool          `json:"draft"`
	Prerelease  bool          `json:"prerelease"`
	PublishedAt string        `json:"published_at"`
	Assets      []GitHubAsset `json:"assets"`
}

type Options struct {
	URL            string
	CurrentVersion string
	AssetSuffix    string
	AllowInsecure  bool
}

type GitHubResolver struct {
	client service.HTTPClient
	opts   Options
}

func NewGitHubResolver(client service.HTTPClient, opts Options) *GitHubResolver {
	if opts.CurrentVersion == "" {
		opts.CurrentVersion = Version
	}
	return &GitHubResolver{client: client, opts: opts}
}

func (g *GitHubResolver) CheckRemote(ctx context.Context) (Result, error) {
	release, err := g.fetchRelease(ctx)
	if err != nil {
		return Result{}, &NetworkError{URL: g.opts.URL, Err: err}
	}

	remote, err := parseVersion(release.TagName)
	if err != nil {
		logger.Debug("Failed to parse remote version %q: %v", release.TagName, err)
		return Result{}, &NetworkError{URL: g.opts.URL, Err: fmt.Errorf("invalid remote version: %w", err)}
	}

	current, err := parseVersion(g.opts.CurrentVersion)
	if err != nil {
		// dev builds always accept the published release
		logger.Debug("Current version %q is not comparable, treating as 0.0.0", g.opts.CurrentVersion)
		current = goversion.Must(goversion.NewVersion("0.0.0"))
	}

	if !remote.GreaterThan(current) {
		logger.Debug("Remote %s is not newer than %s", remote, current)
		return UpToDateResult(), nil
	}

	asset, err := pickAsset(release.Assets, g.opts.AssetSuffix)
	if err != nil {
		return Result{}, &NetworkError{URL: g.opts.URL, Err: fmt.Errorf("%s: %w", release.TagName, err)}
	}

	logger.Debug("Update %s available: %s", remote, asset.BrowserDownloadURL)
	return DownloadResult(DownloadInfo{
		RemoteVersion:     remote,
		DownloadURL:       asset.BrowserDownloadURL,
		SuggestedFilename: asset.Name,
	}), nil
}

func (g *GitHubResolver) fetchRelease(ctx context.Context) (*GitHubRelease, error) {
	resp, err := MakeHTTPRequest(ctx, g.client, g.opts.URL, g.opts.AllowInsecure)
	if err != nil {
		return nil, err
	}
	defer utils.Try(resp.Body.Close)

	var release GitHubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		logger.Debug("Failed to decode response: %v", err)
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if release.Draft || release.Prerelease {
		return nil, errDraft
	}
	return &release, nil
}

func MakeHTTPRequest(ctx context.Context, client service.HTTPClient, rawURL string, allowInsecure bool) (*http.Response, error) {
	if err := ctx.Err(); err != nil {
		logger.Debug("Context error: %v", err)
		return nil, err
	}

	parsedURL, err := utils.ParseSecureURL(rawURL, allowInsecure)
	if err != nil {
		logger.Debug("Failed to parse URL: %v", err)
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	req, err := service.NewRequest(ctx, parsedURL.String())
	if err != nil {
		logger.Debug("Failed to create request: %v", err)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		logger.Debug("Failed to perform request: %v", err)
		return nil, fmt.Errorf("failed to perform request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		utils.Try(resp.Body.Close)
		logger.Debug("Received non-200 response: %d", resp.StatusCode)
		return nil, &service.StatusError{URL: parsedURL.String(), Code: resp.StatusCode}
	}

	return resp, nil
}

func parseVersion(raw string) (*goversion.Version, error) {
	return goversion.NewVersion(strings.TrimPrefix(strings.TrimSpace(raw), "v"))
}

func pickAsset(assets []GitHubAsset, suffix string) (GitHubAsset, error) {
	suffix = strings.ToLower(suffix)
	for _, a := range assets {
		if a.BrowserDownloadURL == "" {
			continue
		}
		if strings.HasSuffix(strings.ToLower(a.Name), suffix) {
			return a, nil
		}
	}
	return GitHubAsset{}, fmt.Errorf("%w (suffix %q)", ErrNoMatchingAsset, suffix)
}
