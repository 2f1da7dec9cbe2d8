// Package webdav lists and fetches documents on a public ownCloud/Nextcloud
// share over WebDAV. Two access modes are supported and must be chosen
// explicitly by the caller; the client never falls back from one to the other.
package webdav

import (
	"fmt"
	"strings"
	"time"

	"github.com/imroc/req/v3"
	"github.com/openswim/swimsync/internal/version"
)

// AccessMode selects how the share is reached.
type AccessMode string

const (
	// ModePublicFiles hits the public-files DAV endpoint. The share token is
	// embedded in the URL path and no authentication is sent.
	ModePublicFiles AccessMode = "public-files"

	// ModePublicShare hits the public.php/webdav endpoint with Basic Auth:
	// username is the share token, password is the share password (often empty).
	ModePublicShare AccessMode = "public-share"
)

const (
	publicFilesEndpoint = "/remote.php/dav/public-files/"
	publicShareEndpoint = "/public.php/webdav"

	defaultTimeout    = 60 * time.Second
	defaultRetryCount = 3
)

// Config describes how to reach the remote share.
type Config struct {
	// BaseURL is the server root including any installation prefix,
	// e.g. "https://files.example.org/owncloud".
	BaseURL string

	// Mode selects the DAV endpoint and auth behavior.
	Mode AccessMode

	// ShareToken identifies the public share.
	ShareToken string

	// SharePassword is the share password for ModePublicShare. May be empty.
	SharePassword string

	Timeout    time.Duration
	RetryCount int
}

// Validate checks the config for the selected access mode.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("webdav: base url missing")
	}
	if c.ShareToken == "" {
		return fmt.Errorf("webdav: share token missing")
	}
	switch c.Mode {
	case ModePublicFiles, ModePublicShare:
		return nil
	default:
		return fmt.Errorf("webdav: unknown access mode %q", c.Mode)
	}
}

// Client talks to a single share under one access mode.
type Client struct {
	http  *req.Client
	root  string
	token string
	mode  AccessMode
}

// New creates a Client for the configured share.
func New(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retries := cfg.RetryCount
	if retries <= 0 {
		retries = defaultRetryCount
	}

	httpClient := req.C().
		SetTimeout(timeout).
		SetUserAgent("swimsync/"+version.Version).
		SetCommonRetryCount(retries).
		SetCommonRetryBackoffInterval(1*time.Second, 8*time.Second).
		SetCommonRetryCondition(func(resp *req.Response, err error) bool {
			// Only network errors and 5xx are transient. 4xx (401 wrong mode,
			// 404 gone mid-batch) must surface immediately.
			if err != nil {
				return true
			}
			return resp.StatusCode >= 500
		})

	base := strings.TrimRight(cfg.BaseURL, "/")
	var root string
	switch cfg.Mode {
	case ModePublicFiles:
		root = base + publicFilesEndpoint + cfg.ShareToken
	case ModePublicShare:
		root = base + publicShareEndpoint
		httpClient.SetCommonBasicAuth(cfg.ShareToken, cfg.SharePassword)
	}

	return &Client{
		http:  httpClient,
		root:  root,
		token: cfg.ShareToken,
		mode:  cfg.Mode,
	}, nil
}

// Mode returns the configured access mode.
func (c *Client) Mode() AccessMode {
	return c.mode
}
