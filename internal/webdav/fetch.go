package webdav

import (
	"context"
)

// Fetch downloads the content of a share-relative document path.
// Transient failures (network errors, 5xx) are retried with backoff by the
// underlying client; 4xx responses surface immediately via the error taxonomy.
func (c *Client) Fetch(ctx context.Context, path string) ([]byte, error) {
	target := c.joinURL(path)

	resp, err := c.http.R().
		SetContext(ctx).
		Get(target)

	if err := statusError(resp, err, "fetch", path); err != nil {
		return nil, err
	}

	return resp.Bytes(), nil
}
