package webdav

import (
	"errors"
	"fmt"

	"github.com/imroc/req/v3"
)

var (
	// ErrUnauthorized means the server answered 401. The usual cause is the
	// wrong access mode for this share, not bad credentials.
	ErrUnauthorized = errors.New("webdav: unauthorized")

	// ErrNotFound means the folder or document does not exist on the share.
	ErrNotFound = errors.New("webdav: not found")

	// ErrUnavailable covers network and protocol failures.
	ErrUnavailable = errors.New("webdav: remote unavailable")
)

// statusError maps an HTTP response or transport error onto the package's
// error taxonomy, wrapping the operation and path for context.
func statusError(resp *req.Response, requestErr error, op, path string) error {
	if requestErr != nil {
		return fmt.Errorf("%s %q: %w: %w", op, path, ErrUnavailable, requestErr)
	}
	if !resp.IsErrorState() {
		return nil
	}
	switch resp.GetStatusCode() {
	case 401, 403:
		return fmt.Errorf("%s %q: %w (check access mode and share credentials)", op, path, ErrUnauthorized)
	case 404:
		return fmt.Errorf("%s %q: %w", op, path, ErrNotFound)
	default:
		return fmt.Errorf("%s %q: %w: status %d", op, path, ErrUnavailable, resp.GetStatusCode())
	}
}
