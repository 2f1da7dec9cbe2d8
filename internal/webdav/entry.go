package webdav

import (
	"path"
	"strings"
)

// Entry is the identity of one resource on the share as reported by PROPFIND.
// It carries everything change detection needs without downloading content.
type Entry struct {
	// Href is the raw href from the multistatus response.
	Href string

	// Path is the share-relative path usable for subsequent requests.
	Path string

	IsDir       bool
	ContentType string
	Size        int64

	// LastModified is the server's getlastmodified value, kept verbatim so
	// fingerprint comparison stays byte-exact.
	LastModified string

	// ETag is the server's getetag value, kept verbatim.
	ETag string
}

// IsResultDocument reports whether the entry looks like a meet-result
// document worth fetching: a PDF or plain-text report.
func (e *Entry) IsResultDocument() bool {
	if e.IsDir {
		return false
	}
	ct := strings.ToLower(e.ContentType)
	if strings.Contains(ct, "pdf") || strings.Contains(ct, "text/plain") {
		return true
	}
	switch strings.ToLower(path.Ext(e.Path)) {
	case ".pdf", ".txt":
		return true
	}
	return false
}
