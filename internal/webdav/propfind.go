package webdav

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const propfindBody = `<?xml version="1.0"?>
<d:propfind xmlns:d="DAV:" xmlns:oc="http://owncloud.org/ns">
  <d:prop>
    <d:resourcetype />
    <d:getcontenttype />
    <d:getcontentlength />
    <d:getlastmodified />
    <d:getetag />
  </d:prop>
</d:propfind>
`

type multistatus struct {
	XMLName   xml.Name      `xml:"DAV: multistatus"`
	Responses []davResponse `xml:"response"`
}

type davResponse struct {
	Href      string     `xml:"href"`
	Propstats []propstat `xml:"propstat"`
}

type propstat struct {
	Status string  `xml:"status"`
	Prop   davProp `xml:"prop"`
}

type davProp struct {
	ResourceType  resourceType `xml:"resourcetype"`
	ContentType   string       `xml:"getcontenttype"`
	ContentLength string       `xml:"getcontentlength"`
	LastModified  string       `xml:"getlastmodified"`
	ETag          string       `xml:"getetag"`
}

type resourceType struct {
	Collection *struct{} `xml:"collection"`
}

// List enumerates the resources directly under folder (Depth: 1).
// The folder itself is included in the result; Walk filters it out.
func (c *Client) List(ctx context.Context, folder string) ([]Entry, error) {
	target := c.joinURL(folder)

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Depth", "1").
		SetContentType("text/xml").
		SetBody(propfindBody).
		Send("PROPFIND", target)

	if err := statusError(resp, err, "propfind", folder); err != nil {
		return nil, err
	}

	entries, err := c.parseMultistatus(resp.Bytes())
	if err != nil {
		return nil, fmt.Errorf("propfind %q: %w: %w", folder, ErrUnavailable, err)
	}
	return entries, nil
}

func (c *Client) parseMultistatus(body []byte) ([]Entry, error) {
	var ms multistatus
	if err := xml.Unmarshal(body, &ms); err != nil {
		return nil, fmt.Errorf("parse multistatus: %w", err)
	}

	entries := make([]Entry, 0, len(ms.Responses))
	for _, r := range ms.Responses {
		// Only the 200-status propstat carries the properties we asked for.
		var prop *davProp
		for i := range r.Propstats {
			if strings.Contains(r.Propstats[i].Status, "200") {
				prop = &r.Propstats[i].Prop
				break
			}
		}
		if prop == nil {
			continue
		}

		var size int64
		if prop.ContentLength != "" {
			if n, err := strconv.ParseInt(prop.ContentLength, 10, 64); err == nil {
				size = n
			}
		}

		entries = append(entries, Entry{
			Href:         r.Href,
			Path:         c.hrefToRel(r.Href),
			IsDir:        prop.ResourceType.Collection != nil,
			ContentType:  prop.ContentType,
			Size:         size,
			LastModified: prop.LastModified,
			ETag:         prop.ETag,
		})
	}
	return entries, nil
}

// hrefToRel converts a PROPFIND href into a share-relative path. Both
// endpoint shapes are recognized so entries stay addressable regardless of
// which access mode produced them.
func (c *Client) hrefToRel(href string) string {
	unescaped, err := url.PathUnescape(href)
	if err != nil {
		unescaped = href
	}

	if marker := publicFilesEndpoint + c.token + "/"; strings.Contains(unescaped, marker) {
		rel := strings.SplitN(unescaped, marker, 2)[1]
		return strings.TrimRight(rel, "/")
	}
	if marker := publicShareEndpoint + "/"; strings.Contains(unescaped, marker) {
		rel := strings.SplitN(unescaped, marker, 2)[1]
		return strings.TrimRight(rel, "/")
	}
	return strings.Trim(unescaped, "/")
}

// joinURL builds the request URL for a share-relative path, re-quoting each
// segment so names with spaces or accents survive the round trip.
func (c *Client) joinURL(rel string) string {
	rel = strings.Trim(rel, "/")
	if rel == "" {
		return c.root + "/"
	}
	segs := strings.Split(rel, "/")
	quoted := make([]string, len(segs))
	for i, s := range segs {
		if u, err := url.PathUnescape(s); err == nil {
			s = u
		}
		quoted[i] = url.PathEscape(s)
	}
	return c.root + "/" + strings.Join(quoted, "/")
}
