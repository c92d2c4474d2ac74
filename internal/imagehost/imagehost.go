package imagehost

import (
	"context"
	"net/url"
	"strings"
)

// File is an image attachment taken from a multipart request.
type File struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Host is the external media host holding product images.
type Host interface {
	// Upload stores the file under the given folder and returns its public URL.
	Upload(ctx context.Context, folder string, file File) (string, error)
	// Delete removes the object identified by a public id (see PublicID).
	Delete(ctx context.Context, publicID string) error
}

// PublicID derives the media-host identifier of a stored image from its URL:
// the last path segment with any extension dropped, scoped to the folder the
// image was uploaded under.
func PublicID(folder, rawURL string) string {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		path = u.Path
	}
	seg := path[strings.LastIndex(path, "/")+1:]
	seg = strings.SplitN(seg, ".", 2)[0]
	if seg == "" {
		return ""
	}
	return folder + "/" + seg
}
