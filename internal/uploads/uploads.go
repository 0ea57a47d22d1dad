package uploads

import (
	"context"
	"strings"
)

// Kind classifies an attachment for storage layout and client rendering.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// KindForContentType classifies a declared media type by MIME prefix:
// video/* becomes a video, everything else an image.
func KindForContentType(contentType string) Kind {
	if strings.HasPrefix(contentType, "video/") {
		return KindVideo
	}
	return KindImage
}

// Upload is the stored object reference returned to the caller.
type Upload struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// Service stores raw attachment bytes in object storage.
type Service interface {
	Upload(ctx context.Context, data []byte, folder string, kind Kind, contentType string) (Upload, error)
}
