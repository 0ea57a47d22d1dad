package uploads

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindForContentType(t *testing.T) {
	assert.Equal(t, KindVideo, KindForContentType("video/mp4"))
	assert.Equal(t, KindVideo, KindForContentType("video/webm"))
	assert.Equal(t, KindImage, KindForContentType("image/png"))
	assert.Equal(t, KindImage, KindForContentType("image/jpeg"))
	assert.Equal(t, KindImage, KindForContentType("application/octet-stream"))
	assert.Equal(t, KindImage, KindForContentType(""))
}
