package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/omtii/marketplace/internal/config"
)

func TestPublicURL(t *testing.T) {
	s := NewStore(config.UploadConfig{BaseDir: "/tmp/uploads", PublicBase: "/static/"})
	assert.Equal(t, "/static/avatars/x.png", s.PublicURL("avatars/x.png"))
	assert.Equal(t, "/tmp/uploads", s.BaseDir())
}

func TestBuckets(t *testing.T) {
	assert.True(t, Buckets["avatars"])
	assert.True(t, Buckets["service-images"])
	assert.False(t, Buckets["documents"])
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".jpg", extensionFor("image/jpeg"))
	assert.Equal(t, ".webp", extensionFor("image/webp"))
	assert.Equal(t, "", extensionFor("application/pdf"))
}
