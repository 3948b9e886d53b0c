package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBootstrapAllowed(t *testing.T) {
	// No configured secret disables bootstrap outright, whatever is presented.
	assert.False(t, bootstrapAllowed("", ""))
	assert.False(t, bootstrapAllowed("", "guess"))

	assert.False(t, bootstrapAllowed("s3cret", ""))
	assert.False(t, bootstrapAllowed("s3cret", "wrong"))
	assert.True(t, bootstrapAllowed("s3cret", "s3cret"))
}
