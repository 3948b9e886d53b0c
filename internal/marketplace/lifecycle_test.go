package marketplace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionFromPending(t *testing.T) {
	assert.True(t, CanTransition(RequestPending, RequestAccepted))
	assert.True(t, CanTransition(RequestPending, RequestRejected))
}

func TestTerminalStatesAreFinal(t *testing.T) {
	// No transition leaves accepted or rejected, including back to pending.
	for _, from := range []string{RequestAccepted, RequestRejected} {
		for _, to := range []string{RequestPending, RequestAccepted, RequestRejected} {
			assert.False(t, CanTransition(from, to), "%s -> %s must be rejected", from, to)
		}
	}
}

func TestCannotTransitionToPending(t *testing.T) {
	assert.False(t, CanTransition(RequestPending, RequestPending))
	assert.False(t, CanTransition(RequestPending, "cancelled"))
}

func TestValidServiceStatus(t *testing.T) {
	for _, s := range []string{ServiceDraft, ServicePending, ServiceApproved, ServiceRejected, ServicePublished} {
		assert.True(t, ValidServiceStatus(s))
	}
	assert.False(t, ValidServiceStatus("active"))
	assert.False(t, ValidServiceStatus(""))
}
