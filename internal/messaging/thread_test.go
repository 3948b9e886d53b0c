package messaging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func msgAt(id string, ts time.Time) Message {
	return Message{ID: id, Content: "m-" + id, CreatedAt: ts}
}

func TestSortThreadByCreationTime(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	t1, t2, t3 := base, base.Add(time.Second), base.Add(2*time.Second)

	// Arrival order must not matter.
	msgs := []Message{msgAt("c", t3), msgAt("a", t1), msgAt("b", t2)}
	SortThread(msgs)

	assert.Equal(t, []string{"a", "b", "c"}, []string{msgs[0].ID, msgs[1].ID, msgs[2].ID})
}

func TestSortThreadBreaksTiesByID(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	msgs := []Message{msgAt("b", ts), msgAt("a", ts)}
	SortThread(msgs)

	assert.Equal(t, "a", msgs[0].ID)
	assert.Equal(t, "b", msgs[1].ID)
}

func TestAppendIfNewDeduplicates(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	thread := []Message{msgAt("a", base), msgAt("b", base.Add(time.Second))}

	// The realtime echo of an already-fetched message is a no-op.
	thread = AppendIfNew(thread, msgAt("b", base.Add(time.Second)))
	assert.Len(t, thread, 2)

	// A genuinely new message lands in order even if it arrives late.
	thread = AppendIfNew(thread, msgAt("early", base.Add(-time.Second)))
	assert.Len(t, thread, 3)
	assert.Equal(t, "early", thread[0].ID)
}

func TestAppendIfNewIdempotent(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	thread := []Message{msgAt("a", base)}

	once := AppendIfNew(thread, msgAt("x", base.Add(time.Minute)))
	twice := AppendIfNew(once, msgAt("x", base.Add(time.Minute)))
	assert.Equal(t, once, twice)
}
