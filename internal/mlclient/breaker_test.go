package mlclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreaker_OpensAfterThresholdAndProbes(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBreaker(2, time.Second)
	b.now = func() time.Time { return now }

	assert.True(t, b.Allow())
	b.OnFailure()
	assert.True(t, b.Allow())
	b.OnFailure()

	assert.False(t, b.Allow(), "open right after tripping")

	now = now.Add(2 * time.Second)
	assert.True(t, b.Allow(), "one probe after openFor")
	assert.False(t, b.Allow(), "only one probe in flight")

	b.OnFailure()
	assert.False(t, b.Allow(), "failed probe re-opens")

	now = now.Add(2 * time.Second)
	assert.True(t, b.Allow())
	b.OnSuccess()
	assert.True(t, b.Allow())
	assert.True(t, b.Allow())
}
