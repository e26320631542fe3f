package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimingBucket(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "response.shop-assistant.get.search.200", timingBucket("shop-assistant", "GET", "/search", 200))
	assert.Equal(t, "response.shop-assistant.post.api_v1_chat.400", timingBucket("shop-assistant", "POST", "/api/v1/chat", 400))
	assert.Equal(t, "response.svc.get.root.404", timingBucket("svc", "GET", "/", 404))
}
