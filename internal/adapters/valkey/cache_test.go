package valkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCache_KeyNamespace(t *testing.T) {
	c := &Cache{namespace: "urbanscope"}
	assert.Equal(t, "urbanscope:places:search:bilbao", c.key("places:search:bilbao"))

	bare := &Cache{}
	assert.Equal(t, "places:search:bilbao", bare.key("places:search:bilbao"))
}
