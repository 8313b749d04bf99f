package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapPreservesSentinel(t *testing.T) {
	sentinel := New("closed")
	wrapped := Wrapf(sentinel, "get entity %s", "Q148")

	assert.True(t, Is(wrapped, sentinel))
	assert.Contains(t, wrapped.Error(), "get entity Q148")
	assert.Contains(t, wrapped.Error(), "closed")
}

func TestHints(t *testing.T) {
	err := WithHint(New("cannot open store"), "check the data directory permissions")
	hints := GetAllHints(err)
	assert.Equal(t, []string{"check the data directory permissions"}, hints)
}
