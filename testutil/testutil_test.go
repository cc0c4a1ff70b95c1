package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPattern(t *testing.T) {
	p := Pattern(512)

	assert.Len(t, p, 512)
	assert.NotContains(t, p, byte(0))
	assert.Equal(t, p, Pattern(512))
}

func TestAllZero(t *testing.T) {
	assert.True(t, AllZero(nil))
	assert.True(t, AllZero(make([]byte, 64)))
	assert.False(t, AllZero(Pattern(1)))
}
