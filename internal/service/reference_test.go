package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceGeneratorIsStrictlyMonotonic(t *testing.T) {
	g := NewReferenceGenerator()
	frozen := time.UnixMilli(1740798245000)
	g.now = func() time.Time { return frozen }

	var last int64
	for i := 0; i < 100; i++ {
		seed, err := g.Next("42")
		require.NoError(t, err)

		ms := seed.Timestamp.UnixMilli()
		assert.Greater(t, ms, last)
		last = ms
	}

	assert.Equal(t, int64(1740798245099), last)
}

func TestReferenceGeneratorUsesRandomSource(t *testing.T) {
	g := NewReferenceGenerator()
	g.random = bytes.NewReader([]byte{0, 0, 0x1e, 0x61})

	seed, err := g.Next("42")
	require.NoError(t, err)

	assert.Equal(t, uint32(7777), seed.Random)
	assert.Equal(t, "42", seed.BookingID)

	_, err = g.Next("42")
	assert.Error(t, err)
}
