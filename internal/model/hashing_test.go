package model

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestHashingEncoderDeterministic(t *testing.T) {
	enc := NewHashingEncoder(64)

	a, err := enc.Encode(context.Background(), "A thief who steals corporate secrets")
	require.NoError(t, err)
	b, err := enc.Encode(context.Background(), "A thief who steals corporate secrets")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.InDelta(t, 1.0, floats.Norm(a, 2), 1e-9)
}

func TestHashingEncoderEmptyText(t *testing.T) {
	enc := NewHashingEncoder(16)

	vec, err := enc.Encode(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, make([]float64, 16), vec)

	stop, err := enc.Encode(context.Background(), "the of and")
	require.NoError(t, err)
	assert.Equal(t, make([]float64, 16), stop)
}

func TestHashingEncoderCaseAndPunctuation(t *testing.T) {
	enc := NewHashingEncoder(128)

	a, _ := enc.Encode(context.Background(), "Time Travel!")
	b, _ := enc.Encode(context.Background(), "time, travel")
	assert.Equal(t, a, b)
}

func TestHashingEncoderSharedWordsAreCloser(t *testing.T) {
	enc := NewHashingEncoder(384)
	ctx := context.Background()

	query, _ := enc.Encode(ctx, "space wormhole")
	related, _ := enc.Encode(ctx, "astronauts travel through a wormhole in space")
	unrelated, _ := enc.Encode(ctx, "two high school friends plan a party")

	assert.Greater(t, floats.Dot(query, related), floats.Dot(query, unrelated))
}

func TestHashingEncoderDefaultDimensions(t *testing.T) {
	vec, err := NewHashingEncoder(0).Encode(context.Background(), "matrix")
	require.NoError(t, err)
	assert.Len(t, vec, defaultDimensions)
}
