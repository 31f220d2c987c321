package model

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	data   map[string][]float64
	getErr error
	sets   int
}

func (m *memStore) Get(_ context.Context, text string) ([]float64, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.data[text]
	return v, ok, nil
}

func (m *memStore) Set(_ context.Context, text string, vec []float64) error {
	m.sets++
	m.data[text] = vec
	return nil
}

func TestCachedEncoderHitSkipsModel(t *testing.T) {
	store := &memStore{data: map[string][]float64{"heist": {0, 1}}}
	inner := &stubEncoder{vec: []float64{1, 0}}

	vec, err := NewCachedEncoder(inner, store, quietLogger()).Encode(context.Background(), "heist")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1}, vec)
	assert.Zero(t, inner.calls)
}

func TestCachedEncoderMissStores(t *testing.T) {
	store := &memStore{data: map[string][]float64{}}
	inner := &stubEncoder{vec: []float64{1, 0}}
	enc := NewCachedEncoder(inner, store, quietLogger())

	_, err := enc.Encode(context.Background(), "heist")
	require.NoError(t, err)
	_, err = enc.Encode(context.Background(), "heist")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 1, store.sets)
}

func TestCachedEncoderStoreFailureFallsThrough(t *testing.T) {
	store := &memStore{data: map[string][]float64{}, getErr: errors.New("redis down")}
	inner := &stubEncoder{vec: []float64{1, 0}}

	vec, err := NewCachedEncoder(inner, store, quietLogger()).Encode(context.Background(), "heist")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0}, vec)
}

func TestCachedEncoderModelFailureNotStored(t *testing.T) {
	store := &memStore{data: map[string][]float64{}}
	inner := &stubEncoder{err: &ModelInferenceError{Msg: "down"}}

	_, err := NewCachedEncoder(inner, store, quietLogger()).Encode(context.Background(), "heist")
	require.Error(t, err)
	assert.Zero(t, store.sets)
}

// hangingStore never answers until the caller's ctx ends.
type hangingStore struct {
	deadlines int
}

func (h *hangingStore) Get(ctx context.Context, _ string) ([]float64, bool, error) {
	<-ctx.Done()
	h.deadlines++
	return nil, false, ctx.Err()
}

func (h *hangingStore) Set(ctx context.Context, _ string, _ []float64) error {
	<-ctx.Done()
	h.deadlines++
	return ctx.Err()
}

func TestCachedEncoderUnresponsiveStoreIsBounded(t *testing.T) {
	store := &hangingStore{}
	inner := &stubEncoder{vec: []float64{1, 0}}
	enc := NewCachedEncoder(inner, store, quietLogger())
	enc.storeTimeout = 20 * time.Millisecond

	start := time.Now()
	vec, err := enc.Encode(context.Background(), "heist")
	require.NoError(t, err)

	assert.Equal(t, []float64{1, 0}, vec)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 2, store.deadlines)
	assert.Less(t, time.Since(start), time.Second)
}
