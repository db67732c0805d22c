package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequencerLastRequestWins(t *testing.T) {
	seq := NewSequencer()

	ctx1, t1 := seq.Begin(context.Background(), "sess|stats")
	ctx2, t2 := seq.Begin(context.Background(), "sess|stats")

	assert.ErrorIs(t, ctx1.Err(), context.Canceled, "older request is cancelled")
	assert.NoError(t, ctx2.Err())
	assert.False(t, t1.Current())
	assert.True(t, t2.Current())

	// a stale Done must not release the newer request
	t1.Done()
	assert.True(t, t2.Current())
	assert.NoError(t, ctx2.Err())

	t2.Done()
	assert.Error(t, ctx2.Err())
	assert.Equal(t, 0, seq.InFlight())
}

func TestSequencerKeysAreIndependent(t *testing.T) {
	seq := NewSequencer()
	ctxA, ta := seq.Begin(context.Background(), "a")
	_, tb := seq.Begin(context.Background(), "b")
	defer ta.Done()
	defer tb.Done()

	assert.NoError(t, ctxA.Err())
	assert.True(t, ta.Current())
	assert.True(t, tb.Current())
	assert.Equal(t, 2, seq.InFlight())
}
