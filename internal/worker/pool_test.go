package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type funcJob struct {
	name string
	fn   func(context.Context) error
}

func (j *funcJob) Name() string                  { return j.name }
func (j *funcJob) Run(ctx context.Context) error { return j.fn(ctx) }

func TestPool_RunsSubmittedJobs(t *testing.T) {
	p := NewPool(2, 8)
	p.Start(context.Background())
	defer p.Stop()

	var ran atomic.Int32
	done := make(chan struct{}, 5)
	for i := 0; i < 5; i++ {
		require.NoError(t, p.Submit(&funcJob{name: "count", fn: func(context.Context) error {
			ran.Add(1)
			done <- struct{}{}
			return nil
		}}))
	}
	for i := 0; i < 5; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for jobs")
		}
	}
	assert.Equal(t, int32(5), ran.Load())
}

func TestPool_SubmitRejectsWhenFull(t *testing.T) {
	p := NewPool(1, 1)
	noop := &funcJob{name: "noop", fn: func(context.Context) error { return nil }}

	require.NoError(t, p.Submit(noop))
	assert.ErrorIs(t, p.Submit(noop), ErrQueueFull)
	assert.Equal(t, 1, p.QueueSize())
}

func TestPool_SubmitAfterStop(t *testing.T) {
	p := NewPool(1, 1)
	p.Start(context.Background())
	p.Stop()
	p.Stop()

	err := p.Submit(&funcJob{name: "late", fn: func(context.Context) error { return nil }})
	assert.ErrorIs(t, err, ErrPoolStopped)
}

func TestPool_SurvivesFailingAndPanickingJobs(t *testing.T) {
	p := NewPool(1, 4)
	p.Start(context.Background())
	defer p.Stop()

	done := make(chan struct{})
	require.NoError(t, p.Submit(&funcJob{name: "fails", fn: func(context.Context) error { return errors.New("boom") }}))
	require.NoError(t, p.Submit(&funcJob{name: "panics", fn: func(context.Context) error { panic("kaboom") }}))
	require.NoError(t, p.Submit(&funcJob{name: "after", fn: func(context.Context) error {
		close(done)
		return nil
	}}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive the panicking job")
	}
}
