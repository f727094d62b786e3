package timer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xvierd/tomato/internal/domain"
)

func TestDispatcher_DeliversToAllHandlers(t *testing.T) {
	d := NewDispatcher()
	var a, b atomic.Int32
	d.Register("a", HandlerFunc(func(ctx context.Context, c domain.Completion) error {
		a.Add(1)
		return nil
	}))
	d.Register("b", HandlerFunc(func(ctx context.Context, c domain.Completion) error {
		b.Add(1)
		return nil
	}))

	d.Dispatch(domain.Completion{Seq: 1, Type: domain.SessionTypeWork, DurationMinutes: 25})
	d.Wait()

	assert.Equal(t, int32(1), a.Load())
	assert.Equal(t, int32(1), b.Load())
}

func TestDispatcher_DropsDuplicateSeq(t *testing.T) {
	d := NewDispatcher()
	var calls atomic.Int32
	d.Register("count", HandlerFunc(func(ctx context.Context, c domain.Completion) error {
		calls.Add(1)
		return nil
	}))

	c := domain.Completion{Seq: 3, Type: domain.SessionTypeWork}
	d.Dispatch(c)
	d.Dispatch(c)
	d.Wait()
	assert.Equal(t, int32(1), calls.Load())

	// An earlier Seq arriving late is a different completion.
	d.Dispatch(domain.Completion{Seq: 2})
	d.Dispatch(domain.Completion{Seq: 2})
	d.Wait()
	assert.Equal(t, int32(2), calls.Load())
}

func TestDispatcher_ForgetsOldSeqs(t *testing.T) {
	d := NewDispatcher()
	var calls atomic.Int32
	d.Register("count", HandlerFunc(func(ctx context.Context, c domain.Completion) error {
		calls.Add(1)
		return nil
	}))

	for seq := uint64(1); seq <= seenSeqs+1; seq++ {
		d.Dispatch(domain.Completion{Seq: seq})
	}
	d.Dispatch(domain.Completion{Seq: 1})
	d.Dispatch(domain.Completion{Seq: seenSeqs + 1})
	d.Wait()

	assert.Equal(t, int32(seenSeqs+2), calls.Load())
	assert.Len(t, d.seen, seenSeqs)
}

// TestDispatcher_TickRacingSkip holds a natural completion between the
// timer's unlock and Dispatch while a Skip dispatches the next one.
func TestDispatcher_TickRacingSkip(t *testing.T) {
	d := NewDispatcher()
	var mu sync.Mutex
	var delivered []domain.Completion
	d.Register("record", HandlerFunc(func(ctx context.Context, c domain.Completion) error {
		mu.Lock()
		defer mu.Unlock()
		delivered = append(delivered, c)
		return nil
	}))

	held := make(chan struct{})
	release := make(chan struct{})
	onComplete := func(c domain.Completion) {
		if c.Seq == 1 {
			close(held)
			<-release
		}
		d.Dispatch(c)
	}

	clock := NewManualClock()
	cfg := domain.TimerConfig{Work: 1, ShortBreak: 1, LongBreak: 1}
	tm := New(cfg, clock, WithOnComplete(onComplete))
	defer tm.Close()
	require.NoError(t, tm.Start())

	ticked := make(chan struct{})
	go func() {
		clock.Advance(60)
		close(ticked)
	}()
	<-held

	tm.Skip()
	close(release)
	<-ticked
	d.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, delivered, 2)
	types := map[domain.SessionType]uint64{}
	for _, c := range delivered {
		types[c.Type] = c.Seq
	}
	assert.Equal(t, uint64(1), types[domain.SessionTypeWork])
	assert.Equal(t, uint64(2), types[domain.SessionTypeShortBreak])
	assert.Equal(t, 1, tm.State().CompletedWorkSessions)
}

func TestDispatcher_FailuresAreIsolated(t *testing.T) {
	d := NewDispatcher()
	var ok atomic.Int32
	d.Register("fails", HandlerFunc(func(ctx context.Context, c domain.Completion) error {
		return errors.New("database is locked")
	}))
	d.Register("panics", HandlerFunc(func(ctx context.Context, c domain.Completion) error {
		panic("boom")
	}))
	d.Register("ok", HandlerFunc(func(ctx context.Context, c domain.Completion) error {
		ok.Add(1)
		return nil
	}))

	require.NotPanics(t, func() {
		d.Dispatch(domain.Completion{Seq: 1})
		d.Wait()
	})
	assert.Equal(t, int32(1), ok.Load())
}

func TestDispatcher_DoesNotBlockTimer(t *testing.T) {
	release := make(chan struct{})
	d := NewDispatcher()
	d.Register("slow", HandlerFunc(func(ctx context.Context, c domain.Completion) error {
		<-release
		return nil
	}))

	clock := NewManualClock()
	tm := New(domain.DefaultTimerConfig(), clock, WithOnComplete(d.Dispatch))
	defer tm.Close()

	done := make(chan struct{})
	go func() {
		tm.Skip()
		tm.Skip()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Skip blocked on a slow handler")
	}
	assert.Equal(t, domain.SessionTypeWork, tm.State().SessionType)
	assert.Equal(t, 1, tm.State().CompletedWorkSessions)

	close(release)
	d.Wait()
}

func TestDispatcher_HandlerTimeout(t *testing.T) {
	d := NewDispatcher(WithHandlerTimeout(10 * time.Millisecond))
	var sawDeadline atomic.Bool
	d.Register("waits", HandlerFunc(func(ctx context.Context, c domain.Completion) error {
		<-ctx.Done()
		sawDeadline.Store(errors.Is(ctx.Err(), context.DeadlineExceeded))
		return ctx.Err()
	}))

	d.Dispatch(domain.Completion{Seq: 1})
	d.Wait()

	assert.True(t, sawDeadline.Load())
}

func TestDispatcher_CountsAcrossTimerRuns(t *testing.T) {
	cfg := domain.TimerConfig{Work: 1, ShortBreak: 1, LongBreak: 1}
	var calls atomic.Int32

	for run := 0; run < 100; run++ {
		d := NewDispatcher()
		d.Register("count", HandlerFunc(func(ctx context.Context, c domain.Completion) error {
			calls.Add(1)
			return nil
		}))
		clock := NewManualClock()
		tm := New(cfg, clock, WithOnComplete(d.Dispatch))

		require.NoError(t, tm.Start())
		clock.Advance(61)
		d.Wait()
		tm.Close()
	}

	assert.Equal(t, int32(100), calls.Load())
}
