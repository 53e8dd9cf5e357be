package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_insight/internal/feature/watchlist/usecase"
)

type countingSweeper struct {
	calls atomic.Int32
}

func (c *countingSweeper) Sweep() int {
	c.calls.Add(1)
	return 1
}

type fakeWarmer struct {
	calls atomic.Int32
	err   error
	ctxOK atomic.Bool
}

func (f *fakeWarmer) Warm(ctx context.Context) (usecase.WarmResult, error) {
	f.calls.Add(1)
	_, ok := ctx.Deadline()
	f.ctxOK.Store(ok && ctx.Err() == nil)
	return usecase.WarmResult{Warmed: 2}, f.err
}

func TestScheduler_Register(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		spec    string
		wantErr bool
		jobs    int
	}{
		{name: "descriptor", spec: "@every 5m", jobs: 1},
		{name: "five fields", spec: "*/5 * * * *", jobs: 1},
		{name: "empty disables", spec: "", jobs: 0},
		{name: "invalid", spec: "every five minutes", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := NewScheduler(&countingSweeper{})
			err := s.Register(tt.spec)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, s.cron.Entries(), tt.jobs)
		})
	}
}

func TestScheduler_SweepTask(t *testing.T) {
	t.Parallel()

	sw := &countingSweeper{}
	s := NewScheduler(sw)
	s.sweepTask()
	assert.Equal(t, int32(1), sw.calls.Load())
}

func TestScheduler_StartStop(t *testing.T) {
	t.Parallel()

	s := NewScheduler(&countingSweeper{})
	require.NoError(t, s.Register("@every 1h"))
	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
	assert.NoError(t, ctx.Err())
}

func TestScheduler_RegisterWarm(t *testing.T) {
	t.Parallel()

	s := NewScheduler(&countingSweeper{})
	require.NoError(t, s.RegisterWarm("", &fakeWarmer{}))
	require.NoError(t, s.RegisterWarm("@every 1h", nil))
	assert.Empty(t, s.cron.Entries())

	require.NoError(t, s.RegisterWarm("@every 30m", &fakeWarmer{}))
	assert.Len(t, s.cron.Entries(), 1)

	assert.Error(t, s.RegisterWarm("bogus", &fakeWarmer{}))
}

func TestScheduler_WarmTask(t *testing.T) {
	t.Parallel()

	w := &fakeWarmer{}
	s := NewScheduler(&countingSweeper{})
	s.warmTask(w)
	assert.Equal(t, int32(1), w.calls.Load())
	assert.True(t, w.ctxOK.Load(), "warm must run with a live, bounded context")

	failing := &fakeWarmer{err: errors.New("db down")}
	s.warmTask(failing)
	assert.Equal(t, int32(1), failing.calls.Load())
}

func TestScheduler_StopCancelsWarm(t *testing.T) {
	t.Parallel()

	s := NewScheduler(&countingSweeper{})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)

	w := &fakeWarmer{}
	s.warmTask(w)
	assert.False(t, w.ctxOK.Load())
}
