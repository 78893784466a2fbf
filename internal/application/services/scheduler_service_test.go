package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/awaisdevofficial/inbound2-sub001/internal/config"
	"github.com/awaisdevofficial/inbound2-sub001/internal/domain/models"
)

func TestSchedulerService_DisabledWithoutSchedule(t *testing.T) {
	s := NewSchedulerService(nil, config.SweepConfig{}, zap.NewNop())
	require.NoError(t, s.Start())
	assert.False(t, s.running)
	s.Stop()
}

func TestSchedulerService_InvalidSchedule(t *testing.T) {
	s := NewSchedulerService(nil, config.SweepConfig{Schedule: "every now and then"}, zap.NewNop())
	assert.Error(t, s.Start())
}

func TestSchedulerService_StartStop(t *testing.T) {
	s := NewSchedulerService(nil, config.SweepConfig{Schedule: "@every 1h", Batch: 1, Concurrency: 1}, zap.NewNop())
	require.NoError(t, s.Start())
	require.NoError(t, s.Start(), "second start is a no-op")
	assert.True(t, s.running)
	s.Stop()
	assert.False(t, s.running)
}

func TestSchedulerService_RunSweep(t *testing.T) {
	f := newAnalysisFixture(t)
	f.calls.On("ListUnanalyzed", mock.Anything, 3).Return([]models.Call{}, nil)

	s := NewSchedulerService(f.svc, config.SweepConfig{Batch: 3, Concurrency: 2}, zap.NewNop())
	s.runSweep()

	f.calls.AssertCalled(t, "ListUnanalyzed", mock.Anything, 3)
}

func TestSchedulerService_StopCancelsRunningSweep(t *testing.T) {
	f := newAnalysisFixture(t)
	started := make(chan struct{})
	var once sync.Once
	f.calls.On("ListUnanalyzed", mock.Anything, 1).
		Run(func(args mock.Arguments) {
			once.Do(func() { close(started) })
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.Canceled)

	s := NewSchedulerService(f.svc, config.SweepConfig{Schedule: "@every 1s", Batch: 1, Concurrency: 1}, zap.NewNop())
	require.NoError(t, s.Start())

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		s.Stop()
		t.Fatal("sweep never started")
	}

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop waited on the sweep instead of cancelling it")
	}
}
