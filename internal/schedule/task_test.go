package schedule

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestTaskRunsImmediatelyAndTicks(t *testing.T) {
	var runs atomic.Int32
	task := &Task{
		Name:     "test",
		Interval: 20 * time.Millisecond,
		Run: func(ctx context.Context) {
			runs.Add(1)
		},
	}

	task.Start(context.Background())
	time.Sleep(70 * time.Millisecond)
	task.Stop()

	got := runs.Load()
	if got < 2 {
		t.Errorf("runs = %d, want immediate run plus ticks", got)
	}
}

func TestTaskSkipInitial(t *testing.T) {
	var runs atomic.Int32
	task := &Task{
		Name:        "test",
		Interval:    time.Hour,
		SkipInitial: true,
		Run: func(ctx context.Context) {
			runs.Add(1)
		},
	}

	task.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	task.Stop()

	if got := runs.Load(); got != 0 {
		t.Errorf("runs = %d, want 0 before the first interval", got)
	}
}

func TestTaskNoOverlap(t *testing.T) {
	var concurrent atomic.Int32
	var max atomic.Int32
	task := &Task{
		Name:     "slow",
		Interval: 5 * time.Millisecond,
		Run: func(ctx context.Context) {
			cur := concurrent.Add(1)
			if cur > max.Load() {
				max.Store(cur)
			}
			time.Sleep(30 * time.Millisecond)
			concurrent.Add(-1)
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	task.Start(ctx)

	// a second trigger while the first run sleeps must be skipped
	go task.tick(ctx)
	time.Sleep(60 * time.Millisecond)
	cancel()
	task.Stop()

	if max.Load() > 1 {
		t.Errorf("max concurrent runs = %d, want 1", max.Load())
	}
}

func TestUntilNextHour(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		hour int
		want time.Duration
	}{
		{
			"Before target",
			time.Date(2024, 6, 1, 0, 30, 0, 0, time.UTC), 2,
			90 * time.Minute,
		},
		{
			"After target",
			time.Date(2024, 6, 1, 3, 0, 0, 0, time.UTC), 2,
			23 * time.Hour,
		},
		{
			"Exactly at target",
			time.Date(2024, 6, 1, 2, 0, 0, 0, time.UTC), 2,
			24 * time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UntilNextHour(tt.now, tt.hour); got != tt.want {
				t.Errorf("UntilNextHour = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestUntilMidnight(t *testing.T) {
	now := time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC)
	if got := UntilMidnight(now); got != time.Hour {
		t.Errorf("UntilMidnight = %s, want 1h", got)
	}
}

func TestAfterCancelled(t *testing.T) {
	var fired atomic.Bool
	ctx, cancel := context.WithCancel(context.Background())

	After(ctx, 20*time.Millisecond, func() { fired.Store(true) })
	cancel()
	time.Sleep(50 * time.Millisecond)

	if fired.Load() {
		t.Error("After fired despite cancelled context")
	}
}
