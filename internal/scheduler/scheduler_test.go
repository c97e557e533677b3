package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIntervalScheduler_RunImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewIntervalScheduler(ctx, time.Hour)
	s.RunImmediately = true

	ran := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		s.Start(func() { ran <- struct{}{} })
		close(done)
	}()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("immediate tick never fired")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop on cancel")
	}
}

func TestIntervalScheduler_TicksAreSerialized(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := NewIntervalScheduler(ctx, 5*time.Millisecond)
	s.RunImmediately = true

	var inFlight, maxSeen, count int32
	done := make(chan struct{})
	go func() {
		s.Start(func() {
			cur := atomic.AddInt32(&inFlight, 1)
			for {
				seen := atomic.LoadInt32(&maxSeen)
				if cur <= seen || atomic.CompareAndSwapInt32(&maxSeen, seen, cur) {
					break
				}
			}
			time.Sleep(15 * time.Millisecond) // slower than the interval
			atomic.AddInt32(&inFlight, -1)
			atomic.AddInt32(&count, 1)
		})
		close(done)
	}()

	time.Sleep(120 * time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, int32(1), atomic.LoadInt32(&maxSeen), "overlapping ticks observed")
	assert.GreaterOrEqual(t, atomic.LoadInt32(&count), int32(2))
}

func TestIntervalScheduler_NoTicksAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewIntervalScheduler(ctx, 10*time.Millisecond)

	var count int32
	done := make(chan struct{})
	go func() {
		s.Start(func() { atomic.AddInt32(&count, 1) })
		close(done)
	}()

	time.Sleep(55 * time.Millisecond)
	cancel()
	<-done

	settled := atomic.LoadInt32(&count)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, atomic.LoadInt32(&count))
}

func TestIntervalScheduler_InvalidInterval(t *testing.T) {
	s := NewIntervalScheduler(context.Background(), 0)
	done := make(chan struct{})
	go func() {
		s.Start(func() { t.Error("task must not run with an invalid interval") })
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler with invalid interval did not exit")
	}
}
