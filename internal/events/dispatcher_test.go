package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestPublishReachesEverySubscriber(t *testing.T) {
	d := NewDispatcher(time.Second)
	var calls int32
	for i := 0; i < 3; i++ {
		d.Subscribe(StoreCreatedKey, "counter", func(ctx context.Context, ev Event) error {
			atomic.AddInt32(&calls, 1)
			return nil
		})
	}
	d.Subscribe(ProductCreatedKey, "other", func(ctx context.Context, ev Event) error {
		t.Error("product handler received a store event")
		return nil
	})

	d.Publish(context.Background(), StoreCreated{Name: "Acme"})
	d.Wait()

	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("calls = %d, want 3", got)
	}
}

func TestHandlerFailuresAndPanicsAreContained(t *testing.T) {
	d := NewDispatcher(time.Second)
	var ok int32
	d.Subscribe(OrderPlacedKey, "failing", func(ctx context.Context, ev Event) error {
		return errors.New("smtp down")
	})
	d.Subscribe(OrderPlacedKey, "panicking", func(ctx context.Context, ev Event) error {
		panic("boom")
	})
	d.Subscribe(OrderPlacedKey, "healthy", func(ctx context.Context, ev Event) error {
		atomic.AddInt32(&ok, 1)
		return nil
	})

	d.Publish(context.Background(), OrderPlaced{})
	d.Wait()

	if atomic.LoadInt32(&ok) != 1 {
		t.Fatal("healthy handler did not run")
	}
}

func TestHandlersOutliveCallerCancellation(t *testing.T) {
	d := NewDispatcher(time.Second)
	release := make(chan struct{})
	var sawErr atomic.Value
	d.Subscribe(StoreCreatedKey, "slow", func(ctx context.Context, ev Event) error {
		<-release
		sawErr.Store(ctx.Err() == nil)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	d.Publish(ctx, StoreCreated{})
	cancel()
	close(release)
	d.Wait()

	if alive, _ := sawErr.Load().(bool); !alive {
		t.Fatal("handler context was cancelled with the caller's")
	}
}

func TestCloseDropsLateEvents(t *testing.T) {
	d := NewDispatcher(time.Second)
	var calls int32
	d.Subscribe(StoreCreatedKey, "counter", func(ctx context.Context, ev Event) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	d.Close()
	d.Publish(context.Background(), StoreCreated{})
	d.Wait()
	if calls != 0 {
		t.Fatalf("calls = %d after Close", calls)
	}
}
