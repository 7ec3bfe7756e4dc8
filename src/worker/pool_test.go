package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestPoolRunsTask(t *testing.T) {
	p := New(1)
	defer p.Close()

	done := make(chan struct{})
	ok := p.Submit(context.Background(), func(ctx context.Context) (string, error) {
		return "applied", nil
	}, func(summary string, err error) {
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if summary != "applied" {
			t.Errorf("unexpected summary %q", summary)
		}
		close(done)
	})
	if !ok {
		t.Fatal("submit rejected on idle pool")
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("task never completed")
	}
}

func TestPoolBackPressure(t *testing.T) {
	p := New(1)
	defer p.Close()

	var mu sync.Mutex
	completed := 0
	block := make(chan struct{})
	cb := func(string, error) {
		mu.Lock()
		completed++
		mu.Unlock()
	}
	slow := func(ctx context.Context) (string, error) {
		<-block
		return "", nil
	}

	// First task occupies the worker, second sits in the 1-slot queue.
	if !p.Submit(context.Background(), slow, cb) {
		t.Fatal("first submit rejected")
	}
	time.Sleep(50 * time.Millisecond)
	if !p.Submit(context.Background(), slow, cb) {
		t.Fatal("second submit rejected")
	}

	// Third must be dropped.
	if p.Submit(context.Background(), slow, cb) {
		t.Error("expected drop when worker busy and queue full")
	}

	close(block)
	deadline := time.Now().Add(5 * time.Second)
	for {
		mu.Lock()
		n := completed
		mu.Unlock()
		if n == 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected 2 completions, got %d", n)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestPoolSkipsExpiredContext(t *testing.T) {
	p := New(1)
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	p.Submit(ctx, func(ctx context.Context) (string, error) {
		t.Error("task ran despite cancelled context")
		return "", nil
	}, func(_ string, err error) {
		done <- err
	})

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("callback never fired")
	}
}
