package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestMapPreservesOrder(t *testing.T) {
	items := []string{"a", "bb", "ccc", "dddd", "eeeee"}

	var called int32
	out, err := Map(context.Background(), items, 2, func(_ context.Context, i int, s string) (int, error) {
		atomic.AddInt32(&called, 1)
		// Later items finish first.
		time.Sleep(time.Duration(len(items)-i) * time.Millisecond)
		return len(s), nil
	})
	if err != nil {
		t.Fatalf("map: %v", err)
	}
	if called != int32(len(items)) {
		t.Fatalf("expected %d calls, got %d", len(items), called)
	}
	for i, n := range out {
		if n != i+1 {
			t.Fatalf("out[%d] = %d", i, n)
		}
	}
}

func TestMapReturnsFirstError(t *testing.T) {
	boom := errors.New("test error")
	out, err := Map(context.Background(), []int{0, 1, 2}, 1, func(_ context.Context, i int, _ int) (int, error) {
		if i == 1 {
			return 0, boom
		}
		return i, nil
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected test error, got %v", err)
	}
	if out != nil {
		t.Fatalf("expected no results on error, got %v", out)
	}
}

func TestMapHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var called int32
	_, err := Map(ctx, []int{1, 2, 3}, 0, func(context.Context, int, int) (int, error) {
		atomic.AddInt32(&called, 1)
		return 0, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if called != 0 {
		t.Fatalf("expected no calls after cancel, got %d", called)
	}
}

func TestMapEmpty(t *testing.T) {
	out, err := Map[int, int](context.Background(), nil, 4, func(context.Context, int, int) (int, error) { return 0, nil })
	if err != nil || out != nil {
		t.Fatalf("expected nil, nil; got %v, %v", out, err)
	}
}
