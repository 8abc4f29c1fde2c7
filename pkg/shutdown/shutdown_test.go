package shutdown

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestShutdown_RunsAllCallbacks(t *testing.T) {
	m := NewManager()
	var ran int32
	for i := 0; i < 3; i++ {
		m.OnShutdown(func(ctx context.Context) {
			atomic.AddInt32(&ran, 1)
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	m.Shutdown(ctx)

	if got := atomic.LoadInt32(&ran); got != 3 {
		t.Fatalf("ran got=%d want=3", got)
	}
}

func TestShutdown_TimeoutDoesNotBlockForever(t *testing.T) {
	m := NewManager()
	m.OnShutdown(func(ctx context.Context) {
		<-ctx.Done() // 卡死的回调
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	m.Shutdown(ctx)
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Shutdown 阻塞了 %s", elapsed)
	}
}
