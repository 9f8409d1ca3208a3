package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestWorkerPool_RunsAllTasks(t *testing.T) {
	p := NewWorkerPool(3, 10, zap.NewNop())
	p.Start(context.Background())

	var counter int64
	for i := 0; i < 10; i++ {
		p.Submit(func() {
			atomic.AddInt64(&counter, 1)
		})
	}
	p.Stop()

	assert.Equal(t, int64(10), atomic.LoadInt64(&counter))
}

func TestWorkerPool_RecoversFromPanic(t *testing.T) {
	p := NewWorkerPool(2, 4, zap.NewNop())
	p.Start(context.Background())

	var mu sync.Mutex
	var done []int
	p.Submit(func() { panic("boom") })
	p.Submit(func() {
		mu.Lock()
		done = append(done, 1)
		mu.Unlock()
	})
	p.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, done, 1)
}

func TestWorkerPool_TrySubmitFullQueue(t *testing.T) {
	// 未启动的池不消费任务，队列容量即上限
	p := NewWorkerPool(1, 1, zap.NewNop())

	assert.True(t, p.TrySubmit(func() {}))
	assert.False(t, p.TrySubmit(func() {}))
}
