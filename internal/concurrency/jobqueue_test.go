package concurrency

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestJobQueue_FIFO(t *testing.T) {
	q := NewJobQueue()
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		if err := q.Enqueue(func() { got = append(got, i) }); err != nil {
			t.Fatalf("Enqueue: %v", err)
		}
	}
	if q.Len() != 5 {
		t.Fatalf("expected 5 pending, got %d", q.Len())
	}
	for i := 0; i < 5; i++ {
		job, ok := q.Dequeue()
		if !ok {
			t.Fatalf("unexpected disconnect at %d", i)
		}
		job()
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("out of order: %v", got)
		}
	}
}

func TestJobQueue_DequeueBlocksUntilEnqueue(t *testing.T) {
	q := NewJobQueue()
	res := make(chan bool, 1)
	go func() {
		_, ok := q.Dequeue()
		res <- ok
	}()

	select {
	case <-res:
		t.Fatal("Dequeue returned on empty open queue")
	case <-time.After(20 * time.Millisecond):
	}

	if err := q.Enqueue(func() {}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	select {
	case ok := <-res:
		if !ok {
			t.Fatal("expected a job, got disconnect")
		}
	case <-time.After(time.Second):
		t.Fatal("Dequeue not woken by Enqueue")
	}
}

func TestJobQueue_CloseDrainsThenDisconnects(t *testing.T) {
	q := NewJobQueue()
	_ = q.Enqueue(func() {})
	_ = q.Enqueue(func() {})
	q.Close()
	q.Close() // idempotent

	if !q.Closed() {
		t.Fatal("expected queue to report closed")
	}
	for i := 0; i < 2; i++ {
		if _, ok := q.Dequeue(); !ok {
			t.Fatalf("queued job %d lost on close", i)
		}
	}
	if _, ok := q.Dequeue(); ok {
		t.Fatal("expected disconnect on drained closed queue")
	}
}

func TestJobQueue_CloseWakesAllReceivers(t *testing.T) {
	q := NewJobQueue()
	const receivers = 8
	var wg sync.WaitGroup
	wg.Add(receivers)
	for i := 0; i < receivers; i++ {
		go func() {
			defer wg.Done()
			if _, ok := q.Dequeue(); ok {
				t.Error("expected disconnect")
			}
		}()
	}
	time.Sleep(10 * time.Millisecond)
	q.Close()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("receivers still blocked after Close")
	}
}

func TestJobQueue_EnqueueAfterClose(t *testing.T) {
	q := NewJobQueue()
	q.Close()
	if err := q.Enqueue(func() {}); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("expected ErrQueueClosed, got %v", err)
	}
	if err := NewJobQueue().Enqueue(nil); !errors.Is(err, ErrNilJob) {
		t.Fatalf("expected ErrNilJob, got %v", err)
	}
}

func TestJobQueue_EachItemDeliveredOnce(t *testing.T) {
	q := NewJobQueue()
	const n = 1000
	var mu sync.Mutex
	seen := make(map[int]int, n)
	for i := 0; i < n; i++ {
		i := i
		_ = q.Enqueue(func() {
			mu.Lock()
			seen[i]++
			mu.Unlock()
		})
	}
	q.Close()

	var wg sync.WaitGroup
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				job, ok := q.Dequeue()
				if !ok {
					return
				}
				job()
			}
		}()
	}
	wg.Wait()

	if len(seen) != n {
		t.Fatalf("expected %d distinct jobs, got %d", n, len(seen))
	}
	for i, c := range seen {
		if c != 1 {
			t.Fatalf("job %d delivered %d times", i, c)
		}
	}
}
