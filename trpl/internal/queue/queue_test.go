package queue

import (
	"sync"
	"testing"
	"time"
)

func TestFIFO(t *testing.T) {
	t.Parallel()

	q := New[int]()
	for i := 0; i < 100; i++ {
		if !q.Push(i) {
			t.Fatalf("TestFIFO: Push(%d) reported a closed queue", i)
		}
	}
	if q.Len() != 100 {
		t.Errorf("TestFIFO: got Len() == %d, want 100", q.Len())
	}

	for i := 0; i < 100; i++ {
		v, ok := q.Pop()
		if !ok {
			t.Fatalf("TestFIFO: Pop() was empty at %d", i)
		}
		if v != i {
			t.Fatalf("TestFIFO: got %d, want %d", v, i)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Errorf("TestFIFO: Pop() on an empty queue reported a value")
	}
}

func TestClose(t *testing.T) {
	t.Parallel()

	q := New[string]()
	q.Push("kept")
	q.Close()
	q.Close() // idempotent

	if q.Push("dropped") {
		t.Errorf("TestClose: Push succeeded after Close")
	}
	if !q.Closed() {
		t.Errorf("TestClose: Closed() == false after Close")
	}
	if v, ok := q.Pop(); !ok || v != "kept" {
		t.Errorf("TestClose: got (%q, %v), want the value pushed before Close", v, ok)
	}
}

func TestWakeBlockedConsumer(t *testing.T) {
	t.Parallel()

	q := New[int]()
	got := make(chan int)
	go func() {
		for {
			if v, ok := q.Pop(); ok {
				got <- v
				return
			}
			<-q.Wake()
		}
	}()

	time.Sleep(10 * time.Millisecond)
	q.Push(42)

	select {
	case v := <-got:
		if v != 42 {
			t.Errorf("TestWakeBlockedConsumer: got %d, want 42", v)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("TestWakeBlockedConsumer: consumer never woke")
	}
}

func TestCloseWakes(t *testing.T) {
	t.Parallel()

	q := New[int]()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, ok := q.Pop(); ok {
				continue
			}
			if q.Closed() {
				return
			}
			<-q.Wake()
		}
	}()

	time.Sleep(10 * time.Millisecond)
	q.Close()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("TestCloseWakes: consumer never saw the close")
	}
}

func TestConcurrentPush(t *testing.T) {
	t.Parallel()

	const producers = 8
	const each = 1000

	q := New[int]()
	wg := sync.WaitGroup{}
	for p := 0; p < producers; p++ {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				q.Push(p*each + i)
			}
		}()
	}
	wg.Wait()

	if q.Len() != producers*each {
		t.Fatalf("TestConcurrentPush: got Len() == %d, want %d", q.Len(), producers*each)
	}

	// Values from one producer must come out in the order it pushed them.
	last := make([]int, producers)
	for i := range last {
		last[i] = -1
	}
	for i := 0; i < producers*each; i++ {
		v, ok := q.Pop()
		if !ok {
			t.Fatalf("TestConcurrentPush: queue went empty %d values early", producers*each-i)
		}
		p, n := v/each, v%each
		if n <= last[p] {
			t.Fatalf("TestConcurrentPush: producer %d order violated: %d after %d", p, n, last[p])
		}
		last[p] = n
	}
}
