package trpl

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestChannel(t *testing.T) {
	t.Parallel()

	tx, rx := Channel[int]()

	// Unbounded: a pile of sends with nobody receiving must not block.
	for i := 0; i < 1000; i++ {
		if err := tx.Send(i); err != nil {
			t.Fatalf("TestChannel: Send(%d): got err == %s, want err == nil", i, err)
		}
	}
	if got := rx.Len(); got != 1000 {
		t.Errorf("TestChannel: got Len() == %d, want 1000", got)
	}

	ctx := context.Background()
	for i := 0; i < 1000; i++ {
		v, err := rx.Recv(ctx)
		if err != nil {
			t.Fatalf("TestChannel: Recv: got err == %s, want err == nil", err)
		}
		if v != i {
			t.Fatalf("TestChannel: got %d, want %d in send order", v, i)
		}
	}
}

func TestChannelClose(t *testing.T) {
	t.Parallel()

	tx, rx := Channel[string]()
	if err := tx.Send("queued"); err != nil {
		t.Fatalf("TestChannelClose: Send: got err == %s, want err == nil", err)
	}
	tx.Close()
	tx.Close() // idempotent

	if err := tx.Send("late"); !errors.Is(err, ErrClosed) {
		t.Errorf("TestChannelClose: Send after Close: got err == %v, want ErrClosed", err)
	}

	ctx := context.Background()
	v, err := rx.Recv(ctx)
	if err != nil || v != "queued" {
		t.Errorf("TestChannelClose: got (%q, %v), want the buffered value before the close", v, err)
	}
	if _, err := rx.Recv(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("TestChannelClose: drained Recv: got err == %v, want ErrClosed", err)
	}
}

func TestChannelRecvBlocks(t *testing.T) {
	t.Parallel()

	tx, rx := Channel[int]()
	go func() {
		time.Sleep(20 * time.Millisecond)
		tx.Send(7)
	}()

	v, err := rx.Recv(context.Background())
	if err != nil || v != 7 {
		t.Errorf("TestChannelRecvBlocks: got (%d, %v), want (7, nil)", v, err)
	}
}

func TestChannelRecvContext(t *testing.T) {
	t.Parallel()

	_, rx := Channel[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := rx.Recv(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("TestChannelRecvContext: got err == %v, want context.DeadlineExceeded", err)
	}
}

func TestChannelTryRecv(t *testing.T) {
	t.Parallel()

	tx, rx := Channel[int]()

	if _, err := rx.TryRecv(); !errors.Is(err, ErrEmpty) {
		t.Errorf("TestChannelTryRecv: empty channel: got err == %v, want ErrEmpty", err)
	}

	tx.Send(1)
	if v, err := rx.TryRecv(); err != nil || v != 1 {
		t.Errorf("TestChannelTryRecv: got (%d, %v), want (1, nil)", v, err)
	}

	tx.Close()
	if _, err := rx.TryRecv(); !errors.Is(err, ErrClosed) {
		t.Errorf("TestChannelTryRecv: closed and drained: got err == %v, want ErrClosed", err)
	}
}

func TestChannelManyProducers(t *testing.T) {
	t.Parallel()

	const producers = 8
	const each = 250

	tx, rx := Channel[int]()

	wg := sync.WaitGroup{}
	for p := 0; p < producers; p++ {
		p := p
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < each; i++ {
				if err := tx.Send(p*each + i); err != nil {
					t.Errorf("TestChannelManyProducers: Send: got err == %s, want err == nil", err)
					return
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		tx.Close()
	}()

	seen := make(map[int]bool, producers*each)
	ctx := context.Background()
	for {
		v, err := rx.Recv(ctx)
		if errors.Is(err, ErrClosed) {
			break
		}
		if err != nil {
			t.Fatalf("TestChannelManyProducers: Recv: got err == %s, want err == nil", err)
		}
		if seen[v] {
			t.Fatalf("TestChannelManyProducers: value %d delivered twice", v)
		}
		seen[v] = true
	}
	if len(seen) != producers*each {
		t.Errorf("TestChannelManyProducers: got %d values, want %d", len(seen), producers*each)
	}
}
