package pool

import (
	"errors"
	"sync"
	"testing"
)

func TestQueueFIFO(t *testing.T) {
	sender, receiver := NewQueue()

	var got []int
	for i := 0; i < 5; i++ {
		i := i
		if err := sender.Send(func() { got = append(got, i) }); err != nil {
			t.Fatalf("Send() error = %v", err)
		}
	}

	for i := 0; i < 5; i++ {
		job, ok := receiver.Recv()
		if !ok {
			t.Fatalf("Recv() reported closed after %d jobs", i)
		}
		job()
	}

	for i, v := range got {
		if v != i {
			t.Errorf("job order = %v, want ascending", got)
			break
		}
	}
}

func TestQueueSendAfterClose(t *testing.T) {
	sender, _ := NewQueue()
	sender.Close()

	err := sender.Send(func() {})
	if !errors.Is(err, ErrClosed) {
		t.Errorf("Send() after Close = %v, want ErrClosed", err)
	}

	// Close is idempotent.
	sender.Close()
}

func TestQueueDrainsAfterClose(t *testing.T) {
	sender, receiver := NewQueue()

	ran := false
	if err := sender.Send(func() { ran = true }); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	sender.Close()

	// The queued job is still receivable after close.
	job, ok := receiver.Recv()
	if !ok {
		t.Fatal("Recv() reported closed with a job still queued")
	}
	job()
	if !ran {
		t.Error("queued job did not run")
	}

	if _, ok := receiver.Recv(); ok {
		t.Error("Recv() on a drained, closed queue should report done")
	}
}

func TestQueueRecvBlocksUntilSend(t *testing.T) {
	sender, receiver := NewQueue()

	done := make(chan struct{})
	go func() {
		defer close(done)
		job, ok := receiver.Recv()
		if !ok {
			t.Error("Recv() reported closed, want a job")
			return
		}
		job()
	}()

	ran := make(chan struct{})
	if err := sender.Send(func() { close(ran) }); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	<-done
	select {
	case <-ran:
	default:
		t.Error("received job did not run")
	}
}

func TestQueueConcurrentSenders(t *testing.T) {
	const producers = 4
	const perProducer = 50

	sender, receiver := NewQueue()

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				if err := sender.Send(func() {}); err != nil {
					t.Errorf("Send() error = %v", err)
				}
			}
		}()
	}
	wg.Wait()

	if n := receiver.Len(); n != producers*perProducer {
		t.Errorf("Len() = %d, want %d", n, producers*perProducer)
	}
}
