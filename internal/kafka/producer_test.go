package kafka

import (
	"context"
	"testing"
	"time"
)

func waitClosed(t *testing.T, p *Producer) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		p.WaitClosed()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("WaitClosed did not return")
	}
}

func TestProducerShutdownAfterClose(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := NewProducer([]string{"127.0.0.1:1"}, "orders.created", 8)
	p.Start(ctx)

	// The api binary closes first and cancels after; neither order may
	// hang or panic.
	p.Close()
	cancel()
	waitClosed(t, p)
}

func TestProducerShutdownOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	p := NewProducer([]string{"127.0.0.1:1"}, "orders.created", 8)
	p.Start(ctx)

	cancel()
	waitClosed(t, p)

	// Close after the drain goroutine exited must not panic.
	p.Close()
}
