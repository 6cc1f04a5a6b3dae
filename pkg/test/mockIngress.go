package test

import (
	"context"
	"sync"
	"time"

	"github.com/raphaelreyna/liquette/pkg/frontend"
)

// MockIngress queues RequestsQueue on Start and closes its channel on Stop.
type MockIngress struct {
	StartedAt     *time.Time
	StoppedAt     *time.Time
	RequestsQueue []*frontend.Request

	rc   chan *frontend.Request
	once sync.Once
}

func (t *MockIngress) Start(ctx context.Context) error {
	n := time.Now()
	t.StartedAt = &n

	t.rc = make(chan *frontend.Request, len(t.RequestsQueue))
	for _, req := range t.RequestsQueue {
		t.rc <- req
	}
	return nil
}

func (t *MockIngress) Stop(ctx context.Context) error {
	t.once.Do(func() {
		n := time.Now()
		t.StoppedAt = &n
		close(t.rc)
	})
	return nil
}

func (t *MockIngress) RequestsChan() <-chan *frontend.Request {
	return t.rc
}
