package test

import (
	"sync"

	"github.com/raphaelreyna/liquette/pkg/frontend"
)

type MockHandler struct {
	ReceivedRequests []*frontend.Request
	sync.WaitGroup

	mu sync.Mutex
}

func (h *MockHandler) Handle(req *frontend.Request) {
	h.mu.Lock()
	h.ReceivedRequests = append(h.ReceivedRequests, req)
	h.mu.Unlock()
	h.Done()
}
