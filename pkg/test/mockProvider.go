package test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
)

type MockWriteCloser struct {
	bytes.Buffer
}

func (m *MockWriteCloser) Close() error {
	return nil
}

type MockProvider struct {
	Data map[string]*MockWriteCloser

	mu sync.Mutex
}

func (m *MockProvider) Delete(ctx context.Context, u *url.URL) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, u.String())
	return nil
}

func (m *MockProvider) WriteCloser(ctx context.Context, u *url.URL) (w io.WriteCloser, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Data == nil {
		m.Data = make(map[string]*MockWriteCloser)
	}
	wc := new(MockWriteCloser)
	m.Data[u.String()] = wc
	return wc, nil
}

func (m *MockProvider) ReadCloser(ctx context.Context, u *url.URL) (r io.ReadCloser, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wc, found := m.Data[u.String()]
	if !found {
		return nil, fmt.Errorf("unable to find %s", u.String())
	}

	return io.NopCloser(bytes.NewReader(wc.Bytes())), nil
}

// Get returns what was written to u.
func (m *MockProvider) Get(u string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wc, found := m.Data[u]
	if !found {
		return "", false
	}
	return wc.String(), true
}
