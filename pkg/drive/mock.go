package drive

import (
	"io"
	"sync"
)

// MockPort implements Port for testing
type MockPort struct {
	mu          sync.Mutex
	WrittenData []byte
	WriteError  error
	CloseError  error
	Closed      bool
}

func (m *MockPort) Read(p []byte) (n int, err error) {
	return 0, io.EOF
}

func (m *MockPort) Write(p []byte) (n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteError != nil {
		return 0, m.WriteError
	}
	m.WrittenData = append(m.WrittenData, p...)
	return len(p), nil
}

func (m *MockPort) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return m.CloseError
}

// Written returns everything written so far.
func (m *MockPort) Written() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.WrittenData)
}
