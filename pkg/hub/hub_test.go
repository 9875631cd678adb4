package hub

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn records writes and blocks reads until closed.
type fakeConn struct {
	mu      sync.Mutex
	written []string
	closed  chan struct{}
	once    sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{closed: make(chan struct{})}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	<-f.closed
	return 0, nil, errors.New("closed")
}

func (f *fakeConn) WriteMessage(t int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t == websocket.TextMessage {
		f.written = append(f.written, string(data))
	}
	return nil
}

func (f *fakeConn) SetReadLimit(int64)                {}
func (f *fakeConn) SetReadDeadline(time.Time) error   { return nil }
func (f *fakeConn) SetWriteDeadline(time.Time) error  { return nil }
func (f *fakeConn) SetPongHandler(func(string) error) {}

func (f *fakeConn) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.written...)
}

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	h := New("test")
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	require.Eventually(t, h.IsRunning, time.Second, time.Millisecond)
	return h, cancel
}

func connect(t *testing.T, h *Hub) *fakeConn {
	t.Helper()
	conn := newFakeConn()
	c := NewClient(h, conn)
	require.NotNil(t, c)
	go c.Run()
	return conn
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	h, cancel := startHub(t)
	defer cancel()

	a, b := connect(t, h), connect(t, h)
	require.Eventually(t, func() bool { return h.ClientCount() == 2 }, time.Second, time.Millisecond)

	require.NoError(t, h.BroadcastJSON(map[string]int{"seq": 1}))
	h.Broadcast([]byte(`{"seq":2}`))

	for _, conn := range []*fakeConn{a, b} {
		require.Eventually(t, func() bool { return len(conn.messages()) == 2 }, time.Second, time.Millisecond)
		msgs := conn.messages()
		assert.Equal(t, []string{`{"seq":1}`, `{"seq":2}`}, msgs)
	}
}

func TestHub_NewClientGetsLastMessage(t *testing.T) {
	h, cancel := startHub(t)
	defer cancel()

	require.NoError(t, h.BroadcastJSON("first"))
	require.NoError(t, h.BroadcastJSON("latest"))

	// Let the broadcast loop drain before the late client arrives.
	time.Sleep(20 * time.Millisecond)
	late := connect(t, h)

	require.Eventually(t, func() bool { return len(late.messages()) >= 1 }, time.Second, time.Millisecond)
	assert.Equal(t, `"latest"`, late.messages()[0])
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	h, cancel := startHub(t)
	defer cancel()

	conn := connect(t, h)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, time.Second, time.Millisecond)
}

func TestHub_StopDisconnectsClients(t *testing.T) {
	h, cancel := startHub(t)
	connect(t, h)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	assert.False(t, h.IsRunning())
	assert.Zero(t, h.ClientCount())
	assert.Nil(t, NewClient(h, newFakeConn()), "register after stop must not block")
}

func TestHub_BroadcastNeverBlocks(t *testing.T) {
	h := New("idle") // never run, so the queue fills up

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			h.Broadcast([]byte(`{}`))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked")
	}
	assert.Equal(t, uint64(1000-256), h.Dropped())
}
