package responder

import (
	"errors"
	"sync"
)

var errNoRequest = errors.New("atecc: receive without a request")

// Loopback is a simulated device returning each request as its response.
//
// Requests must carry their own length in the first byte to be accepted by
// the bridge as responses.
type Loopback struct {
	mu   sync.Mutex
	sent []byte
}

func (l *Loopback) Send(p []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sent = append(l.sent[:0], p...)
	return nil
}

// Recv returns the last request. Each request is returned once.
func (l *Loopback) Recv(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sent == nil {
		return 0, errNoRequest
	}
	n := copy(p, l.sent)
	l.sent = nil
	return n, nil
}
