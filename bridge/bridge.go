package bridge

import (
	"sync"
)

// Op selects the operation a callback is asked to perform.
type Op uint32

// Operations passed to a Callback. Values 1 to 3 are reserved for wake, idle
// and sleep, which this HAL does not issue.
const (
	OpSend Op = 4
	OpRecv Op = 5
)

func (op Op) String() string {
	switch op {
	case OpSend:
		return "send"
	case OpRecv:
		return "recv"
	default:
		return "unknown"
	}
}

// Callback moves the bytes of one exchange.
//
// For OpSend the request is available through Bridge.Request. For OpRecv the
// callback must store its response with Bridge.PutResponse, setting LenOut,
// before returning. length is the request length or the maximum response
// length. The returned status is handed to the caller unchanged.
//
// Exchanges on a Bridge are serialized. A callback must not send or receive
// on an interface bound to the same Bridge; such a call blocks forever.
type Callback func(op Op, seq uint32, length uint32) Status

// Bridge owns the callback, the exchange record and the sequence counter
// shared by all interfaces bound to it.
type Bridge struct {
	// xmu serializes exchanges.
	xmu sync.Mutex

	mu  sync.Mutex
	cb  Callback
	rec Exchange
	seq uint32
	log Logger
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the logger used for debug output.
func WithLogger(l Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.log = l
		}
	}
}

// WithSequence sets the last issued sequence number. The next exchange uses
// seq+1, or 1 if that wraps to zero.
func WithSequence(seq uint32) Option {
	return func(b *Bridge) {
		b.seq = seq
	}
}

// New returns a Bridge with no callback registered.
func New(opts ...Option) *Bridge {
	b := &Bridge{log: nullLogger}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Register installs the callback.
//
// A callback can be registered once. Registering nil fails with
// StatusBadParam, registering a second callback with StatusAllocFailure.
func (b *Bridge) Register(cb Callback) error {
	if cb == nil {
		b.log.Printf("bridge: register: nil callback")
		return StatusBadParam
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cb != nil {
		b.log.Printf("bridge: register: callback already registered")
		return StatusAllocFailure
	}
	b.cb = cb
	return nil
}

// Sequence returns the last issued sequence number.
func (b *Bridge) Sequence() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seq
}

// Request returns a copy of the record of the exchange identified by seq.
//
// It fails with StatusGenFail unless seq is non-zero and matches the current
// record.
func (b *Bridge) Request(seq uint32) (Exchange, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if seq == 0 || seq != b.rec.Seq {
		b.log.Printf("bridge: request: stale seq %d, current %d", seq, b.rec.Seq)
		return Exchange{}, StatusGenFail
	}
	return b.rec, nil
}

// PutResponse replaces the record of the exchange identified by seq with rec.
//
// The whole record is copied, including rec.Seq. It fails with StatusBadParam
// if rec is nil and with StatusGenFail unless seq is non-zero and matches the
// current record.
func (b *Bridge) PutResponse(seq uint32, rec *Exchange) error {
	if rec == nil {
		return StatusBadParam
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if seq == 0 || seq != b.rec.Seq {
		b.log.Printf("bridge: response: stale seq %d, current %d", seq, b.rec.Seq)
		return StatusGenFail
	}
	b.rec = *rec
	return nil
}

// roundTrip runs one exchange through the callback and returns the record as
// left by the callback.
func (b *Bridge) roundTrip(op Op, payload []byte, length int) (Exchange, error) {
	b.xmu.Lock()
	defer b.xmu.Unlock()

	b.mu.Lock()
	cb := b.cb
	if cb == nil {
		b.mu.Unlock()
		return Exchange{}, StatusCommFail
	}
	if length <= 0 || length >= BufferSize {
		b.mu.Unlock()
		return Exchange{}, StatusBadParam
	}

	// zero means no request
	b.seq++
	if b.seq == 0 {
		b.seq++
	}
	seq := b.seq
	b.rec = Exchange{Seq: seq, LenIn: uint16(length)}
	copy(b.rec.Buf[:], payload)
	b.mu.Unlock()

	status := cb(op, seq, uint32(length))

	b.mu.Lock()
	rec := b.rec
	b.mu.Unlock()

	if status != StatusSuccess {
		return rec, status
	}
	if rec.Seq != seq {
		b.log.Printf("bridge: %s: seq mismatch, sent %d got %d", op, seq, rec.Seq)
		return rec, StatusCommFail
	}
	return rec, nil
}
