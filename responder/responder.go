// Package responder answers exchanges issued by a bridge.Bridge.
//
// A Responder is the other half of the callback bridged HAL: it is registered
// as the bridge callback, picks up each request from the exchange record,
// delivers it over a Transport and stores the response back into the record.
package responder

import (
	"github.com/northvolt/go-atecc-bridge/bridge"
)

// Transport delivers raw device traffic.
type Transport interface {
	// Send writes one request to the device.
	Send(p []byte) error
	// Recv reads one response of at most len(p) bytes into p.
	Recv(p []byte) (int, error)
}

// Responder serves the exchanges of a bridge using a Transport.
type Responder struct {
	b   *bridge.Bridge
	t   Transport
	log bridge.Logger
}

// New returns a Responder for b delivering traffic over t.
//
// l may be nil.
func New(b *bridge.Bridge, t Transport, l bridge.Logger) *Responder {
	if l == nil {
		l = bridge.NullLogger()
	}
	return &Responder{b, t, l}
}

// Register installs the responder as the bridge callback.
func (r *Responder) Register() error {
	return r.b.Register(r.Callback)
}

// Callback implements bridge.Callback.
func (r *Responder) Callback(op bridge.Op, seq uint32, length uint32) bridge.Status {
	switch op {
	case bridge.OpSend, bridge.OpRecv:
	default:
		r.log.Printf("responder: unknown op %d", uint32(op))
		return bridge.StatusUnimplemented
	}

	rec, err := r.b.Request(seq)
	if err != nil {
		return bridge.StatusOf(err, bridge.StatusGenFail)
	}
	if rec.Seq != seq || uint32(rec.LenIn) != length {
		r.log.Printf("responder: %s seq %d len %d does not match request %d len %d",
			op, seq, length, rec.Seq, rec.LenIn)
		return bridge.StatusBadParam
	}

	if op == bridge.OpSend {
		if err := r.t.Send(rec.In()); err != nil {
			r.log.Printf("responder: send seq %d: %v", seq, err)
			return bridge.StatusOf(err, bridge.StatusCommFail)
		}
		return bridge.StatusSuccess
	}

	resp := bridge.Exchange{Seq: seq}
	n, err := r.t.Recv(resp.Buf[:rec.LenIn])
	if err != nil {
		r.log.Printf("responder: recv seq %d: %v", seq, err)
		return bridge.StatusOf(err, bridge.StatusCommFail)
	}
	resp.LenOut = uint16(n)
	return bridge.StatusOf(r.b.PutResponse(seq, &resp), bridge.StatusGenFail)
}
