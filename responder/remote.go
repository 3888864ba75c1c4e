package responder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/northvolt/go-atecc-bridge/bridge"
	"golang.org/x/crypto/cryptobyte"
)

// Remote is a transport forwarding traffic to a peer running Serve, e.g. a
// host owning the bus reached over TCP or a serial line.
//
// Each request is one frame of an op byte followed by a marshaled
// bridge.Exchange. The peer answers with a status byte followed by the record.
// The record sequence numbers pair responses with requests.
type Remote struct {
	mu  sync.Mutex
	rw  io.ReadWriter
	seq uint32
}

// NewRemote returns a transport using rw.
func NewRemote(rw io.ReadWriter) *Remote {
	return &Remote{rw: rw}
}

const frameSize = 1 + bridge.ExchangeSize

var errFrameSeq = errors.New("atecc: remote response out of sequence")

func (r *Remote) Send(p []byte) error {
	_, err := r.roundTrip(bridge.OpSend, p, len(p))
	return err
}

func (r *Remote) Recv(p []byte) (int, error) {
	resp, err := r.roundTrip(bridge.OpRecv, nil, len(p))
	if err != nil {
		return 0, err
	}
	return copy(p, resp.Out()), nil
}

func (r *Remote) roundTrip(op bridge.Op, p []byte, length int) (bridge.Exchange, error) {
	if length >= bridge.BufferSize {
		return bridge.Exchange{}, bridge.StatusBadParam
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	if r.seq == 0 {
		r.seq++
	}
	req := bridge.Exchange{Seq: r.seq, LenIn: uint16(length)}
	copy(req.Buf[:], p)
	if err := writeFrame(r.rw, uint8(op), &req); err != nil {
		return bridge.Exchange{}, err
	}

	status, resp, err := readFrame(r.rw)
	if err != nil {
		return bridge.Exchange{}, err
	}
	if resp.Seq != req.Seq {
		return bridge.Exchange{}, errFrameSeq
	}
	if err := bridge.Status(status).Err(); err != nil {
		return bridge.Exchange{}, err
	}
	return resp, nil
}

// Serve answers frames read from rw using t until rw reports io.EOF or ctx
// is done.
func Serve(ctx context.Context, rw io.ReadWriter, t Transport, l bridge.Logger) error {
	if l == nil {
		l = bridge.NullLogger()
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		op, req, err := readFrame(rw)
		if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}

		resp := bridge.Exchange{Seq: req.Seq}
		switch bridge.Op(op) {
		case bridge.OpSend:
			err = t.Send(req.In())
		case bridge.OpRecv:
			if req.LenIn >= bridge.BufferSize {
				err = bridge.StatusBadParam
				break
			}
			var n int
			n, err = t.Recv(resp.Buf[:req.LenIn])
			resp.LenOut = uint16(n)
		default:
			err = bridge.StatusUnimplemented
		}
		if err != nil {
			l.Printf("serve: %s seq %d: %v", bridge.Op(op), req.Seq, err)
		}

		status := bridge.StatusOf(err, bridge.StatusCommFail)
		if err := writeFrame(rw, uint8(status), &resp); err != nil {
			return err
		}
	}
}

func writeFrame(w io.Writer, tag uint8, rec *bridge.Exchange) error {
	body, err := rec.MarshalBinary()
	if err != nil {
		return err
	}
	b := cryptobyte.NewFixedBuilder(make([]byte, 0, frameSize))
	b.AddUint8(tag)
	b.AddBytes(body)
	frame, err := b.Bytes()
	if err != nil {
		return err
	}
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("atecc: remote write: %w", err)
	}
	return nil
}

func readFrame(r io.Reader) (uint8, bridge.Exchange, error) {
	var (
		frame [frameSize]byte
		tag   uint8
		rec   bridge.Exchange
	)
	if _, err := io.ReadFull(r, frame[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, rec, err
		}
		return 0, rec, fmt.Errorf("atecc: remote read: %w", err)
	}

	s := cryptobyte.String(frame[:])
	if !s.ReadUint8(&tag) {
		return 0, rec, errors.New("atecc: remote frame too short")
	}
	if err := rec.UnmarshalBinary(s); err != nil {
		return 0, rec, err
	}
	return tag, rec, nil
}
