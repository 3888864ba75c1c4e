package bridge

import (
	"errors"

	"golang.org/x/crypto/cryptobyte"
)

// BufferSize is the capacity of the exchange payload buffer.
//
// Valid request and response lengths are 1 to BufferSize-1.
const BufferSize = 256

// ExchangeSize is the size of a marshaled Exchange.
const ExchangeSize = 4 + 2 + 2 + BufferSize

// Exchange carries one request or response between a Bridge and its
// callback.
type Exchange struct {
	// Seq is the sequence number of the request this record belongs to.
	Seq uint32
	// LenIn is the number of request bytes in Buf.
	//
	// For a receive it is the maximum number of bytes the caller accepts.
	LenIn uint16
	// LenOut is the number of response bytes in Buf.
	LenOut uint16
	// Buf holds the payload.
	Buf [BufferSize]byte
}

// In returns the request payload.
func (e *Exchange) In() []byte {
	return e.Buf[:clampLen(e.LenIn)]
}

// Out returns the response payload.
func (e *Exchange) Out() []byte {
	return e.Buf[:clampLen(e.LenOut)]
}

func clampLen(n uint16) int {
	if int(n) > BufferSize {
		return BufferSize
	}
	return int(n)
}

// MarshalBinary encodes the record in big endian byte order.
func (e *Exchange) MarshalBinary() ([]byte, error) {
	b := cryptobyte.NewFixedBuilder(make([]byte, 0, ExchangeSize))
	b.AddUint32(e.Seq)
	b.AddUint16(e.LenIn)
	b.AddUint16(e.LenOut)
	b.AddBytes(e.Buf[:])
	return b.Bytes()
}

var errExchangeSize = errors.New("atecc: invalid exchange record size")

// UnmarshalBinary decodes a record encoded by MarshalBinary.
func (e *Exchange) UnmarshalBinary(data []byte) error {
	var rec Exchange
	s := cryptobyte.String(data)
	if !s.ReadUint32(&rec.Seq) ||
		!s.ReadUint16(&rec.LenIn) ||
		!s.ReadUint16(&rec.LenOut) ||
		!s.CopyBytes(rec.Buf[:]) ||
		!s.Empty() {
		return errExchangeSize
	}
	*e = rec
	return nil
}
