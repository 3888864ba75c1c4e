package atca

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/northvolt/go-atecc-bridge/bridge"
)

// Client executes commands on a device reached through an interface.
type Client struct {
	iface *bridge.Iface
	cfg   bridge.IfaceConfig
}

// NewClient returns a client for an initialized interface.
func NewClient(iface *bridge.Iface) (*Client, error) {
	cfg := iface.Config()
	if cfg == nil {
		return nil, errors.New("atecc: interface has no configuration")
	}
	return &Client{iface, *cfg}, nil
}

// Revision gets the device revision.
//
// This information is hard coded into the device. Use it to determine the
// version of the device.
func (c *Client) Revision(ctx context.Context) ([]byte, error) {
	var recv [4]byte
	p, err := newInfoCommand(infoModeRevision)
	if err != nil {
		return nil, err
	}
	n, err := c.executeResponse(ctx, p, recv[:])
	return recv[:n], err
}

// Random returns a random reader.
//
// The underlying reader reads 32 byte random data from the device at a time.
//
// Use io.ReadFull to fill a buffer.
func (c *Client) Random(ctx context.Context) io.Reader {
	return &randReader{ctx, c}
}

type randReader struct {
	ctx context.Context
	c   *Client
}

func (r *randReader) Read(b []byte) (int, error) {
	return r.c.random(r.ctx, b)
}

func (c *Client) random(ctx context.Context, dst []byte) (int, error) {
	p, err := newRandomCommand(randomModeUpdateSeed)
	if err != nil {
		return 0, err
	}

	var recv [32]byte
	n, err := c.executeResponse(ctx, p, recv[:])
	if err != nil {
		return 0, err
	} else if n != len(recv) {
		return 0, fmt.Errorf("atecc: unexpected random response size: %d", n)
	}
	return copy(dst, recv[:]), nil
}

// executeResponse executes the command and returns bytes written and error.
//
// The command is encoded and transferred to the device. It returns the number
// of bytes read into recv together with any error encountered.
func (c *Client) executeResponse(ctx context.Context, p *packet, recv []byte) (int, error) {
	b := p.encode()
	address := c.cfg.I2C.Address

	// send the command to the device
	var err error
	for i := -1; i < c.cfg.RxRetries; i++ {
		if err = c.iface.Send(address, b); err == nil {
			break
		}

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(c.cfg.WakeDelay):
		}
	}
	if err != nil {
		return 0, err
	}

	// wait for the operation to finish
	t, err := getExecutionTime(c.cfg.DeviceType, p.opcode)
	if err != nil {
		return 0, err
	}
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-time.After(t):
	}

	// make room for 1 byte size and 2 byte crc
	buf := make([]byte, len(recv)+3)
	size, err := c.iface.Receive(address, buf)
	if err != nil {
		return 0, err
	} else if size < 4 {
		return 0, errors.New("atecc: receive failed")
	}

	// response is 1 byte size, payload and 2 bytes crc
	sizedResponse, crc := buf[0:size-2], buf[size-2:size]
	if crc16(sizedResponse) != binary.LittleEndian.Uint16(crc) {
		return 0, errors.New("atecc: received crc missmatch")
	}

	// error responses are always 4 bytes long
	if size == 4 {
		if err := ValidateStatus(sizedResponse[1:]); err != nil {
			return 0, err
		}
	}

	return copy(recv, sizedResponse[1:]), nil
}
