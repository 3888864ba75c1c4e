package atca

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/northvolt/go-atecc-bridge/bridge"
)

// fakeDevice answers commands through a bridge callback.
type fakeDevice struct {
	b        *bridge.Bridge
	sendErrs int
	last     []byte
	reply    func(cmd []byte) []byte
}

func response(payload ...byte) []byte {
	b := append([]byte{byte(len(payload) + 3)}, payload...)
	return binary.LittleEndian.AppendUint16(b, crc16(b))
}

func (d *fakeDevice) callback(op bridge.Op, seq, length uint32) bridge.Status {
	rec, err := d.b.Request(seq)
	if err != nil {
		return bridge.StatusOf(err, bridge.StatusGenFail)
	}
	switch op {
	case bridge.OpSend:
		if d.sendErrs > 0 {
			d.sendErrs--
			return bridge.StatusCommFail
		}
		d.last = append([]byte(nil), rec.In()...)
		return bridge.StatusSuccess
	case bridge.OpRecv:
		resp := bridge.Exchange{Seq: seq}
		n := copy(resp.Buf[:length], d.reply(d.last))
		resp.LenOut = uint16(n)
		return bridge.StatusOf(d.b.PutResponse(seq, &resp), bridge.StatusGenFail)
	default:
		return bridge.StatusUnimplemented
	}
}

func newTestClient(t *testing.T, d *fakeDevice) *Client {
	t.Helper()
	d.b = bridge.New()
	if err := d.b.Register(d.callback); err != nil {
		t.Fatal(err)
	}
	cfg := bridge.ConfigATECCX08A_I2CDefault()
	cfg.WakeDelay = time.Millisecond
	iface := bridge.NewIface(&cfg, bridge.NewI2C(d.b))
	if err := iface.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { iface.Release() })

	c, err := NewClient(iface)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestRevision(t *testing.T) {
	d := &fakeDevice{
		sendErrs: 2,
		reply: func([]byte) []byte {
			return response(0x00, 0x00, 0x60, 0x02)
		},
	}
	c := newTestClient(t, d)

	rev, err := c.Revision(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{0x00, 0x00, 0x60, 0x02}; !bytes.Equal(rev, want) {
		t.Errorf("got % x, want % x", rev, want)
	}
	if want := []byte{0x03, 0x07, 0x30, 0x00, 0x00, 0x00, 0x03, 0x5d}; !bytes.Equal(d.last, want) {
		t.Errorf("device got % x, want % x", d.last, want)
	}
	if dt, err := DeviceTypeFromInfo(rev); err != nil || dt != bridge.DeviceATECC608 {
		t.Errorf("got %v, %v", dt, err)
	}
}

func TestRevisionSendFails(t *testing.T) {
	d := &fakeDevice{sendErrs: 1000}
	c := newTestClient(t, d)

	_, err := c.Revision(context.Background())
	if !errors.Is(err, bridge.StatusCommFail) {
		t.Errorf("got %v, want %v", err, bridge.StatusCommFail)
	}
}

func TestDeviceStatus(t *testing.T) {
	d := &fakeDevice{
		reply: func([]byte) []byte { return response(0x0f) },
	}
	c := newTestClient(t, d)

	if _, err := c.Revision(context.Background()); !errors.Is(err, ErrExecution) {
		t.Errorf("got %v, want %v", err, ErrExecution)
	}
}

func TestCRCMismatch(t *testing.T) {
	d := &fakeDevice{
		reply: func([]byte) []byte {
			r := response(0x00, 0x00, 0x60, 0x02)
			r[len(r)-1] ^= 0xff
			return r
		},
	}
	c := newTestClient(t, d)

	if _, err := c.Revision(context.Background()); err == nil {
		t.Error("expected crc error")
	}
}

func TestRandom(t *testing.T) {
	want := make([]byte, 32)
	for i := range want {
		want[i] = byte(i)
	}
	d := &fakeDevice{
		reply: func(cmd []byte) []byte {
			if len(cmd) < 3 || cmd[2] != opRandom {
				return response(0x03)
			}
			return response(want...)
		},
	}
	c := newTestClient(t, d)

	got := make([]byte, 48)
	if _, err := io.ReadFull(c.Random(context.Background()), got); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got[:32], want) || !bytes.Equal(got[32:], want[:16]) {
		t.Errorf("got % x", got)
	}
}

func TestCanceled(t *testing.T) {
	d := &fakeDevice{sendErrs: 1000}
	c := newTestClient(t, d)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Revision(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want %v", err, context.Canceled)
	}
}
