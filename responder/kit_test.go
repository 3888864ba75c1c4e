package responder

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/northvolt/go-atecc-bridge/bridge"
	"github.com/northvolt/go-atecc-bridge/internal/atca"
)

func TestParseKitDevice(t *testing.T) {
	buf := []byte("ECC608B TWI 00(6C)")

	dev, err := parseKitDevice(buf)
	if err != nil {
		t.Fatal(err)
	}
	if dev.DeviceType != bridge.DeviceATECC608 {
		t.Errorf("%v != %v", dev.DeviceType, bridge.DeviceATECC608)
	}
	if dev.KitType != KitTypeI2C {
		t.Errorf("%v != %v", dev.KitType, KitTypeI2C)
	}
	if dev.Address != 0x6c {
		t.Errorf("x%0x != x%0x", dev.Address, 0x6c)
	}

	if _, err := parseKitDevice([]byte("no_device")); !errors.Is(err, errNoDevice) {
		t.Errorf("got %v, want %v", err, errNoDevice)
	}
}

// fakeKit answers kit commands the way a dev kit firmware does.
type fakeKit struct {
	size    int
	handle  func(cmd string) string
	partial []byte
	pending [][]byte
	cmds    []string
}

func (f *fakeKit) Write(p []byte) (int, error) {
	f.partial = append(f.partial, bytes.TrimRight(p, "\x00")...)
	if i := bytes.IndexByte(f.partial, '\n'); i != -1 {
		cmd := string(f.partial[:i])
		f.partial = nil
		f.cmds = append(f.cmds, cmd)

		reply := []byte(f.handle(cmd) + "\n")
		for len(reply) > 0 {
			pkt := make([]byte, f.size)
			n := copy(pkt, reply)
			reply = reply[n:]
			f.pending = append(f.pending, pkt)
		}
	}
	return len(p), nil
}

func (f *fakeKit) Read(p []byte) (int, error) {
	if len(f.pending) == 0 {
		return 0, errors.New("no reply pending")
	}
	n := copy(p, f.pending[0])
	f.pending = f.pending[1:]
	return n, nil
}

func newFakeKit() *fakeKit {
	return &fakeKit{
		size: 64,
		handle: func(cmd string) string {
			switch {
			case cmd == "board:device(00)":
				return "ECC608B TWI 00(C0)"
			case strings.HasPrefix(cmd, "board:device("):
				return "no_device"
			case cmd == "E:w()":
				return "00(04113343)"
			case strings.HasPrefix(cmd, "E:t("):
				return "00(0400AABB)"
			case cmd == "E:physical:select(C0)", cmd == "E:i()":
				return "00()"
			default:
				return "FF()"
			}
		},
	}
}

func TestKit(t *testing.T) {
	phy := newFakeKit()
	cfg := ConfigKitHIDDefault().Kit
	kit, err := NewKit(context.Background(), phy, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	b := bridge.New()
	if err := New(b, kit, nil).Register(); err != nil {
		t.Fatal(err)
	}
	iface := newIface(t, b)

	info := []byte{0x03, 0x07, 0x30, 0x00, 0x00, 0x00, 0x03, 0x5d}
	if err := iface.Send(0xc0, info); err != nil {
		t.Fatal(err)
	}
	var rx [16]byte
	n, err := iface.Receive(0xc0, rx[:])
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{0x04, 0x00, 0xaa, 0xbb}; !bytes.Equal(rx[:n], want) {
		t.Errorf("got % x, want % x", rx[:n], want)
	}

	want := []string{
		"board:device(00)",
		"E:physical:select(C0)",
		"E:w()",
		"E:t(0730000000035D)",
		"E:i()",
	}
	if strings.Join(phy.cmds, "\n") != strings.Join(want, "\n") {
		t.Errorf("got commands %q, want %q", phy.cmds, want)
	}
}

func TestKitNoDevice(t *testing.T) {
	phy := newFakeKit()
	phy.handle = func(string) string { return "no_device" }
	if _, err := NewKit(context.Background(), phy, ConfigKitHIDDefault().Kit, nil); err == nil {
		t.Error("expected discovery to fail")
	}
}

func TestKitParseRsp(t *testing.T) {
	var dst [4]byte
	if _, err := kitParseRsp([]byte("FF()"), dst[:]); !errors.Is(err, atca.ErrCRC) {
		t.Errorf("got %v, want %v", err, atca.ErrCRC)
	}
	if _, err := kitParseRsp([]byte("00(0102030405)"), dst[:]); !errors.Is(err, errRecvBuffer) {
		t.Errorf("got %v, want %v", err, errRecvBuffer)
	}
}
