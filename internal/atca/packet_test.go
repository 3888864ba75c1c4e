package atca

import (
	"bytes"
	"testing"
)

func TestPacketEncode(t *testing.T) {
	p, err := newInfoCommand(infoModeRevision)
	if err != nil {
		t.Fatal(err)
	}
	if p.Size() != 7 {
		t.Errorf("got size %d, want 7", p.Size())
	}
	want := []byte{0x03, 0x07, 0x30, 0x00, 0x00, 0x00, 0x03, 0x5d}
	if got := p.encode(); !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
}

func TestPacketTooLarge(t *testing.T) {
	if _, err := newPacket(opInfo, 0, 0, make([]byte, cmdSizeMax)); err == nil {
		t.Error("expected error for oversized data")
	}
}

func TestDeviceTypeFromInfo(t *testing.T) {
	if _, err := DeviceTypeFromInfo([]byte{0x00, 0x00, 0x60, 0x02}); err != nil {
		t.Error(err)
	}
	if _, err := DeviceTypeFromInfo([]byte{0x00, 0x00, 0x50, 0x00}); err == nil {
		t.Error("expected unknown revision")
	}
	if _, err := DeviceTypeFromInfo([]byte{0x00}); err == nil {
		t.Error("expected short revision error")
	}
}
