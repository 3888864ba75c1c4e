package bridge

import (
	"bytes"
	"fmt"
	"testing"
)

func TestHexDump(t *testing.T) {
	want := "h -> \n00000000  66 6f 6f 62 61 72                                 |foobar|\n\n <- h"
	got := fmt.Sprintf("h -> %s <- h", HexDump([]byte("foobar")))
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestExchangeBinary(t *testing.T) {
	in := Exchange{Seq: 0x01020304, LenIn: 0x0506, LenOut: 0x0708}
	in.Buf[0] = 0xaa
	in.Buf[BufferSize-1] = 0xbb

	b, err := in.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != ExchangeSize {
		t.Fatalf("got %d bytes, want %d", len(b), ExchangeSize)
	}
	header := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0xaa}
	if !bytes.HasPrefix(b, header) || b[len(b)-1] != 0xbb {
		t.Errorf("unexpected encoding:%s", HexDump(b))
	}

	var out Exchange
	if err := out.UnmarshalBinary(b); err != nil {
		t.Fatal(err)
	}
	if out != in {
		t.Errorf("got %+v, want %+v", out.Out(), in.Out())
	}

	if err := out.UnmarshalBinary(b[:ExchangeSize-1]); err == nil {
		t.Error("short record decoded")
	}
}
