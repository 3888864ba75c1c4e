package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestPrettyHexIndent(t *testing.T) {
	testCases := []struct {
		name   string
		in     []byte
		prefix string
		space  string
		want   string
	}{
		{"empty", []byte{}, "  ", "", ""},
		{"one", []byte{0x00}, "  ", "", "  00"},
		{"two", []byte{0x00, 0x01}, "  ", "", "  00 01"},
		{"three", []byte{0x00, 0x01, 0x02}, "    ", "", "    00 01 02"},
		{
			"big", bytes.Repeat([]byte{0x00}, 32), "    ", "",
			"    00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00\n" +
				"    00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00",
		},
		{
			"space", bytes.Repeat([]byte{0xab}, 32), "    ", " ",
			"    AB AB AB AB AB AB AB AB  AB AB AB AB AB AB AB AB\n" +
				"    AB AB AB AB AB AB AB AB  AB AB AB AB AB AB AB AB",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := prettyHexIndent(tc.in, tc.prefix, tc.space)
			if got != tc.want {
				t.Errorf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestGetI2CAddress(t *testing.T) {
	testCases := []struct {
		in    string
		trust bool
		want  uint16
	}{
		{"", false, defaultI2CAddress},
		{"0x60", false, 0x60},
		{"35", false, 0x35},
		{"0xc0", true, 0x60},
	}
	for _, tc := range testCases {
		got, err := getI2CAddress(tc.in, tc.trust)
		if err != nil {
			t.Errorf("%q: %v", tc.in, err)
		} else if got != tc.want {
			t.Errorf("%q: got %#x, want %#x", tc.in, got, tc.want)
		}
	}
	if _, err := getI2CAddress("0x1ff", false); err == nil {
		t.Error("expected error for address out of range")
	}
}

func TestGetHIDDeviceIdentity(t *testing.T) {
	if id, err := getHIDDeviceIdentity("tflxtls", false); err != nil || id != 0x6c {
		t.Errorf("got %#x, %v", id, err)
	}
	if id, err := getHIDDeviceIdentity("0x6a", true); err != nil || id != 0x6a {
		t.Errorf("got %#x, %v", id, err)
	}
	if id, err := getHIDDeviceIdentity("", false); err != nil || id != defaultDeviceIdentity {
		t.Errorf("got %#x, %v", id, err)
	}
}

func TestParseHex(t *testing.T) {
	got, err := parseHex("0x03 07 30:00")
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{0x03, 0x07, 0x30, 0x00}; !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}
	if _, err := parseHex("zz"); err == nil {
		t.Error("expected error")
	}
}

func TestExchangeLoopback(t *testing.T) {
	var out, errOut bytes.Buffer
	cfg := exchangeConfig{
		rootConfig: &rootConfig{iface: "loopback"},
		out:        &out,
		err:        &errOut,
		max:        16,
	}
	if err := cfg.Exec(context.Background(), []string{"04 01 02 03"}); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != "04 01 02 03" {
		t.Errorf("got %q", got)
	}
}
