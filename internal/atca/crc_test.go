package atca

import "testing"

func TestCrc16(t *testing.T) {
	testCases := []struct {
		crc uint16
		in  string
	}{
		{0x0, ""},
		{0x8317, "a"},
		{0x1ce9, "abc"},
		{0x8d13, "abcdefghij"},
		{0x574, "Discard medicine more than two years old."},
		{0x6348, "C is as portable as Stonehedge!!"},
		{0x4c0c, "If the enemy is within range, then so are you."},
		// info revision command, sent as 07 30 00 00 00 03 5d
		{0x5d03, "\x07\x30\x00\x00\x00"},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			if crc := crc16([]byte(tc.in)); crc != tc.crc {
				t.Errorf("got %#x want %#x", crc, tc.crc)
			}
		})
	}
}
