package responder

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

// I2C delivers traffic to a device on an I²C bus.
type I2C struct {
	dev *i2c.Dev
}

// NewI2C returns a transport for the device at the 8-bit address on bus.
func NewI2C(bus i2c.Bus, address uint8) *I2C {
	return &I2C{&i2c.Dev{Bus: bus, Addr: uint16(address >> 1)}}
}

func (t *I2C) String() string {
	return t.dev.String()
}

func (t *I2C) Send(p []byte) error {
	if err := t.dev.Tx(p, nil); err != nil {
		return fmt.Errorf("atecc: i2c write: %w", err)
	}
	return nil
}

var errInvalidCount = errors.New("atecc: invalid response count")

// Recv reads the count byte of a response followed by the rest of it.
func (t *I2C) Recv(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, errInvalidCount
	}
	if err := t.dev.Tx(nil, p[:1]); err != nil {
		return 0, fmt.Errorf("atecc: i2c read count: %w", err)
	}

	n := int(p[0])
	if n < 1 || n > len(p) {
		return 0, errInvalidCount
	}
	if n > 1 {
		if err := t.dev.Tx(nil, p[1:n]); err != nil {
			return 0, fmt.Errorf("atecc: i2c read: %w", err)
		}
	}
	return n, nil
}
