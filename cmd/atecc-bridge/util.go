package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/northvolt/go-atecc-bridge/bridge"
	"github.com/northvolt/go-atecc-bridge/internal/atca"
	"github.com/northvolt/go-atecc-bridge/responder"
	"github.com/peterbourgon/ff/v3/ffcli"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

const (
	defaultI2CAddress     = 0x60
	defaultDeviceIdentity = 0
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// newTransport opens the responder transport selected by c.iface.
func newTransport(ctx context.Context, c *rootConfig) (responder.Transport, io.Closer, error) {
	switch c.iface {
	case "i2c":
		return newI2CTransport(c)
	case "hid":
		return newHIDTransport(ctx, c)
	case "loopback":
		return &responder.Loopback{}, closerFunc(func() error { return nil }), nil
	case "remote":
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", c.remote)
		if err != nil {
			return nil, nil, fmt.Errorf("atecc: failed to connect to remote: %w", err)
		}
		return responder.NewRemote(conn), conn, nil
	default:
		return nil, nil, errors.New("atecc: unknown interface")
	}
}

func newI2CTransport(c *rootConfig) (responder.Transport, io.Closer, error) {
	address, err := getI2CAddress(c.addr, c.trustPlatformFormat)
	if err != nil {
		return nil, nil, err
	}

	if _, err = host.Init(); err != nil {
		return nil, nil, err
	}
	bus, err := i2creg.Open(strconv.Itoa(c.bus))
	if err != nil {
		return nil, nil, fmt.Errorf("atecc: failed to connect to bus: %w", err)
	}
	if c.baud > 0 {
		if err := bus.SetSpeed(physic.Frequency(c.baud) * physic.Hertz); err != nil {
			bus.Close()
			return nil, nil, fmt.Errorf("atecc: failed to set bus speed: %w", err)
		}
	}
	return responder.NewI2C(bus, uint8(address<<1)), bus, nil
}

func newHIDTransport(ctx context.Context, c *rootConfig) (responder.Transport, io.Closer, error) {
	identity, err := getHIDDeviceIdentity(c.devIdentity, c.trustPlatformFormat)
	if err != nil {
		return nil, nil, err
	}

	cfg := responder.ConfigKitHIDDefault()
	cfg.Kit.DevIndex = c.devIndex
	cfg.Kit.DevIdentity = identity

	return responder.OpenHID(ctx, cfg, newLogger(c.verbose))
}

// newIface registers a responder for the selected transport on a new bridge
// and returns an initialized interface on top of it.
func newIface(ctx context.Context, c *rootConfig) (*bridge.Iface, io.Closer, error) {
	address, err := getI2CAddress(c.addr, c.trustPlatformFormat)
	if err != nil {
		return nil, nil, err
	}

	t, closer, err := newTransport(ctx, c)
	if err != nil {
		return nil, nil, err
	}

	l := newLogger(c.verbose)
	b := bridge.New(bridge.WithLogger(l))
	if err := responder.New(b, t, l).Register(); err != nil {
		closer.Close()
		return nil, nil, err
	}

	cfg := bridge.ConfigATECCX08A_I2CDefault()
	cfg.Debug = l
	cfg.I2C.Bus = c.bus
	cfg.I2C.Address = uint8(address << 1)
	if c.baud > 0 {
		cfg.I2C.Baud = uint32(c.baud)
	}

	iface := bridge.NewIface(&cfg, bridge.NewI2C(b))
	if err := iface.Init(); err != nil {
		closer.Close()
		return nil, nil, err
	}

	return iface, closerFunc(func() error {
		return errors.Join(iface.Release(), closer.Close())
	}), nil
}

func newClient(ctx context.Context, c *rootConfig) (*atca.Client, io.Closer, error) {
	iface, closer, err := newIface(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	client, err := atca.NewClient(iface)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	return client, closer, nil
}

func getI2CAddress(addrStr string, trustPlatformFormat bool) (uint16, error) {
	if addrStr == "" {
		return defaultI2CAddress, nil
	}
	addr, err := strconv.ParseUint(strings.TrimPrefix(addrStr, "0x"), 16, 8)
	if err != nil {
		return 0, err
	}

	if trustPlatformFormat {
		return uint16(addr >> 1), nil
	} else {
		return uint16(addr), nil
	}
}

func hidDeviceIdentityToString(idStr string) (uint16, error) {
	switch strings.ToUpper(idStr) {
	case "TNGTLS":
		return 0x35, nil
	case "TFLXTLS":
		return 0x36, nil
	case "MAHDA":
		return 0x60, nil
	default:
		return 0, errors.New("atecc: unknown HID device identity")
	}
}

func getHIDDeviceIdentity(idStr string, trustPlatformFormat bool) (uint8, error) {
	if idStr == "" {
		return defaultDeviceIdentity, nil
	}
	id, err := hidDeviceIdentityToString(idStr)
	if err != nil {
		id64, err := strconv.ParseUint(strings.TrimPrefix(idStr, "0x"), 16, 16)
		if err != nil {
			return 0, err
		}
		id = uint16(id64)
	}

	if trustPlatformFormat {
		return uint8(id), nil
	} else {
		return uint8(id << 1), nil
	}
}

func prettyHex(data []byte) string {
	return prettyHexIndent(data, "    ", "")
}

func prettyHexIndent(data []byte, prefix string, space string) string {
	var buf strings.Builder

	// prefix and space every 16 byte, and 2 hex, and one space/newline
	cols := 16
	size := (len(data)/cols+1)*(len(prefix)+len(space)+1) + len(data)*3
	buf.Grow(size)

	for i := range data {
		if i > 0 {
			switch i % cols {
			case 0:
				buf.WriteByte('\n')
			case cols / 2:
				buf.WriteByte(' ')
				buf.WriteString(space)
			default:
				buf.WriteByte(' ')
			}
		}
		if i%cols == 0 {
			buf.WriteString(prefix)
		}

		fmt.Fprintf(&buf, "%02X", data[i])
	}

	return buf.String()
}

func addLongHelp(cmd *ffcli.Command) *ffcli.Command {
	if cmd.LongHelp == "" {
		cmd.LongHelp = cmd.ShortHelp
	}

	cmd.LongHelp += ateccLongHelp

	return cmd
}

func newLogger(verbose bool) bridge.Logger {
	if verbose {
		return log.New(os.Stderr, "", 0)
	} else {
		return nil
	}
}
