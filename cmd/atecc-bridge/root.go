package main

import (
	"context"
	"flag"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
)

const envVarPrefix = "ATECC_BRIDGE"

type rootConfig struct {
	verbose             bool
	iface               string
	bus                 int
	addr                string
	baud                int64
	remote              string
	trustPlatformFormat bool
	devIndex            int
	devIdentity         string
}

func (c *rootConfig) registerFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.verbose, "v", false, "increase log verbosity")
	fs.StringVar(&c.iface, "i", "i2c", "responder type, i2c, hid, loopback or remote")
	fs.IntVar(&c.bus, "bus", 0, "i2c bus to use")
	fs.StringVar(&c.addr, "addr", "", "i2c address in hex")
	fs.Int64Var(&c.baud, "baud", 0, "i2c bus speed in Hz, 0 keeps the bus default")
	fs.StringVar(&c.remote, "remote", "localhost:7060", "address of the bridge server for the remote responder")
	fs.IntVar(&c.devIndex, "dev-index", 0, "device index when enumerating")
	fs.StringVar(&c.devIdentity, "dev-identity", "", "device identity is the I2C address or the bus number for the SWI interface device")
	fs.BoolVar(&c.trustPlatformFormat, "trust-platform-format", false, "use cryptoauthlib trust platform format instead of default common format")
}

func (c *rootConfig) Exec(context.Context, []string) error {
	return flag.ErrHelp
}

func newRootCmd() (*ffcli.Command, *rootConfig) {
	var cfg rootConfig

	fs := flag.NewFlagSet("atecc-bridge", flag.ExitOnError)
	cfg.registerFlags(fs)

	return addLongHelp(&ffcli.Command{
		Name:       "atecc-bridge",
		ShortUsage: "atecc-bridge [flags] <subcommand>",
		ShortHelp:  "Talk to an ATECC device through the callback bridge.",
		FlagSet:    fs,
		Options:    ffOptions(),
		Exec:       cfg.Exec,
	}), &cfg
}

// ffOptions lets every flag be set from the environment, e.g. -bus as
// ATECC_BRIDGE_BUS.
func ffOptions() []ff.Option {
	return []ff.Option{ff.WithEnvVarPrefix(envVarPrefix)}
}

var ateccLongHelp = `

GENERAL
The responder selected with -i delivers the traffic:

  i2c        local I²C bus, see -bus, -addr and -baud
  hid        Trust Platform or CryptoAuth dev kit over USB
  remote     bridge server started with "atecc-bridge serve", see -remote
  loopback   returns every request as its response

If you use one of the dev kits with multiple secure elements, specify the device
identity to choose a specific element. Specify it similar to a I²C address or
use one of the common names for the configurations:

  TNGTLS     0x35 (0x6a)
  TFLXTLS    0x36 (0x6c)
  MAHDA      0x60 (0xc0)

Flags can also be set with environment variables prefixed ATECC_BRIDGE_, e.g.
ATECC_BRIDGE_BUS=1.`
