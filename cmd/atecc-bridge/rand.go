package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/peterbourgon/ff/v3/ffcli"
)

type randConfig struct {
	rootConfig *rootConfig
	out        io.Writer
	err        io.Writer
	bytes      int64
	timeout    time.Duration
	hex        bool
}

func (c *randConfig) Exec(ctx context.Context, _ []string) error {
	if c.rootConfig.verbose {
		fmt.Fprintf(c.err, "random via %s responder\n", c.rootConfig.iface)
	}

	d, closer, err := newClient(ctx, c.rootConfig)
	if err != nil {
		return err
	}
	defer closer.Close()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	out := c.out
	if c.hex {
		dumper := hex.Dumper(c.out)
		defer dumper.Close()
		out = dumper
	}

	var written int64
	r := d.Random(ctx)
	if c.bytes > 0 {
		written, err = io.CopyN(out, r, c.bytes)
	} else {
		written, err = io.Copy(out, r)
	}
	if err != nil {
		return err
	}
	if c.rootConfig.verbose {
		fmt.Fprintf(c.err, "wrote %d bytes in %d exchanges\n", written, 2*((written+31)/32))
	}

	return nil
}

func newRandCmd(rootConfig *rootConfig, out io.Writer, err io.Writer) *ffcli.Command {
	cfg := randConfig{
		rootConfig: rootConfig,
		out:        out,
		err:        err,
	}

	fs := flag.NewFlagSet("atecc-bridge random", flag.ExitOnError)
	fs.Int64Var(&cfg.bytes, "bytes", 0, "maximum bytes to read")
	fs.DurationVar(&cfg.timeout, "timeout", 0, "maximum time to read eg 1s, 500ms")
	fs.BoolVar(&cfg.hex, "hex", false, "write a hex dump instead of raw bytes")
	rootConfig.registerFlags(fs)

	return &ffcli.Command{
		Name:       "random",
		ShortUsage: "random [flags]",
		ShortHelp:  "Reads random bytes from the device through the bridge.",
		LongHelp: "Reads random bytes from the device through the bridge.\n\n" +
			"Every 32 bytes cost one send and one receive exchange. The output is\n" +
			"raw bytes unless -hex is given.",
		FlagSet: fs,
		Options: ffOptions(),
		Exec:    cfg.Exec,
	}
}
