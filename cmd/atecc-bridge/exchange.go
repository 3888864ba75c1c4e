package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/peterbourgon/ff/v3/ffcli"
)

type exchangeConfig struct {
	rootConfig *rootConfig
	out        io.Writer
	err        io.Writer
	max        int
	wait       time.Duration
}

func (c *exchangeConfig) Exec(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("atecc: exchange takes one hex encoded request")
	}
	req, err := parseHex(args[0])
	if err != nil {
		return err
	}
	if c.rootConfig.verbose {
		fmt.Fprintf(c.err, "exchange\n%s\n", prettyHex(req))
	}

	iface, closer, err := newIface(ctx, c.rootConfig)
	if err != nil {
		return err
	}
	defer closer.Close()

	address := iface.Config().I2C.Address
	if err := iface.Send(address, req); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.wait):
	}

	rx := make([]byte, c.max)
	n, err := iface.Receive(address, rx)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, prettyHex(rx[:n]))
	return nil
}

// parseHex decodes hex ignoring whitespace, colons and a 0x prefix.
func parseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	s = strings.NewReplacer(" ", "", ":", "", "\n", "", "\t", "").Replace(s)
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("atecc: invalid request: %w", err)
	}
	return b, nil
}

func newExchangeCmd(rootConfig *rootConfig, out io.Writer, err io.Writer) *ffcli.Command {
	cfg := exchangeConfig{
		rootConfig: rootConfig,
		out:        out,
		err:        err,
	}

	fs := flag.NewFlagSet("atecc-bridge exchange", flag.ExitOnError)
	fs.IntVar(&cfg.max, "max", 64, "maximum response size in bytes, below 256")
	fs.DurationVar(&cfg.wait, "wait", 50*time.Millisecond, "time to wait between send and receive")
	rootConfig.registerFlags(fs)

	return addLongHelp(&ffcli.Command{
		Name:       "exchange",
		ShortUsage: "exchange [flags] <hex>",
		ShortHelp:  "Sends a raw request and prints the raw response.",
		LongHelp: "Sends a raw request and prints the raw response.\n\n" +
			"The request is written as is, e.g. 03 07 30 00 00 00 03 5D reads the\n" +
			"revision of an ATECC608. The response must start with its own length.",
		FlagSet: fs,
		Options: ffOptions(),
		Exec:    cfg.Exec,
	})
}
