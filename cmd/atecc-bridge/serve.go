package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/northvolt/go-atecc-bridge/responder"
	"github.com/peterbourgon/ff/v3/ffcli"
)

type serveConfig struct {
	rootConfig *rootConfig
	err        io.Writer
	listen     string
}

// Exec serves remote bridges using the local responder. Connections are
// served one at a time.
func (c *serveConfig) Exec(ctx context.Context, _ []string) error {
	if c.rootConfig.iface == "remote" {
		return errors.New("atecc: serve needs a local interface")
	}

	t, closer, err := newTransport(ctx, c.rootConfig)
	if err != nil {
		return err
	}
	defer closer.Close()

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", c.listen)
	if err != nil {
		return err
	}
	defer ln.Close()
	if c.rootConfig.verbose {
		fmt.Fprintln(c.err, "listening on", ln.Addr())
	}

	var wg sync.WaitGroup
	defer wg.Wait()
	stop := make(chan struct{})
	defer close(stop)
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
			ln.Close()
		case <-stop:
		}
	}()

	l := newLogger(c.rootConfig.verbose)
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		if c.rootConfig.verbose {
			fmt.Fprintln(c.err, "serving", conn.RemoteAddr())
		}

		done := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				conn.Close()
			case <-done:
			}
		}()
		err = responder.Serve(ctx, conn, t, l)
		close(done)
		conn.Close()
		if err != nil && ctx.Err() == nil {
			fmt.Fprintf(c.err, "serve %s: %v\n", conn.RemoteAddr(), err)
		}
	}
}

func newServeCmd(rootConfig *rootConfig, err io.Writer) *ffcli.Command {
	cfg := serveConfig{
		rootConfig: rootConfig,
		err:        err,
	}

	fs := flag.NewFlagSet("atecc-bridge serve", flag.ExitOnError)
	fs.StringVar(&cfg.listen, "listen", ":7060", "address to accept remote bridges on")
	rootConfig.registerFlags(fs)

	return addLongHelp(&ffcli.Command{
		Name:       "serve",
		ShortUsage: "serve [flags]",
		ShortHelp:  "Serves remote bridges using the local device.",
		FlagSet:    fs,
		Options:    ffOptions(),
		Exec:       cfg.Exec,
	})
}
