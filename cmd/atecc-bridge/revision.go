package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/northvolt/go-atecc-bridge/internal/atca"
	"github.com/peterbourgon/ff/v3/ffcli"
)

type revisionConfig struct {
	rootConfig *rootConfig
	out        io.Writer
	err        io.Writer
}

func (c *revisionConfig) Exec(ctx context.Context, _ []string) error {
	if c.rootConfig.verbose {
		fmt.Fprintln(c.err, "revision")
	}

	d, closer, err := newClient(ctx, c.rootConfig)
	if err != nil {
		return err
	}
	defer closer.Close()

	rev, err := d.Revision(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Revision:\n%s\n", prettyHex(rev))
	if deviceType, err := atca.DeviceTypeFromInfo(rev); err == nil {
		fmt.Fprintf(c.out, "\nDevice Part:\n    %s\n", deviceType)
	} else if c.rootConfig.verbose {
		fmt.Fprintln(c.err, err)
	}
	return nil
}

func newRevisionCmd(rootConfig *rootConfig, out io.Writer, err io.Writer) *ffcli.Command {
	cfg := revisionConfig{
		rootConfig: rootConfig,
		out:        out,
		err:        err,
	}

	fs := flag.NewFlagSet("atecc-bridge revision", flag.ExitOnError)
	rootConfig.registerFlags(fs)

	return addLongHelp(&ffcli.Command{
		Name:       "revision",
		ShortUsage: "revision",
		ShortHelp:  "Reads the device revision through the bridge.",
		FlagSet:    fs,
		Options:    ffOptions(),
		Exec:       cfg.Exec,
	})
}
