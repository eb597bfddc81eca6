// Package main provides the topath command. It converts filenames produced
// by tofilename back into the paths they encode.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/isseis/go-path-filename/internal/cmdcommon"
	"github.com/isseis/go-path-filename/internal/metrics"
)

var errNoFilenamesProvided = errors.New("at least one filename must be provided (use - to read filenames from standard input)")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs, flags := cmdcommon.NewFlagSet("topath", stderr)
	fs.Usage = func() { cmdcommon.PrintUsage(fs, stderr, "<filename>... | -") }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return cmdcommon.ExitOK
		}
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return cmdcommon.ExitUsage
	}

	names, err := cmdcommon.ReadArgs(fs.Args())
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return cmdcommon.ExitFailure
	}
	if len(names) == 0 {
		fs.Usage()
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", errNoFilenamesProvided)
		return cmdcommon.ExitUsage
	}

	env, err := cmdcommon.Setup(flags, stderr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return cmdcommon.ExitFailure
	}

	codec := env.Codec()
	failures := 0
	for _, name := range names {
		path, err := codec.ToPath(name)
		env.Metrics.ObserveDecode(err)
		if err != nil {
			failures++
			slog.Error("Decoding failed",
				slog.String("filename", name),
				slog.String("kind", metrics.ErrorKind(err)),
				slog.Any("error", err))
			continue
		}
		_, _ = fmt.Fprintln(stdout, path)
	}

	code := cmdcommon.ExitOK
	if failures > 0 {
		code = cmdcommon.ExitFailure
	}
	return cmdcommon.Finish(env, code, stderr)
}
