// Package main provides the tofilename command. It prints the single
// filename component that encodes each path given on the command line.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/isseis/go-path-filename/internal/cmdcommon"
	"github.com/isseis/go-path-filename/internal/pathname"
)

var errNoPathsProvided = errors.New("at least one path must be provided (use - to read paths from standard input)")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs, flags := cmdcommon.NewFlagSet("tofilename", stderr)
	analyze := fs.Bool("analyze", false, "print a JSON analysis of each encoding instead of the bare filename")
	fs.Usage = func() { cmdcommon.PrintUsage(fs, stderr, "<path>... | -") }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return cmdcommon.ExitOK
		}
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return cmdcommon.ExitUsage
	}

	paths, err := cmdcommon.ReadArgs(fs.Args())
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return cmdcommon.ExitFailure
	}
	if len(paths) == 0 {
		fs.Usage()
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", errNoPathsProvided)
		return cmdcommon.ExitUsage
	}

	env, err := cmdcommon.Setup(flags, stderr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return cmdcommon.ExitFailure
	}

	codec := env.Codec()
	enc := json.NewEncoder(stdout)
	enc.SetEscapeHTML(false)

	failures := 0
	for _, path := range paths {
		name, err := codec.ToFilename(path)
		env.Metrics.ObserveEncode(err)
		if err != nil {
			failures++
			slog.Error("Encoding failed", slog.String("path", path), slog.Any("error", err))
			continue
		}

		if *analyze {
			if err := enc.Encode(pathname.Analyze(path)); err != nil {
				_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
				return cmdcommon.Finish(env, cmdcommon.ExitFailure, stderr)
			}
			continue
		}
		_, _ = fmt.Fprintln(stdout, name)
		slog.Debug("Encoded path", slog.String("path", path), slog.String("filename", name))
	}

	code := cmdcommon.ExitOK
	if failures > 0 {
		code = cmdcommon.ExitFailure
	}
	return cmdcommon.Finish(env, code, stderr)
}
