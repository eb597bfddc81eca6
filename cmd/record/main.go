// Package main provides the record command. It records file hashes in the
// record store, one manifest per file named after the file's path.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/isseis/go-path-filename/internal/cmdcommon"
)

var (
	errNoFilesProvided = errors.New("at least one file path must be provided as a positional argument")
	validatorFactory   = func(env *cmdcommon.Env) (hashRecorder, error) {
		return env.CreateValidator()
	}
)

type hashRecorder interface {
	Record(filePath string, force bool) (string, error)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs, flags := cmdcommon.NewFlagSet("record", stderr)
	force := fs.BoolP("force", "f", false, "overwrite existing hash records")
	fs.Usage = func() { cmdcommon.PrintUsage(fs, stderr, "<file> [<file>...]") }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return cmdcommon.ExitOK
		}
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return cmdcommon.ExitUsage
	}

	files, err := cmdcommon.ReadArgs(fs.Args())
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return cmdcommon.ExitFailure
	}
	if len(files) == 0 {
		fs.Usage()
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", errNoFilesProvided)
		return cmdcommon.ExitFailure
	}

	env, err := cmdcommon.Setup(flags, stderr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return cmdcommon.ExitFailure
	}

	recorder, err := validatorFactory(env)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error creating validator: %v\n", err)
		return cmdcommon.Finish(env, cmdcommon.ExitFailure, stderr)
	}

	return cmdcommon.Finish(env, processFiles(recorder, files, *force, stdout, stderr), stderr)
}

func processFiles(recorder hashRecorder, files []string, force bool, stdout, stderr io.Writer) int {
	total := len(files)
	label := "files"
	if total == 1 {
		label = "file"
	}
	_, _ = fmt.Fprintf(stdout, "Processing %d %s...\n", total, label)
	successes := 0
	failures := 0

	for idx, filePath := range files {
		_, _ = fmt.Fprintf(stdout, "[%d/%d] %s: ", idx+1, total, filePath)
		hashFile, err := recorder.Record(filePath, force)
		if err != nil {
			failures++
			_, _ = fmt.Fprintln(stdout, "FAILED")
			_, _ = fmt.Fprintf(stderr, "Error recording hash for %s: %v\n", filePath, err)
			continue
		}
		successes++
		_, _ = fmt.Fprintf(stdout, "OK (%s)\n", hashFile)
	}

	_, _ = fmt.Fprintf(stdout, "\nSummary: %d succeeded, %d failed\n", successes, failures)
	if failures > 0 {
		return cmdcommon.ExitFailure
	}
	return cmdcommon.ExitOK
}
