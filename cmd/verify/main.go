// Package main provides the verify command. It checks files against the
// hashes kept in the record store, or lists the store, recovering every
// recorded path from its record filename.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/isseis/go-path-filename/internal/cmdcommon"
	"github.com/isseis/go-path-filename/internal/filevalidator"
)

var errNoFilesProvided = errors.New("at least one file path must be provided, or --list or --all")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs, flags := cmdcommon.NewFlagSet("verify", stderr)
	list := fs.Bool("list", false, "list recorded files instead of verifying")
	all := fs.Bool("all", false, "verify every recorded file")
	fs.Usage = func() { cmdcommon.PrintUsage(fs, stderr, "<file>... | --list | --all") }

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
	if len(files) == 0 && !*list && !*all {
		fs.Usage()
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", errNoFilesProvided)
		return cmdcommon.ExitFailure
	}

	env, err := cmdcommon.Setup(flags, stderr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return cmdcommon.ExitFailure
	}

	validator, err := env.CreateValidator()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error creating validator: %v\n", err)
		return cmdcommon.Finish(env, cmdcommon.ExitFailure, stderr)
	}

	var code int
	switch {
	case *list:
		code = listRecords(env, stdout, stderr)
	case *all:
		code = verifyRecorded(validator, stdout, stderr)
	default:
		code = verifyFiles(validator, files, stdout, stderr)
	}
	return cmdcommon.Finish(env, code, stderr)
}

func verifyFiles(validator filevalidator.FileValidator, files []string, stdout, stderr io.Writer) int {
	code := cmdcommon.ExitOK
	for _, file := range files {
		if err := validator.Verify(file); err != nil {
			_, _ = fmt.Fprintf(stderr, "Verification failed: %s: %v\n", file, err)
			code = cmdcommon.ExitFailure
			continue
		}
		_, _ = fmt.Fprintf(stdout, "OK: %s\n", file)
	}
	return code
}

func verifyRecorded(validator *filevalidator.Validator, stdout, stderr io.Writer) int {
	results, err := validator.VerifyRecorded()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return cmdcommon.ExitFailure
	}

	failures := 0
	for _, r := range results {
		if r.Err != nil {
			failures++
			name := r.Path
			if name == "" {
				name = r.HashFile
			}
			_, _ = fmt.Fprintf(stderr, "Verification failed: %s: %v\n", name, r.Err)
			continue
		}
		_, _ = fmt.Fprintf(stdout, "OK: %s\n", r.Path)
	}
	_, _ = fmt.Fprintf(stdout, "\nSummary: %d verified, %d failed\n", len(results)-failures, failures)
	if failures > 0 {
		return cmdcommon.ExitFailure
	}
	return cmdcommon.ExitOK
}

func listRecords(env *cmdcommon.Env, stdout, stderr io.Writer) int {
	store, err := env.OpenStore()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return cmdcommon.ExitFailure
	}
	entries, err := store.List()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return cmdcommon.ExitFailure
	}

	code := cmdcommon.ExitOK
	for _, e := range entries {
		if e.Err != nil {
			_, _ = fmt.Fprintf(stderr, "Unreadable record %s: %v\n", filepath.Join(store.Dir(), e.Filename), e.Err)
			code = cmdcommon.ExitFailure
			continue
		}
		marker := ""
		if e.IsFallback {
			marker = " (hashed name)"
		}
		_, _ = fmt.Fprintf(stdout, "%s\t%s%s\n", e.Path, e.Filename, marker)
	}
	return code
}
