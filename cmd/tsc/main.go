// tsc is a CLI tool for working with traces exported by package tsc.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/oklog/run"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/peterbourgon/ff/v4/ffjson"
)

func main() {
	var (
		ctx    = context.Background()
		stdin  = os.Stdin
		stdout = os.Stdout
		stderr = os.Stderr
		args   = os.Args[1:]
	)
	err := exec(ctx, stdin, stdout, stderr, args)
	switch {
	case err == nil, errors.Is(err, context.Canceled), errors.As(err, &(run.SignalError{})):
		os.Exit(0)
	case err != nil:
		fmt.Fprintf(stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func exec(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, args []string) (err error) {
	rootConfig := &rootConfig{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}

	rootFlags := ff.NewFlagSet("tsc")
	rootConfig.registerBaseFlags(rootFlags)

	rootCommand := &ff.Command{
		Name:      "tsc",
		ShortHelp: "work with traces exported by package tsc",
		Flags:     rootFlags,
	}

	// Config for `tsc text`.
	textConfig := &textConfig{rootConfig: rootConfig}
	textFlags := ff.NewFlagSet("text").SetParent(rootFlags)
	textCommand := &ff.Command{
		Name:      "text",
		Usage:     "tsc text [FLAGS] FILE...",
		ShortHelp: "print traces in the text export format",
		LongHelp:  "Decode one or more exported files, in either format, and print every trace as tag,start,stop,delta.",
		Flags:     textFlags,
		Exec:      textConfig.Exec,
	}
	rootCommand.Subcommands = append(rootCommand.Subcommands, textCommand)

	// Config for `tsc stats`.
	statsConfig := &statsConfig{rootConfig: rootConfig}
	statsFlags := ff.NewFlagSet("stats").SetParent(rootFlags)
	statsConfig.register(statsFlags)
	statsCommand := &ff.Command{
		Name:      "stats",
		Usage:     "tsc stats [FLAGS] FILE...",
		ShortHelp: "summarize traces per tag",
		LongHelp:  "Decode one or more exported files, and print count, min, mean, max, and bucketed deltas for each tag.",
		Flags:     statsFlags,
		Exec:      statsConfig.Exec,
	}
	rootCommand.Subcommands = append(rootCommand.Subcommands, statsCommand)

	// Config for `tsc load`.
	loadConfig := &loadConfig{rootConfig: rootConfig}
	loadFlags := ff.NewFlagSet("load").SetParent(rootFlags)
	loadConfig.register(loadFlags)
	loadCommand := &ff.Command{
		Name:      "load",
		Usage:     "tsc load --db URI [FLAGS] FILE...",
		ShortHelp: "bulk load traces into SQLite or ClickHouse",
		LongHelp:  "Decode one or more exported files, and insert every trace into a database table, tagged with its file name.",
		Flags:     loadFlags,
		Exec:      loadConfig.Exec,
	}
	rootCommand.Subcommands = append(rootCommand.Subcommands, loadCommand)

	// Config for `tsc sample`.
	sampleConfig := &sampleConfig{rootConfig: rootConfig}
	sampleFlags := ff.NewFlagSet("sample").SetParent(rootFlags)
	sampleConfig.register(sampleFlags)
	sampleCommand := &ff.Command{
		Name:      "sample",
		ShortHelp: "record sample traces on this machine and export them",
		LongHelp:  "Record spans and direct inserts in a pinned thread's buffer, and write the buffer in both export formats.",
		Flags:     sampleFlags,
		Exec:      sampleConfig.Exec,
	}
	rootCommand.Subcommands = append(rootCommand.Subcommands, sampleCommand)

	// Print help when appropriate.
	showHelp := true
	defer func() {
		errHelp := errors.Is(err, ff.ErrHelp) || errors.Is(err, ff.ErrNoExec)
		if showHelp || errHelp {
			fmt.Fprintf(stderr, "\n%s\n", ffhelp.Command(rootCommand))
		}
		if errHelp {
			err = nil
		}
	}()

	// Initial parsing.
	if err := rootCommand.Parse(args,
		ff.WithEnvVarPrefix("TSC"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ffjson.Parse),
	); err != nil {
		return err
	}

	// Validation and set-up.
	{
		var infodst, debugdst, tracedst io.Writer
		switch rootConfig.logLevel {
		case "n", "none":
			infodst, debugdst, tracedst = io.Discard, io.Discard, io.Discard
		case "i", "info":
			infodst, debugdst, tracedst = stderr, io.Discard, io.Discard
		case "d", "debug":
			infodst, debugdst, tracedst = stderr, stderr, io.Discard
		case "t", "trace":
			infodst, debugdst, tracedst = stderr, stderr, stderr
		default:
			return fmt.Errorf("invalid log level %q", rootConfig.logLevel)
		}
		rootConfig.info = log.New(infodst, "", 0)
		rootConfig.debug = log.New(debugdst, "[DEBUG] ", log.Lmsgprefix)
		rootConfig.trace = log.New(tracedst, "[TRACE] ", log.Lmsgprefix)
	}

	if err := rootConfig.validateFormat(); err != nil {
		return err
	}

	// Run errors shouldn't show help by default.
	showHelp = false

	// Run the selected command.
	return rootCommand.Run(ctx)
}
