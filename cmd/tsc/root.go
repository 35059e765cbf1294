package main

import (
	"fmt"
	"io"
	"log"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffval"
	"github.com/peterbourgon/tsc"
	"github.com/peterbourgon/tsc/tscfile"
)

type rootConfig struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	logLevel   string
	format     string
	configFile string

	info, debug, trace *log.Logger
}

func (cfg *rootConfig) registerBaseFlags(fs *ff.FlagSet) {
	fs.AddFlag(ff.FlagConfig{ShortName: 'l', LongName: "log" /*    */, Value: ffval.NewEnum(&cfg.logLevel, "info", "i", "debug", "d", "trace", "t", "none", "n") /* */, Usage: "log level: i/info, d/debug, t/trace, n/none" /*         */, Placeholder: "LEVEL"})
	fs.AddFlag(ff.FlagConfig{ShortName: 'f', LongName: "format" /* */, Value: ffval.NewEnum(&cfg.format, "auto", "text", "binary") /*                                 */, Usage: "input format: auto (by file extension), text, binary" /* */, Placeholder: "FORMAT"})
	fs.AddFlag(ff.FlagConfig{ShortName: 0x0, LongName: "config" /* */, Value: ffval.NewValue(&cfg.configFile) /*                                                     */, Usage: "JSON config file with flag values" /*                   */, Placeholder: "FILE", NoDefault: true})
}

func (cfg *rootConfig) validateFormat() error {
	if cfg.format == "auto" {
		return nil
	}
	if _, err := tsc.ParseFormat(cfg.format); err != nil {
		return fmt.Errorf("--format: %w", err)
	}
	return nil
}

// decodeFile decodes every trace in the file at path, using the --format flag,
// or the file extension if the flag is auto.
func (cfg *rootConfig) decodeFile(path string, fn func(tsc.Triple) error) error {
	f, err := cfg.fileFormat(path)
	if err != nil {
		return err
	}
	cfg.debug.Printf("%s: format %s", path, f)
	return tscfile.DecodeFileFormat(path, f, fn)
}

func (cfg *rootConfig) fileFormat(path string) (tsc.Format, error) {
	if cfg.format == "auto" {
		return tscfile.DetectFormat(path)
	}
	return tsc.ParseFormat(cfg.format)
}

func requireFiles(args []string) error {
	if len(args) <= 0 {
		return fmt.Errorf("at least one file is required")
	}
	return nil
}
