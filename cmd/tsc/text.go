package main

import (
	"bufio"
	"context"
	"fmt"

	"github.com/peterbourgon/tsc"
)

type textConfig struct {
	*rootConfig
}

func (cfg *textConfig) Exec(ctx context.Context, args []string) error {
	if err := requireFiles(args); err != nil {
		return err
	}

	bw := bufio.NewWriter(cfg.stdout)
	line := make([]byte, 0, 128)

	for _, path := range args {
		var n int
		if err := cfg.decodeFile(path, func(tr tsc.Triple) error {
			n++
			line = tr.AppendText(line[:0])
			_, err := bw.Write(line)
			return err
		}); err != nil {
			return err
		}
		cfg.debug.Printf("%s: %d trace(s)", path, n)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}
