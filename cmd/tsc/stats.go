package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffval"
	"github.com/peterbourgon/tsc"
	"github.com/peterbourgon/tsc/tscstats"
)

type statsConfig struct {
	*rootConfig

	output   string
	tagNames []string
	buckets  []string
}

func (cfg *statsConfig) register(fs *ff.FlagSet) {
	fs.AddFlag(ff.FlagConfig{ShortName: 'o', LongName: "output" /*   */, Value: ffval.NewEnum(&cfg.output, "text", "json", "prettyjson") /* */, Usage: "output format: text, json, prettyjson", Placeholder: "FORMAT"})
	fs.AddFlag(ff.FlagConfig{ShortName: 'n', LongName: "tag-name" /* */, Value: ffval.NewUniqueList(&cfg.tagNames) /*                    */, Usage: "name for a tag, e.g. 1=parse (repeatable)", Placeholder: "TAG=NAME", NoDefault: true})
	fs.AddFlag(ff.FlagConfig{ShortName: 'b', LongName: "bucket" /*   */, Value: ffval.NewUniqueList(&cfg.buckets) /*                     */, Usage: "delta bucket threshold in ticks (repeatable, default powers of 10)", Placeholder: "TICKS", NoDefault: true})
}

func (cfg *statsConfig) Exec(ctx context.Context, args []string) error {
	if err := requireFiles(args); err != nil {
		return err
	}

	names, err := parseTagNames(cfg.tagNames)
	if err != nil {
		return err
	}

	bucketing, err := parseBucketing(cfg.buckets)
	if err != nil {
		return err
	}

	cfg.debug.Printf("tag names: %d", len(names))
	cfg.debug.Printf("bucketing: %v", bucketing)

	// Each file is usually one thread's buffer, so stats are computed per
	// file, and merged.
	total := tscstats.NewStats(bucketing)
	for _, path := range args {
		s := tscstats.NewStats(bucketing)
		if err := cfg.decodeFile(path, func(tr tsc.Triple) error {
			s.Observe(tr)
			return nil
		}); err != nil {
			return err
		}
		cfg.debug.Printf("%s: %d trace(s), %d tag(s)", path, s.Overall().Count, len(s.Tags))
		total.Merge(s)
	}

	switch cfg.output {
	case "json", "prettyjson":
		enc := json.NewEncoder(cfg.stdout)
		if cfg.output == "prettyjson" {
			enc.SetIndent("", "    ")
		}
		if err := enc.Encode(total); err != nil {
			return fmt.Errorf("marshal stats: %w", err)
		}
		return nil

	default:
		return total.WriteTable(cfg.stdout, names)
	}
}

func parseTagNames(pairs []string) (tscstats.Names, error) {
	names := tscstats.Names{}
	for _, pair := range pairs {
		tagstr, name, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%s: invalid tag name, want TAG=NAME", pair)
		}
		tag, err := strconv.ParseUint(strings.TrimSpace(tagstr), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid tag: %w", pair, err)
		}
		names[tag] = strings.TrimSpace(name)
	}
	return names, nil
}

func parseBucketing(strs []string) ([]uint64, error) {
	if len(strs) <= 0 {
		return tscstats.DefaultBucketing, nil
	}

	bucketing := make([]uint64, 0, len(strs))
	for _, s := range strs {
		n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid bucket: %w", s, err)
		}
		if len(bucketing) > 0 && n <= bucketing[len(bucketing)-1] {
			return nil, fmt.Errorf("%s: buckets must be strictly increasing", s)
		}
		bucketing = append(bucketing, n)
	}

	return bucketing, nil
}
