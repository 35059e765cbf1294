//go:build (linux || windows) && !tsc_off

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/peterbourgon/tsc"
	"github.com/peterbourgon/tsc/tscfile"
)

func TestSample(t *testing.T) {
	t.Parallel()

	if tsc.Capacity > 1_000_000 {
		t.Skip("binary export is too large at this capacity")
	}

	dir := t.TempDir()
	stdout, stderr, err := runExec(t, "sample", "--count=100", "--work=10", "--dir", dir, "--summary")
	AssertNoError(t, err)

	if !strings.Contains(stderr, "counter source: "+tsc.CounterSource) {
		t.Errorf("missing counter source in log output: %s", stderr)
	}

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	textPath, binPath := lines[0], lines[1]
	AssertEqual(t, dir, filepath.Dir(textPath))
	AssertEqual(t, ".csv", filepath.Ext(textPath))
	AssertEqual(t, ".bin", filepath.Ext(binPath))

	fi, err := os.Stat(binPath)
	AssertNoError(t, err)
	AssertEqual(t, int64(24*tsc.Capacity), fi.Size())

	var fromText, fromBinary []tsc.Triple
	AssertNoError(t, tscfile.DecodeFile(textPath, func(tr tsc.Triple) error { fromText = append(fromText, tr); return nil }))
	AssertNoError(t, tscfile.DecodeFile(binPath, func(tr tsc.Triple) error { fromBinary = append(fromBinary, tr); return nil }))
	AssertEqual(t, 300, len(fromText))
	AssertEqual(t, fromText, fromBinary)

	if !strings.Contains(stdout, "insert") {
		t.Errorf("missing summary in output: %s", stdout)
	}
}
