// Package tscfile decodes traces exported by package tsc, in either the text
// or the binary format.
package tscfile

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterbourgon/tsc"
)

var (
	// ErrMalformed is returned for text lines that aren't four comma-separated
	// unsigned integers.
	ErrMalformed = errors.New("malformed trace")

	// ErrBadDelta is returned for text lines whose delta field isn't stop minus
	// start.
	ErrBadDelta = errors.New("delta doesn't match stop-start")
)

// recordSize is the size of one trace in the binary format.
const recordSize = 3 * 8

// DecodeText reads traces in the text format from r, and calls fn for each
// of them, in order. Blank lines are skipped. If fn returns an error, decoding
// stops and that error is returned.
func DecodeText(r io.Reader, fn func(tsc.Triple) error) error {
	s := bufio.NewScanner(r)
	for line := 1; s.Scan(); line++ {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			continue
		}

		tr, err := parseTextLine(text)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}

		if err := fn(tr); err != nil {
			return err
		}
	}

	if err := s.Err(); err != nil {
		return fmt.Errorf("read text traces: %w", err)
	}

	return nil
}

func parseTextLine(s string) (tsc.Triple, error) {
	var fields [4]uint64

	for i := range fields {
		field := s
		if i < len(fields)-1 {
			idx := strings.IndexByte(s, ',')
			if idx < 0 {
				return tsc.Triple{}, fmt.Errorf("%w: want 4 fields, have %d", ErrMalformed, i+1)
			}
			field, s = s[:idx], s[idx+1:]
		}

		v, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			return tsc.Triple{}, fmt.Errorf("%w: field %d: %v", ErrMalformed, i+1, err)
		}
		fields[i] = v
	}

	tr := tsc.Triple{Tag: fields[0], Start: fields[1], Stop: fields[2]}
	if want, have := tr.Delta(), fields[3]; want != have {
		return tsc.Triple{}, fmt.Errorf("%w: want %d, have %d", ErrBadDelta, want, have)
	}

	return tr, nil
}

// DecodeBinary reads traces in the binary format from r, and calls fn for each
// of them, in order. Decoding stops at the first trace with a stop value of
// zero, which marks the unused tail of the buffer, the same as in the text
// format. A trailing partial record is io.ErrUnexpectedEOF. If fn returns an
// error, decoding stops and that error is returned.
func DecodeBinary(r io.Reader, fn func(tsc.Triple) error) error {
	var (
		br  = bufio.NewReaderSize(r, 64*1024)
		rec [recordSize]byte
	)
	for n := 0; ; n++ {
		if _, err := io.ReadFull(br, rec[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("record %d: %w", n, err)
		}

		tr := tsc.Triple{
			Tag:   binary.LittleEndian.Uint64(rec[0:8]),
			Start: binary.LittleEndian.Uint64(rec[8:16]),
			Stop:  binary.LittleEndian.Uint64(rec[16:24]),
		}
		if tr.IsZero() {
			return nil
		}

		if err := fn(tr); err != nil {
			return err
		}
	}
}

// Decode reads traces in the given format from r.
func Decode(r io.Reader, f tsc.Format, fn func(tsc.Triple) error) error {
	switch f {
	case tsc.FormatText:
		return DecodeText(r, fn)
	case tsc.FormatBinary:
		return DecodeBinary(r, fn)
	default:
		return fmt.Errorf("invalid format %s", f)
	}
}

// ReadAll reads every trace in the given format from r.
func ReadAll(r io.Reader, f tsc.Format) ([]tsc.Triple, error) {
	var trs []tsc.Triple
	if err := Decode(r, f, func(tr tsc.Triple) error {
		trs = append(trs, tr)
		return nil
	}); err != nil {
		return nil, err
	}
	return trs, nil
}

// DetectFormat guesses the format of a file from its extension: .bin for the
// binary format, and .csv or .txt for the text format.
func DetectFormat(path string) (tsc.Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".bin":
		return tsc.FormatBinary, nil
	case ".csv", ".txt":
		return tsc.FormatText, nil
	default:
		return 0, fmt.Errorf("%s: can't detect format from extension %q", path, ext)
	}
}

// DecodeFile opens the file at path, detects its format with DetectFormat,
// and decodes it.
func DecodeFile(path string, fn func(tsc.Triple) error) error {
	f, err := DetectFormat(path)
	if err != nil {
		return err
	}
	return DecodeFileFormat(path, f, fn)
}

// DecodeFileFormat opens the file at path and decodes it in the given format.
func DecodeFileFormat(path string, f tsc.Format, fn func(tsc.Triple) error) error {
	fp, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open trace file: %w", err)
	}
	defer fp.Close()

	if err := Decode(fp, f, fn); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return nil
}
