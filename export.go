package tsc

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format is one of the two export formats.
type Format int

const (
	// FormatText is one line per trace, "tag,start,stop,delta\n", with all
	// four fields as decimal unsigned integers. Output ends at the first unused
	// slot, i.e. the first trace with a stop of zero.
	FormatText Format = iota

	// FormatBinary is the complete buffer as raw little-endian uint64 words,
	// tag, start, and stop for each slot, with no framing. Output is always
	// exactly 24*Capacity bytes, including unused slots as zeroes. This is
	// suitable for e.g. ClickHouse's RowBinary input format.
	FormatBinary
)

// ParseFormat parses a format name: "text" or "csv" for FormatText, and
// "binary" or "bin" for FormatBinary.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "csv":
		return FormatText, nil
	case "binary", "bin":
		return FormatBinary, nil
	default:
		return 0, fmt.Errorf("invalid format %q", s)
	}
}

// String implements fmt.Stringer.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatBinary:
		return "binary"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Ext returns the conventional file extension for the format, with a leading
// dot.
func (f Format) Ext() string {
	switch f {
	case FormatBinary:
		return ".bin"
	default:
		return ".csv"
	}
}

// WriteText writes the buffer's traces to w in FormatText. Traces are written
// in slot order, one Write call per trace, and writing stops at the first slot
// with a stop value of zero. The first error returned by w is returned, and no
// further writes are made. The buffer isn't modified, so a failed export can
// be retried.
func (b *Buffer) WriteText(w io.Writer) error {
	for i := 0; i+2 < len(b.words); i += 3 {
		tag, start, stop := b.words[i], b.words[i+1], b.words[i+2]
		if stop == 0 {
			break
		}

		line := appendTextLine(b.line[:0], tag, start, stop)
		if _, err := w.Write(line); err != nil {
			return fmt.Errorf("write trace %d: %w", i/3, err)
		}
	}

	return nil
}

// binaryChunkBytes is the size of the scratch space used by WriteBinary.
const binaryChunkBytes = 8 * 512

// WriteBinary writes the complete buffer to w in FormatBinary. Exactly
// 24*Capacity bytes are written, regardless of how many traces have been
// inserted; slots that were never written are zeroes. The first error returned
// by w is returned, and no further writes are made.
func (b *Buffer) WriteBinary(w io.Writer) error {
	chunk := b.chunk[:0]
	for i := 0; i < b.cap; i++ {
		var word uint64
		if i < len(b.words) {
			word = b.words[i]
		}

		chunk = binary.LittleEndian.AppendUint64(chunk, word)
		if len(chunk) < cap(chunk) && i < b.cap-1 {
			continue
		}

		if _, err := w.Write(chunk); err != nil {
			return fmt.Errorf("write word %d: %w", i, err)
		}
		chunk = chunk[:0]
	}

	return nil
}

// Write writes the buffer to w in the given format.
func (b *Buffer) Write(w io.Writer, f Format) error {
	switch f {
	case FormatText:
		return b.WriteText(w)
	case FormatBinary:
		return b.WriteBinary(w)
	default:
		return fmt.Errorf("invalid format %s", f)
	}
}

// WriteFile writes the buffer in the given format to a new file in dir, named
// after the buffer ID and the format extension, and returns the file path.
func (b *Buffer) WriteFile(dir string, f Format) (path string, err error) {
	path = filepath.Join(dir, "tsc-"+b.id.String()+f.Ext())

	fp, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if closeErr := fp.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close export file: %w", closeErr)
		}
	}()

	bw := bufio.NewWriterSize(fp, 64*1024)
	if err := b.Write(bw, f); err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	if err := bw.Flush(); err != nil {
		return "", fmt.Errorf("%s: flush: %w", path, err)
	}

	return path, nil
}
