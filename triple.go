package tsc

import "strconv"

// Triple is a single trace: a caller-defined tag, and the counter values read
// at the start and stop of the span.
//
// A Stop of zero marks an unused buffer slot, so callers must never record a
// real trace with a zero stop value.
type Triple struct {
	Tag   uint64 `json:"tag"`
	Start uint64 `json:"start"`
	Stop  uint64 `json:"stop"`
}

// Delta returns Stop minus Start. If Stop is less than Start, the result wraps
// around, as uint64 arithmetic does.
func (tr Triple) Delta() uint64 {
	return tr.Stop - tr.Start
}

// IsZero returns true if the triple is an unused slot, i.e. Stop is zero.
func (tr Triple) IsZero() bool {
	return tr.Stop == 0
}

// AppendText appends the text export form of the triple, including the
// trailing newline, to dst.
func (tr Triple) AppendText(dst []byte) []byte {
	return appendTextLine(dst, tr.Tag, tr.Start, tr.Stop)
}

// String implements fmt.Stringer, using the text export form without the
// trailing newline.
func (tr Triple) String() string {
	b := tr.AppendText(make([]byte, 0, textLineMax))
	return string(b[:len(b)-1])
}

// textLineMax is the longest possible text line: four 20-digit values, three
// commas, and a newline.
const textLineMax = 4*20 + 3 + 1

func appendTextLine(dst []byte, tag, start, stop uint64) []byte {
	dst = strconv.AppendUint(dst, tag, 10)
	dst = append(dst, ',')
	dst = strconv.AppendUint(dst, start, 10)
	dst = append(dst, ',')
	dst = strconv.AppendUint(dst, stop, 10)
	dst = append(dst, ',')
	dst = strconv.AppendUint(dst, stop-start, 10)
	dst = append(dst, '\n')
	return dst
}
