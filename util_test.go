package tsc

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func AssertEqual[T any](t *testing.T, want, have T) {
	t.Helper()
	if !cmp.Equal(want, have) {
		t.Fatal(cmp.Diff(want, have))
	}
}

func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("error %v", err)
	}
}

var errFailingWriter = errors.New("failing writer")

// failingWriter accepts n writes, and fails every write after that.
type failingWriter struct {
	n   int
	buf []byte
}

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n <= 0 {
		return 0, errFailingWriter
	}
	w.n--
	w.buf = append(w.buf, p...)
	return len(p), nil
}

func strategies() map[string]bool {
	return map[string]bool{"fixed": true, "grow": false}
}

func triples(b *Buffer) []Triple {
	res := []Triple{}
	b.Walk(func(tr Triple) error {
		res = append(res, tr)
		return nil
	})
	return res
}
