//go:build (linux || windows) && !tsc_off

package tsc

import (
	"bytes"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"testing"
)

func TestThreadBuffer(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	Release()

	b := Thread()
	AssertEqual(t, true, b == Thread())
	AssertEqual(t, Capacity, b.Capacity())

	released := Release()
	AssertEqual(t, true, released == b)
	AssertEqual(t, true, Release() == nil)

	fresh := Thread()
	AssertEqual(t, false, fresh == b)
	Release()
}

func TestUnpinReleases(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	Release()

	buf, unpin := Pin()
	buf.Insert(1, 100, 150)
	unpin()

	// Still locked by the outer LockOSThread, so this is the same thread.
	AssertEqual(t, true, Release() == nil)

	fresh := Thread()
	AssertEqual(t, false, fresh == buf)
	AssertEqual(t, 0, fresh.Len())
	Release()

	// The unpinned buffer is still usable for export.
	var text bytes.Buffer
	AssertNoError(t, buf.WriteText(&text))
	AssertEqual(t, "1,100,150,50\n", text.String())
}

func TestPackageLevel(t *testing.T) {
	buf, unpin := Pin()
	defer unpin()

	AssertEqual(t, true, buf == Thread())

	Insert(int8(1), 100, uint32(150))
	Insert(uint16(2), int64(200), uintptr(260))

	span := Start(3)
	span.End()

	var text bytes.Buffer
	AssertNoError(t, WriteText(&text))

	lines := strings.Split(strings.TrimSpace(text.String()), "\n")
	AssertEqual(t, 3, len(lines))
	AssertEqual(t, "1,100,150,50", lines[0])
	AssertEqual(t, "2,200,260,60", lines[1])
	if !strings.HasPrefix(lines[2], "3,") {
		t.Errorf("span line: have %q", lines[2])
	}
}

func TestThreadIsolation(t *testing.T) {
	const workers = 4

	var (
		ready   sync.WaitGroup
		done    sync.WaitGroup
		start   = make(chan struct{})
		outputs = make([]string, workers)
		errs    = make([]error, workers)
	)

	ready.Add(workers)
	done.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer done.Done()

			buf, unpin := Pin()
			defer unpin()

			// Make sure no buffer is left over from an earlier test on this thread.
			Release()
			buf = Thread()

			ready.Done()
			<-start

			n := 100 * (w + 1)
			for i := 0; i < n; i++ {
				Insert(w, i+1, i+2)
			}

			var text bytes.Buffer
			errs[w] = buf.WriteText(&text)
			outputs[w] = text.String()
		}(w)
	}

	ready.Wait()
	close(start)
	done.Wait()

	for w := 0; w < workers; w++ {
		AssertNoError(t, errs[w])

		lines := strings.Split(strings.TrimSpace(outputs[w]), "\n")
		if want, have := 100*(w+1), len(lines); want != have {
			t.Fatalf("worker %d: want %d lines, have %d", w, want, have)
		}
		for i, line := range lines {
			if want := fmt.Sprintf("%d,%d,%d,1", w, i+1, i+2); want != line {
				t.Fatalf("worker %d: line %d: want %q, have %q", w, i, want, line)
			}
		}
	}
}
