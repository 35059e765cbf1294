//go:build !tsc_off

package tsc_test

import (
	"fmt"
	"os"

	"github.com/peterbourgon/tsc"
)

func ExampleBuffer_WriteText() {
	buf := tsc.NewBuffer()
	buf.Insert(1, 100, 150)
	buf.Insert(2, 200, 260)
	buf.WriteText(os.Stdout)
	// Output:
	// 1,100,150,50
	// 2,200,260,60
}

func ExampleBuffer_Start() {
	buf := tsc.NewBuffer()

	parse := func() {
		defer buf.Start(1).End()
		// ...
	}
	parse()
	parse()

	tr, _ := buf.Newest()
	fmt.Println(buf.Len(), tr.Tag, tr.Stop >= tr.Start)
	// Output:
	// 2 1 true
}
