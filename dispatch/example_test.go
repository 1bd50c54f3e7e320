package dispatch_test

import (
	"fmt"

	"github.com/cwbudde/algo-sndbuf/dispatch"
	"github.com/cwbudde/algo-sndbuf/table"
)

func ExampleEngine() {
	engine := dispatch.New(table.New(8))
	defer engine.Close()

	if err := engine.Allocate(0, 1024, 1); err != nil {
		fmt.Println(err)
	}
	if err := engine.GenSine1(0, []float64{1, 0.5, 0.25}, true); err != nil {
		fmt.Println(err)
	}

	// The render path signals block boundaries; freed storage is
	// reclaimed only after a barrier has passed.
	if err := engine.Free(0); err != nil {
		fmt.Println(err)
	}
	engine.RenderBarrier()

	fmt.Println(engine.Buffer(0).Allocated())

	// Output:
	// false
}
