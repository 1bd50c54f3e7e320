package table_test

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-sndbuf/table"
)

func ExampleTable() {
	tbl := table.New(4)
	defer tbl.Close()

	if err := tbl.Allocate(0, 512, 2); err != nil {
		fmt.Println(err)
	}
	err := tbl.Allocate(0, 256, 1)
	fmt.Println(errors.Is(err, table.ErrAlreadyInUse))

	if err := tbl.Free(0); err != nil {
		fmt.Println(err)
	}
	if err := tbl.Allocate(0, 256, 1); err != nil {
		fmt.Println(err)
	}
	b := tbl.Buffer(0)
	fmt.Println(b.Frames(), b.Channels())

	// Output:
	// true
	// 256 1
}
