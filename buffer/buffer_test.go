package buffer

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-sndbuf/internal/testutil"
	"github.com/cwbudde/algo-sndbuf/mem"
)

func TestAllocateFreeRestoresInitialState(t *testing.T) {
	outstanding := mem.Outstanding()
	var b Buffer

	if err := b.Allocate(512, 2); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if !b.Allocated() || b.Frames() != 512 || b.Channels() != 2 {
		t.Fatalf("after Allocate: allocated=%v frames=%d channels=%d", b.Allocated(), b.Frames(), b.Channels())
	}
	if len(b.Data()) != 1024 {
		t.Fatalf("len(Data()) = %d, want 1024", len(b.Data()))
	}
	testutil.RequireAligned(t, b.Data(), mem.Alignment)

	b.Free()
	if b.Allocated() || b.Frames() != 0 || b.Channels() != 0 || b.Data() != nil {
		t.Fatalf("after Free: allocated=%v frames=%d channels=%d", b.Allocated(), b.Frames(), b.Channels())
	}
	if got := mem.Outstanding(); got != outstanding {
		t.Fatalf("Outstanding() = %d, want %d", got, outstanding)
	}
}

func TestFreeIdempotent(t *testing.T) {
	var b Buffer
	b.Free()
	b.Free()
}

func TestAllocateOnAllocatedPanics(t *testing.T) {
	var b Buffer
	if err := b.Allocate(16, 1); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	defer b.Free()
	defer func() {
		if recover() == nil {
			t.Fatal("second Allocate should panic")
		}
	}()
	b.Allocate(8, 1)
}

func TestZero(t *testing.T) {
	var b Buffer
	if err := b.Allocate(64, 2); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	defer b.Free()

	b.Fill(0, 64, 1)
	b.Zero()
	for i, v := range b.Data() {
		if v != 0 {
			t.Fatalf("Data()[%d] = %v after Zero", i, v)
		}
	}
}

func TestZeroUnallocatedPanics(t *testing.T) {
	var b Buffer
	defer func() {
		if recover() == nil {
			t.Fatal("Zero on unallocated buffer should panic")
		}
	}()
	b.Zero()
}

func TestSetIndexedDropsOutOfRange(t *testing.T) {
	var b Buffer
	if err := b.Allocate(8, 1); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	defer b.Free()
	b.Zero()

	b.SetIndexed([]int{1, 8, 3, 100, -1}, []float32{10, 20, 30, 40, 50})
	want := []float32{0, 10, 0, 30, 0, 0, 0, 0}
	testutil.RequireSamplesEqual(t, b.Data(), want)
}

func TestSetIndexedUnpairedIgnored(t *testing.T) {
	var b Buffer
	if err := b.Allocate(4, 1); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	defer b.Free()
	b.Zero()

	b.SetIndexed([]int{0, 1, 2}, []float32{5})
	want := []float32{5, 0, 0, 0}
	testutil.RequireSamplesEqual(t, b.Data(), want)
}

func TestSetRangeClamps(t *testing.T) {
	var b Buffer
	if err := b.Allocate(8, 1); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	defer b.Free()
	b.Zero()

	if n := b.SetRange(6, []float32{1, 2, 3, 4}); n != 2 {
		t.Fatalf("SetRange wrote %d samples, want 2", n)
	}
	want := []float32{0, 0, 0, 0, 0, 0, 1, 2}
	testutil.RequireSamplesEqual(t, b.Data(), want)

	if n := b.SetRange(8, []float32{9}); n != 0 {
		t.Fatalf("SetRange at frame count wrote %d samples, want 0", n)
	}
	if n := b.SetRange(100, []float32{9}); n != 0 {
		t.Fatalf("SetRange past frame count wrote %d samples, want 0", n)
	}
	testutil.RequireSamplesEqual(t, b.Data(), want)
}

func TestSetRangeNegativePositionPanics(t *testing.T) {
	var b Buffer
	if err := b.Allocate(8, 1); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	defer b.Free()
	defer func() {
		if recover() == nil {
			t.Fatal("negative position should panic")
		}
	}()
	b.SetRange(-1, []float32{1})
}

func TestFillClamps(t *testing.T) {
	var b Buffer
	if err := b.Allocate(512, 1); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	defer b.Free()
	b.Zero()

	if n := b.Fill(500, 100, 1); n != 12 {
		t.Fatalf("Fill wrote %d samples, want 12", n)
	}
	data := b.Data()
	for i := 0; i < 500; i++ {
		if data[i] != 0 {
			t.Fatalf("sample %d = %v, want 0", i, data[i])
		}
	}
	for i := 500; i < 512; i++ {
		if data[i] != 1 {
			t.Fatalf("sample %d = %v, want 1", i, data[i])
		}
	}
}

func TestFillNegativeCount(t *testing.T) {
	var b Buffer
	if err := b.Allocate(8, 1); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	defer b.Free()
	if n := b.Fill(0, -5, 1); n != 0 {
		t.Fatalf("Fill with negative count wrote %d samples, want 0", n)
	}
}

func TestDetachMovesOwnership(t *testing.T) {
	outstanding := mem.Outstanding()
	var b Buffer
	if err := b.Allocate(16, 1); err != nil {
		t.Fatalf("Allocate: %v", err)
	}

	storage := b.Detach()
	if storage == nil {
		t.Fatal("Detach returned nil for an allocated buffer")
	}
	if b.Allocated() || b.Frames() != 0 || b.Channels() != 0 {
		t.Fatal("buffer not reset by Detach")
	}
	if got := mem.Outstanding(); got != outstanding+1 {
		t.Fatalf("Outstanding() = %d, want %d (storage still live)", got, outstanding+1)
	}
	mem.FreeFloat32(storage)
	if got := mem.Outstanding(); got != outstanding {
		t.Fatalf("Outstanding() = %d after release, want %d", got, outstanding)
	}

	if b.Detach() != nil {
		t.Fatal("Detach on unallocated buffer should return nil")
	}
}

func TestAllocFailedOnOverflow(t *testing.T) {
	var b Buffer
	err := b.Allocate(math.MaxInt/2, 3)
	if !errors.Is(err, ErrAllocFailed) {
		t.Fatalf("Allocate overflow = %v, want ErrAllocFailed", err)
	}
	if b.Allocated() {
		t.Fatal("buffer must stay unallocated after failed Allocate")
	}
}

func TestZeroSampleAllocateIsAllocated(t *testing.T) {
	var b Buffer
	if err := b.Allocate(0, 2); err != nil {
		t.Fatalf("Allocate(0, 2): %v", err)
	}
	if !b.Allocated() {
		t.Fatal("zero-frame buffer should still be in the allocated state")
	}
	if len(b.Data()) != 0 {
		t.Fatalf("len(Data()) = %d, want 0", len(b.Data()))
	}
	b.Free()
}
