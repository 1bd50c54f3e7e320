package table

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-sndbuf/internal/testutil"
	"github.com/cwbudde/algo-sndbuf/mem"
	"github.com/cwbudde/algo-sndbuf/sndfile"
)

func TestAllocateFreeReallocate(t *testing.T) {
	tbl := New(4)
	defer tbl.Close()

	if err := tbl.Allocate(0, 512, 2); err != nil {
		t.Fatalf("Allocate(0, 512, 2): %v", err)
	}
	if err := tbl.Allocate(0, 256, 1); !errors.Is(err, ErrAlreadyInUse) {
		t.Fatalf("second Allocate = %v, want ErrAlreadyInUse", err)
	}
	if err := tbl.Free(0); err != nil {
		t.Fatalf("Free(0): %v", err)
	}
	if err := tbl.Allocate(0, 256, 1); err != nil {
		t.Fatalf("Allocate after Free: %v", err)
	}
	if b := tbl.Buffer(0); b.Frames() != 256 || b.Channels() != 1 {
		t.Fatalf("frames=%d channels=%d, want 256, 1", b.Frames(), b.Channels())
	}
}

func TestGuards(t *testing.T) {
	tbl := New(2)
	defer tbl.Close()

	if err := tbl.CheckInUse(0); !errors.Is(err, ErrNotInUse) {
		t.Fatalf("CheckInUse(free) = %v, want ErrNotInUse", err)
	}
	if err := tbl.CheckUnused(0); err != nil {
		t.Fatalf("CheckUnused(free) = %v, want nil", err)
	}

	if err := tbl.Allocate(0, 64, 1); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if err := tbl.CheckUnused(0); !errors.Is(err, ErrAlreadyInUse) {
		t.Fatalf("CheckUnused(allocated) = %v, want ErrAlreadyInUse", err)
	}
	if err := tbl.CheckInUse(0); err != nil {
		t.Fatalf("CheckInUse(allocated) = %v, want nil", err)
	}
}

func TestMutatingOpsRequireInUse(t *testing.T) {
	tbl := New(1)
	defer tbl.Close()

	if err := tbl.Zero(0); !errors.Is(err, ErrNotInUse) {
		t.Fatalf("Zero = %v, want ErrNotInUse", err)
	}
	if err := tbl.SetIndexed(0, []int{0}, []float32{1}); !errors.Is(err, ErrNotInUse) {
		t.Fatalf("SetIndexed = %v, want ErrNotInUse", err)
	}
	if err := tbl.SetRange(0, 0, []float32{1}); !errors.Is(err, ErrNotInUse) {
		t.Fatalf("SetRange = %v, want ErrNotInUse", err)
	}
	if err := tbl.Fill(0, 0, 1, 1); !errors.Is(err, ErrNotInUse) {
		t.Fatalf("Fill = %v, want ErrNotInUse", err)
	}
	if err := tbl.Write(0, "x.wav", sndfile.FormatWAV, sndfile.SampleInt16, 0, 0); !errors.Is(err, ErrNotInUse) {
		t.Fatalf("Write = %v, want ErrNotInUse", err)
	}
	if err := tbl.Free(0); !errors.Is(err, ErrNotInUse) {
		t.Fatalf("Free = %v, want ErrNotInUse", err)
	}
	if _, err := tbl.Detach(0); !errors.Is(err, ErrNotInUse) {
		t.Fatalf("Detach = %v, want ErrNotInUse", err)
	}
}

func TestReadAllocateGuard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guard.wav")
	tbl := New(2)
	defer tbl.Close()

	if err := tbl.Allocate(0, 32, 1); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if err := tbl.Zero(0); err != nil {
		t.Fatalf("Zero: %v", err)
	}
	if err := tbl.Write(0, path, sndfile.FormatWAV, sndfile.SampleInt16, 0, 0); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if err := tbl.ReadAllocate(0, path, 0, 0); !errors.Is(err, ErrAlreadyInUse) {
		t.Fatalf("ReadAllocate(in use) = %v, want ErrAlreadyInUse", err)
	}
	if err := tbl.ReadAllocate(1, path, 0, 0); err != nil {
		t.Fatalf("ReadAllocate: %v", err)
	}
	if b := tbl.Buffer(1); b.Frames() != 32 {
		t.Fatalf("Frames() = %d, want 32", b.Frames())
	}
}

func TestFailedReadLeavesSlotFree(t *testing.T) {
	tbl := New(1)
	defer tbl.Close()

	err := tbl.ReadAllocate(0, filepath.Join(t.TempDir(), "missing.wav"), 0, 0)
	if err == nil {
		t.Fatal("ReadAllocate of a missing file should fail")
	}
	// The slot must remain usable.
	if err := tbl.Allocate(0, 8, 1); err != nil {
		t.Fatalf("Allocate after failed read: %v", err)
	}
}

func TestTableOps(t *testing.T) {
	tbl := New(1)
	defer tbl.Close()

	if err := tbl.Allocate(0, 8, 1); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if err := tbl.Zero(0); err != nil {
		t.Fatalf("Zero: %v", err)
	}
	if err := tbl.SetRange(0, 2, []float32{1, 2}); err != nil {
		t.Fatalf("SetRange: %v", err)
	}
	if err := tbl.SetIndexed(0, []int{0, 100}, []float32{9, 9}); err != nil {
		t.Fatalf("SetIndexed: %v", err)
	}
	if err := tbl.Fill(0, 6, 10, 5); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	want := []float32{9, 0, 1, 2, 0, 0, 5, 5}
	testutil.RequireSamplesEqual(t, tbl.Buffer(0).Data(), want)
}

func TestCloseReleasesAll(t *testing.T) {
	outstanding := mem.Outstanding()
	tbl := New(4)
	for i := 0; i < 3; i++ {
		if err := tbl.Allocate(i, 128, 2); err != nil {
			t.Fatalf("Allocate(%d): %v", i, err)
		}
	}
	tbl.Close()
	if got := mem.Outstanding(); got != outstanding {
		t.Fatalf("Outstanding() = %d after Close, want %d", got, outstanding)
	}
	// All slots are free again.
	for i := 0; i < 4; i++ {
		if err := tbl.CheckUnused(i); err != nil {
			t.Fatalf("slot %d still in use after Close: %v", i, err)
		}
	}
}

func TestDefaultSampleRateOption(t *testing.T) {
	tbl := New(1, WithSampleRate(96000))
	defer tbl.Close()
	if err := tbl.Allocate(0, 4, 1); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if got := tbl.Buffer(0).SampleRate(); got != 96000 {
		t.Fatalf("SampleRate() = %d, want 96000", got)
	}
}
