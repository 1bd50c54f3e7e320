// Package testutil provides shared test assertions for sample data.
package testutil

import (
	"math"
	"testing"
	"unsafe"
)

// RequireSamplesEqual fails t if got and want differ in length or in any
// element (exact comparison).
func RequireSamplesEqual(t *testing.T, got, want []float32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("sample %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

// RequireSamplesNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance). Use this for data that
// passed through a quantizing sample format.
func RequireSamplesNearlyEqual(t *testing.T, got, want []float32, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := math.Abs(float64(got[i]) - float64(want[i]))
		if diff > eps {
			t.Fatalf("sample %d: got %v, want %v (diff %v > eps %v)",
				i, got[i], want[i], diff, eps)
		}
	}
}

// RequireAligned fails t if the first sample of s does not start on an
// align-byte boundary.
func RequireAligned(t *testing.T, s []float32, align uintptr) {
	t.Helper()
	if len(s) == 0 {
		t.Fatal("empty slice has no address to check")
	}
	if addr := uintptr(unsafe.Pointer(&s[0])); addr%align != 0 {
		t.Fatalf("address %#x not aligned to %d bytes", addr, align)
	}
}

// Ramp returns n samples counting up from 0 in steps of step.
func Ramp(n int, step float32) []float32 {
	s := make([]float32, n)
	for i := range s {
		s[i] = float32(i) * step
	}
	return s
}
