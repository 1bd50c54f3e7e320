// Package gen fills allocated buffers with generated wavetables.
//
// These are the buffer-generation commands of the command surface: sums of
// sine partials and Chebyshev waveshaping tables, with optional peak
// normalization. Tables are computed in float64 and converted to the
// buffer's float32 samples at the end; multichannel buffers receive the
// table duplicated across channels.
//
// The parameters arrive from remote callers, so violations here are
// recoverable errors rather than panics.
package gen

import (
	"errors"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-sndbuf/buffer"
)

// Errors returned by the generators.
var (
	ErrNotAllocated = errors.New("gen: buffer is not allocated")
	ErrNoPartials   = errors.New("gen: no partials given")
	ErrBadPartials  = errors.New("gen: frequency and amplitude counts differ")
	ErrNoCoeffs     = errors.New("gen: no coefficients given")
)

// Sine1 fills b with a sum of harmonic sine partials; partials[i] is the
// amplitude of harmonic i+1.
func Sine1(b *buffer.Buffer, partials []float64, normalize bool) error {
	if len(partials) == 0 {
		return ErrNoPartials
	}
	freqs := make([]float64, len(partials))
	for i := range freqs {
		freqs[i] = float64(i + 1)
	}
	return Sine2(b, freqs, partials, normalize)
}

// Sine2 fills b with a sum of sine partials at arbitrary frequencies,
// given in cycles per table.
func Sine2(b *buffer.Buffer, freqs, amps []float64, normalize bool) error {
	if !b.Allocated() {
		return ErrNotAllocated
	}
	if len(freqs) == 0 {
		return ErrNoPartials
	}
	if len(freqs) != len(amps) {
		return ErrBadPartials
	}

	n := b.Frames()
	table := make([]float64, n)
	for p := range freqs {
		a := amps[p]
		if a == 0 {
			continue
		}
		w := 2 * math.Pi * freqs[p] / float64(n)
		for i := range table {
			table[i] += a * math.Sin(w*float64(i))
		}
	}
	finishTable(b, table, normalize)
	return nil
}

// Cheby fills b with a waveshaping transfer function over [-1, 1] built
// from Chebyshev polynomials; coeffs[k] is the amplitude of T_{k+1}.
func Cheby(b *buffer.Buffer, coeffs []float64, normalize bool) error {
	if !b.Allocated() {
		return ErrNotAllocated
	}
	if len(coeffs) == 0 {
		return ErrNoCoeffs
	}

	n := b.Frames()
	table := make([]float64, n)
	for i := range table {
		x := -1.0
		if n > 1 {
			x = -1 + 2*float64(i)/float64(n-1)
		}
		// Chebyshev recurrence: T_0 = 1, T_1 = x, T_k = 2x*T_{k-1} - T_{k-2}.
		prev, cur := 1.0, x
		sum := 0.0
		for _, c := range coeffs {
			sum += c * cur
			prev, cur = cur, 2*x*cur-prev
		}
		table[i] = sum
	}
	finishTable(b, table, normalize)
	return nil
}

// finishTable optionally normalizes the working table to unit peak and
// stores it into every channel of b.
func finishTable(b *buffer.Buffer, table []float64, normalize bool) {
	if normalize && len(table) > 0 {
		if peak := vecmath.MaxAbs(table); peak > 0 {
			vecmath.ScaleBlockInPlace(table, 1/peak)
		}
	}

	data := b.Data()
	ch := b.Channels()
	for i, v := range table {
		f := float32(v)
		for c := 0; c < ch; c++ {
			data[i*ch+c] = f
		}
	}
}
