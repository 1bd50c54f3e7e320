package simd

// Zero sets every sample in dst to silence.
func Zero(dst []float32) {
	Fill(dst, 0)
}

// Fill sets every sample in dst to v.
func Fill(dst []float32, v float32) {
	n := len(dst)
	i := 0
	for ; i+8 <= n; i += 8 {
		block := dst[i : i+8 : i+8]
		block[0] = v
		block[1] = v
		block[2] = v
		block[3] = v
		block[4] = v
		block[5] = v
		block[6] = v
		block[7] = v
	}
	for ; i < n; i++ {
		dst[i] = v
	}
}
