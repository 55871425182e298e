package cutlang

// tile cyclically repeats arr until it has length n, truncating the last
// repetition. This is a lossy alignment, not zero-padding, except that an
// empty input has nothing to repeat and fills with false.
func tile(arr []bool, n int) []bool {
	out := make([]bool, n)
	if len(arr) == 0 {
		return out
	}
	for i := range out {
		out[i] = arr[i%len(arr)]
	}
	return out
}

// boolop applies an elementwise operator to two arrays, tiling the shorter
// one to the longer one's length first.
func boolop(a, b []bool, op func(bool, bool) bool) []bool {
	if len(a) > len(b) {
		b = tile(b, len(a))
	}
	if len(b) > len(a) {
		a = tile(a, len(b))
	}
	out := make([]bool, len(a))
	for i := range out {
		out[i] = op(a[i], b[i])
	}
	return out
}

func logicalAnd(a, b bool) bool { return a && b }
func logicalOr(a, b bool) bool  { return a || b }
func logicalXor(a, b bool) bool { return a != b }

// removeSmall overwrites every maximal run of target whose length is
// strictly less than lim with the opposite value.
func removeSmall(arr []bool, lim int, target bool) []bool {
	out := make([]bool, len(arr))
	copy(out, arr)

	start := 0
	active := false
	flush := func(end int) {
		if active && end-start < lim {
			for i := start; i < end; i += 1 {
				out[i] = !target
			}
		}
		active = false
	}
	for i, v := range arr {
		if v == target {
			if !active {
				start = i
				active = true
			}
		} else {
			flush(i)
		}
	}
	flush(len(arr))
	return out
}

// applyMargin extends every maximal run of true by start frames before its
// first index and end frames after its last, clipped to the array bounds.
// Overlapping extensions merge. Negative margins shrink runs instead.
func applyMargin(arr []bool, start, end int) []bool {
	out := make([]bool, len(arr))
	i := 0
	for i < len(arr) {
		if !arr[i] {
			i += 1
			continue
		}
		runStart := i
		for i < len(arr) && arr[i] {
			i += 1
		}
		lo := runStart - start
		hi := i + end
		if lo < 0 {
			lo = 0
		}
		if hi > len(arr) {
			hi = len(arr)
		}
		for j := lo; j < hi; j += 1 {
			out[j] = true
		}
	}
	return out
}

// cook applies minclip then mincut in that fixed order: short keeps are
// smoothed away first, then short cuts.
func cook(arr []bool, minclip, mincut int) []bool {
	out := removeSmall(arr, minclip, true)
	out = removeSmall(out, mincut, false)
	return out
}

// toThreshold binarizes continuous per-frame levels.
func toThreshold(levels []float64, threshold float64) []bool {
	out := make([]bool, len(levels))
	for i, level := range levels {
		out[i] = level >= threshold
	}
	return out
}

func countNonzero(arr []bool) int64 {
	var n int64
	for _, v := range arr {
		if v {
			n += 1
		}
	}
	return n
}
