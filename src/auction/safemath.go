package auction

import "math"

// Checked uint64 arithmetic. Every sum and product on the clearing and
// settlement paths goes through these; a wrapped value would corrupt the
// conservation invariant without tripping it.

func checkedAdd(a, b uint64) (uint64, error) {
	if a > math.MaxUint64-b {
		return 0, overflowf("add %d + %d", a, b)
	}
	return a + b, nil
}

func checkedSub(a, b uint64) (uint64, error) {
	if b > a {
		return 0, overflowf("sub %d - %d underflows", a, b)
	}
	return a - b, nil
}

func checkedMul(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > math.MaxUint64/b {
		return 0, overflowf("mul %d * %d", a, b)
	}
	return a * b, nil
}
