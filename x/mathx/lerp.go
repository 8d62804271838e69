package mathx

// Lerp interpolates linearly from a to b by elapsed/total. The fraction is
// clamped to [0, 1]; total == 0 snaps to b.
func Lerp(a, b float32, elapsed, total uint64) float32 {
	if total == 0 || elapsed >= total {
		return b
	}
	t := float32(elapsed) / float32(total)
	return a + (b-a)*t
}

// RoundU16 rounds a non-negative value to the nearest uint16, saturating at the
// type bounds.
func RoundU16(v float32) uint16 {
	if v <= 0 {
		return 0
	}
	if v >= 65535 {
		return 65535
	}
	return uint16(v + 0.5)
}
