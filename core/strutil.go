package core

// String helpers that avoid fmt, which is too large for the firmware image.

// appendUint appends the decimal form of v to buf.
func appendUint(buf []byte, v uint64) []byte {
	var tmp [20]byte
	i := len(tmp)
	for {
		i--
		tmp[i] = byte('0' + v%10)
		v /= 10
		if v == 0 {
			break
		}
	}
	return append(buf, tmp[i:]...)
}

// appendInt appends the decimal form of a signed value.
func appendInt(buf []byte, v int64) []byte {
	if v < 0 {
		buf = append(buf, '-')
		return appendUint(buf, uint64(-v))
	}
	return appendUint(buf, uint64(v))
}

// appendFraction appends f with three decimals, e.g. 0.250. Values are
// clamped to [0, 9.999]; phase fractions never leave [0, 1].
func appendFraction(buf []byte, f float32) []byte {
	if !(f > 0) {
		f = 0
	}
	milli := uint64(f*1000 + 0.5)
	if milli > 9999 {
		milli = 9999
	}
	buf = appendUint(buf, milli/1000)
	buf = append(buf, '.')
	frac := milli % 1000
	buf = append(buf, byte('0'+frac/100), byte('0'+(frac/10)%10), byte('0'+frac%10))
	return buf
}
