package protocol

import "strings"

// Frame layout: "<body> *XXXX" where XXXX is CRC16(body) in upper-case hex.
const (
	checksumMark = " *"
	checksumLen  = len(checksumMark) + 4
)

const hexDigits = "0123456789ABCDEF"

// AppendFrame appends body and its checksum to buf. It does not allocate
// beyond growing buf, so the firmware can use it per line.
func AppendFrame(buf []byte, body string) []byte {
	crc := CRC16([]byte(body))
	buf = append(buf, body...)
	buf = append(buf, checksumMark...)
	return append(buf,
		hexDigits[crc>>12&0xF],
		hexDigits[crc>>8&0xF],
		hexDigits[crc>>4&0xF],
		hexDigits[crc&0xF],
	)
}

// Frame returns body with its checksum.
func Frame(body string) string {
	return string(AppendFrame(make([]byte, 0, len(body)+checksumLen), body))
}

// Unframe splits a received line. framed is false when the line carries no
// checksum; valid is only meaningful when framed is true.
func Unframe(line string) (body string, framed, valid bool) {
	if len(line) < checksumLen {
		return line, false, false
	}
	i := len(line) - checksumLen
	if line[i:i+len(checksumMark)] != checksumMark {
		return line, false, false
	}
	want, ok := parseHex16(line[i+len(checksumMark):])
	if !ok {
		return line, false, false
	}
	body = line[:i]
	return body, true, CRC16([]byte(body)) == want
}

func parseHex16(s string) (uint16, bool) {
	var v uint16
	for _, c := range s {
		d := strings.IndexRune(hexDigits, c)
		if d < 0 {
			return 0, false
		}
		v = v<<4 | uint16(d)
	}
	return v, true
}
