// Package protocol frames the firmware's text stream. Each line carries a
// trailing checksum so the host can tell USB or UART corruption from a
// real reading.
package protocol

// CRC16 computes the reflected CCITT checksum (poly 0x8408, init 0xFFFF,
// no final xor) used on every framed line.
func CRC16(data []byte) uint16 {
	crc := uint16(0xFFFF)
	for _, b := range data {
		b = b ^ uint8(crc&0xFF)
		b = b ^ (b << 4)
		b16 := uint16(b)
		crc = (b16<<8 | crc>>8) ^ (b16 >> 4) ^ (b16 << 3)
	}
	return crc
}
