//go:build !fstunaligned || !(amd64 || arm64 || 386)

package transducer

import "encoding/binary"

const fastDecode = false

func loadU16(b []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(b[off:])
}

func loadU32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off:])
}
