//go:build fstunaligned && (amd64 || arm64 || 386)

package transducer

import (
	"encoding/binary"
	"unsafe"
)

const fastDecode = true

func loadU16(b []byte, off int) uint16 {
	if hostLittleEndian {
		_ = b[off+1]
		return *(*uint16)(unsafe.Pointer(&b[off]))
	}
	return binary.LittleEndian.Uint16(b[off:])
}

func loadU32(b []byte, off int) uint32 {
	if hostLittleEndian {
		_ = b[off+3]
		return *(*uint32)(unsafe.Pointer(&b[off]))
	}
	return binary.LittleEndian.Uint32(b[off:])
}
