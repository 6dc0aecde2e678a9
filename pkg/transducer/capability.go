package transducer

import (
	"math"

	"golang.org/x/sys/cpu"
)

// hostLittleEndian reports whether native loads match the on-disk byte order.
var hostLittleEndian = !cpu.IsBigEndian

// DecodePath names the record decoding strategy compiled into this binary:
// "unaligned" for native loads (fstunaligned build tag on a little-endian
// host), "cursor" for portable byte-wise decoding.
func DecodePath() string {
	if fastDecode && hostLittleEndian {
		return "unaligned"
	}
	return "cursor"
}

func loadF32(b []byte, off int) Weight {
	return Weight(math.Float32frombits(loadU32(b, off)))
}
