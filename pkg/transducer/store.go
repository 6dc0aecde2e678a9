package transducer

// recordStore addresses fixed-size records spread across one or more byte
// regions. Every region except the last holds exactly perRegion records.
type recordStore struct {
	regions   [][]byte
	perRegion uint32
	stride    int
	size      uint32
}

func newRecordStore(regions [][]byte, stride int, size uint32) recordStore {
	s := recordStore{regions: regions, stride: stride, size: size}
	if len(regions) > 0 {
		s.perRegion = uint32(len(regions[0]) / stride)
	}
	return s
}

// record returns the bytes of record i, or nil when i is out of range or the
// backing region is too short.
func (s *recordStore) record(i uint32) []byte {
	if i >= s.size || len(s.regions) == 0 {
		return nil
	}
	region, off := 0, i
	if len(s.regions) > 1 {
		if s.perRegion == 0 {
			return nil
		}
		region, off = int(i/s.perRegion), i%s.perRegion
		if region >= len(s.regions) {
			return nil
		}
	}
	b := s.regions[region]
	base := int(off) * s.stride
	if base+s.stride > len(b) {
		return nil
	}
	return b[base : base+s.stride]
}
