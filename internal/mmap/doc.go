// Package mmap provides read-only memory-mapped file access for transducer
// tables.
//
// A Mapping is shared by every table decoded from it. Holders call Retain
// before keeping a reference and Release when done; the memory is unmapped
// when the last reference is released.
//
//	m, err := mmap.Open("se.zhfst")
//	if err != nil { ... }
//	defer m.Release()
//
//	region, _ := m.Region(offset, size)
//	data := region.Bytes()
//
// Unix systems map with mmap(2) and accept madvise(2) hints. Other platforms
// fall back to reading the file into memory; hints are then no-ops.
package mmap
